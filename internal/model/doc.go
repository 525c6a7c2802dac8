// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go representation of scripts and workflows as
// the engine consumes them. Values in this package are plain data: they are
// produced by a loader (see internal/hcl), held by the script registry and
// workflow store, and treated as read-only snapshots for the duration of a
// run.
//
// # Core Concepts
//
//   - Script: a runnable unit with a runtime kind (compiled, interpreted or
//     shell), a source path and an ordered list of declared parameters.
//
//   - Workflow: a set of nodes, each referencing a script by id, plus the
//     connections that define execution order.
//
//   - ParameterMapping: the rule that computes a node's parameter value at run
//     time. It is a closed sum type with three arms: Constant, FromOutput and
//     UserInput.
//
//   - NodeOutput: what a finished node leaves behind for later nodes to read
//     through one of the four output channels.
//
// References between these values are weak. A node may name a script that no
// longer exists, and a mapping may name a node that never ran; consumers
// must tolerate both.
package model
