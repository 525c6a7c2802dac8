// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines NodeOutput, the captured result of one finished node.
package model

// NodeOutput is created when a node finishes and never changes afterwards.
type NodeOutput struct {
	Stdout           string `json:"stdout"`
	Stderr           string `json:"stderr"`
	ExitCode         int32  `json:"exitCode"`
	WorkingDirectory string `json:"workingDirectory"`
}

// Succeeded reports whether the node exited with code zero.
func (o NodeOutput) Succeeded() bool {
	return o.ExitCode == 0
}
