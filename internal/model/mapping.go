// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines ParameterMapping, the rule that yields a node's parameter
// value at run time, and the output channels a FromOutput mapping can read.
package model

import "fmt"

// OutputChannel names one observable facet of a finished node.
type OutputChannel string

const (
	ChannelStdout           OutputChannel = "stdout"
	ChannelStderr           OutputChannel = "stderr"
	ChannelExitCode         OutputChannel = "exitCode"
	ChannelWorkingDirectory OutputChannel = "workingDirectory"
)

// Valid reports whether c is one of the four known channels.
func (c OutputChannel) Valid() bool {
	switch c {
	case ChannelStdout, ChannelStderr, ChannelExitCode, ChannelWorkingDirectory:
		return true
	}
	return false
}

// ParameterMapping is implemented by Constant, FromOutput and UserInput only.
type ParameterMapping interface {
	isMapping()
	fmt.Stringer
}

// Constant supplies a literal value.
type Constant struct {
	Value string
}

// FromOutput reads a channel of a node that ran earlier in the same run.
type FromOutput struct {
	SourceNodeID string
	Channel      OutputChannel
}

// UserInput defers the value to whoever runs the workflow.
type UserInput struct{}

func (Constant) isMapping()   {}
func (FromOutput) isMapping() {}
func (UserInput) isMapping()  {}

func (m Constant) String() string   { return fmt.Sprintf("constant(%q)", m.Value) }
func (m FromOutput) String() string { return fmt.Sprintf("output(%s.%s)", m.SourceNodeID, m.Channel) }
func (UserInput) String() string    { return "user_input" }
