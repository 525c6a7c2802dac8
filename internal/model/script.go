// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Script, the immutable descriptor of a runnable unit, and
// the Parameter declarations that describe its positional arguments.
package model

import "fmt"

// RuntimeKind selects how a script is launched.
type RuntimeKind string

const (
	// RuntimeCompiled scripts are built on demand and run from the build
	// output directory.
	RuntimeCompiled RuntimeKind = "compiled"
	// RuntimeInterpreted scripts are passed to the interpreter binary.
	RuntimeInterpreted RuntimeKind = "interpreted"
	// RuntimeShell scripts are passed to the shell binary.
	RuntimeShell RuntimeKind = "shell"
)

// Valid reports whether k is one of the known runtime kinds.
func (k RuntimeKind) Valid() bool {
	switch k {
	case RuntimeCompiled, RuntimeInterpreted, RuntimeShell:
		return true
	}
	return false
}

// ParamType is the semantic type of a parameter. It only affects how a
// resolved value is quoted before it is handed to a process.
type ParamType string

const (
	ParamText      ParamType = "text"
	ParamInteger   ParamType = "integer"
	ParamBoolean   ParamType = "boolean"
	ParamDirectory ParamType = "directory"
	ParamFile      ParamType = "file"
	ParamChoice    ParamType = "choice"
)

// Valid reports whether t is one of the known parameter types.
func (t ParamType) Valid() bool {
	switch t {
	case ParamText, ParamInteger, ParamBoolean, ParamDirectory, ParamFile, ParamChoice:
		return true
	}
	return false
}

// IsPath reports whether values of this type name a filesystem location.
func (t ParamType) IsPath() bool {
	return t == ParamDirectory || t == ParamFile
}

// Parameter is a single declared argument of a script.
type Parameter struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Default     *string   `json:"defaultValue,omitempty"`
	Description string    `json:"description,omitempty"`
	Options     []string  `json:"options,omitempty"`
}

// DefaultValue returns the declared default, or the empty string if the
// parameter has none.
func (p Parameter) DefaultValue() string {
	if p.Default == nil {
		return ""
	}
	return *p.Default
}

// Script describes a runnable unit. It is owned by the script registry and
// never mutated by the engine.
type Script struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Kind        RuntimeKind `json:"type"`
	// Source is the path of the script's source file.
	Source string `json:"scriptPath"`
	// Entry identifies the compiled entry point (a class name). Other kinds
	// ignore it.
	Entry      string      `json:"className,omitempty"`
	Icon       string      `json:"icon,omitempty"`
	Group      string      `json:"group,omitempty"`
	Parameters []Parameter `json:"parameters"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// Parameter returns the declared parameter with the given name.
func (s *Script) Parameter(name string) (Parameter, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// String implements fmt.Stringer.
func (s *Script) String() string {
	return fmt.Sprintf("%s (%s, %s)", s.Name, s.ID, s.Kind)
}

// ScriptGroup is a named, ordered collection of script ids used for listing.
type ScriptGroup struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Icon      string   `json:"icon,omitempty"`
	ScriptIDs []string `json:"scriptIds"`
}
