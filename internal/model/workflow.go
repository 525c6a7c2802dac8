// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Workflow and its parts. A workflow is the unit the
// execution controller runs: nodes reference scripts, connections order them,
// and each node's mappings compute its arguments.
package model

import "time"

// Workflow is a named graph of script invocations.
type Workflow struct {
	ID          string
	Name        string
	Description string
	Icon        string
	CreatedAt   time.Time
	ModifiedAt  time.Time
	Nodes       []*WorkflowNode
	Connections []Connection
}

// Node returns the node with the given id, or nil.
func (w *Workflow) Node(id string) *WorkflowNode {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NodeIDs returns the ids of all nodes in declaration order.
func (w *Workflow) NodeIDs() []string {
	ids := make([]string, 0, len(w.Nodes))
	for _, n := range w.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// Position is a node's location on the editor canvas. Execution ignores it.
type Position struct {
	X float64
	Y float64
}

// WorkflowNode is one step of a workflow.
type WorkflowNode struct {
	ID       string
	ScriptID string
	Position Position
	// Mappings holds overrides keyed by parameter name. Parameters without an
	// entry resolve to their declared default.
	Mappings map[string]ParameterMapping
}

// Connection is a directed dependency edge. Every connection orders its
// endpoints regardless of Channel, which only describes the data shown
// flowing along the edge.
type Connection struct {
	ID      string
	From    string
	To      string
	Channel OutputChannel
}

// Clone returns a deep copy. Runs work on clones so edits made while a run is
// in flight do not reach it.
func (w *Workflow) Clone() *Workflow {
	c := *w
	c.Nodes = make([]*WorkflowNode, len(w.Nodes))
	for i, n := range w.Nodes {
		nc := *n
		if n.Mappings != nil {
			nc.Mappings = make(map[string]ParameterMapping, len(n.Mappings))
			for k, v := range n.Mappings {
				nc.Mappings[k] = v
			}
		}
		c.Nodes[i] = &nc
	}
	c.Connections = append([]Connection(nil), w.Connections...)
	return &c
}
