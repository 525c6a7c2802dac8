// Package nodestore defines the interface for the mutable, per-run state of
// workflow nodes: their execution status and captured output.
//
// A store is created for one run, filled by the execution controller as
// nodes finish, read by the parameter resolver (through Outputs) while later
// nodes are prepared, and discarded or reset when the next run starts. It
// holds nothing about the graph itself; ordering lives in package dag.
//
// Nodes move through:
//
//	Pending → Running → Succeeded | Failed
//	Pending → Skipped
package nodestore

import (
	"context"

	"github.com/specialistvlad/scripthub/internal/model"
)

// Status is a node's execution state within one run.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "pending"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Store manages the execution state of one run's nodes.
//
// Implementations MUST be safe for concurrent use: the run goroutine writes
// while observers read.
type Store interface {
	// SetStatus records a node's lifecycle transition.
	SetStatus(ctx context.Context, nodeID string, status Status) error

	// GetStatus returns StatusPending for nodes never set.
	GetStatus(ctx context.Context, nodeID string) (Status, error)

	// Statuses returns a copy of every recorded status.
	Statuses(ctx context.Context) (map[string]Status, error)

	// SetOutput records a finished node's output. Outputs are immutable once
	// recorded; a second SetOutput for the same node is an error.
	SetOutput(ctx context.Context, nodeID string, output model.NodeOutput) error

	// GetOutput reports whether the node has an output and returns it.
	GetOutput(ctx context.Context, nodeID string) (model.NodeOutput, bool, error)

	// Outputs returns a copy of every recorded output.
	Outputs(ctx context.Context) (map[string]model.NodeOutput, error)

	// Reset drops all statuses and outputs.
	Reset(ctx context.Context) error
}
