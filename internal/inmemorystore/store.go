// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// Statuses and outputs live in two sync.Maps. Each node's entries are
// independent, so the run goroutine can write while snapshot readers range
// over the maps without a global lock.
package inmemorystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/scripthub/internal/model"
	"github.com/specialistvlad/scripthub/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
type Store struct {
	states  sync.Map // Key: node ID, Value: nodestore.Status
	outputs sync.Map // Key: node ID, Value: model.NodeOutput
}

// New creates a new, empty in-memory node state store.
func New() nodestore.Store {
	return &Store{}
}

// SetStatus updates the execution status of a specific node.
func (s *Store) SetStatus(_ context.Context, nodeID string, status nodestore.Status) error {
	s.states.Store(nodeID, status)
	return nil
}

// GetStatus retrieves the execution status of a specific node.
// If a status has not been set, it returns StatusPending.
func (s *Store) GetStatus(_ context.Context, nodeID string) (nodestore.Status, error) {
	status, ok := s.states.Load(nodeID)
	if !ok {
		return nodestore.StatusPending, nil
	}
	return status.(nodestore.Status), nil
}

// Statuses returns a copy of all recorded statuses.
func (s *Store) Statuses(_ context.Context) (map[string]nodestore.Status, error) {
	out := make(map[string]nodestore.Status)
	s.states.Range(func(k, v any) bool {
		out[k.(string)] = v.(nodestore.Status)
		return true
	})
	return out, nil
}

// SetOutput records the output of a finished node.
func (s *Store) SetOutput(_ context.Context, nodeID string, output model.NodeOutput) error {
	if _, loaded := s.outputs.LoadOrStore(nodeID, output); loaded {
		return fmt.Errorf("output already recorded for node %s", nodeID)
	}
	return nil
}

// GetOutput retrieves the recorded output of a finished node.
func (s *Store) GetOutput(_ context.Context, nodeID string) (model.NodeOutput, bool, error) {
	output, ok := s.outputs.Load(nodeID)
	if !ok {
		return model.NodeOutput{}, false, nil
	}
	return output.(model.NodeOutput), true, nil
}

// Outputs returns a copy of all recorded outputs.
func (s *Store) Outputs(_ context.Context) (map[string]model.NodeOutput, error) {
	out := make(map[string]model.NodeOutput)
	s.outputs.Range(func(k, v any) bool {
		out[k.(string)] = v.(model.NodeOutput)
		return true
	})
	return out, nil
}

// Reset drops all recorded state.
func (s *Store) Reset(_ context.Context) error {
	s.states.Clear()
	s.outputs.Clear()
	return nil
}
