// Package store holds workflow definitions. The execution controller only
// reads from it; every Get returns a private copy, so a run is unaffected by
// edits made while it executes.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/scripthub/internal/model"
)

// ErrWorkflowNotFound is returned for unknown workflow ids.
var ErrWorkflowNotFound = errors.New("workflow not found")

// Store provides workflows by id.
type Store interface {
	Get(id string) (*model.Workflow, error)
	List() []*model.Workflow
}

// Memory is a concurrency-safe, in-memory Store.
type Memory struct {
	mu        sync.RWMutex
	workflows map[string]*model.Workflow
	order     []string
	now       func() time.Time
}

// New creates an empty store.
func New() *Memory {
	return &Memory{
		workflows: make(map[string]*model.Workflow),
		now:       time.Now,
	}
}

// Put inserts or replaces a workflow. A replaced workflow keeps its position
// in List.
func (s *Memory) Put(w *model.Workflow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.workflows[w.ID]; !exists {
		s.order = append(s.order, w.ID)
	}
	s.workflows[w.ID] = w.Clone()
}

// Get returns a copy of the workflow with the given id.
func (s *Memory) Get(id string) (*model.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workflows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	return w.Clone(), nil
}

// List returns copies of all workflows in insertion order.
func (s *Memory) List() []*model.Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Workflow, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.workflows[id].Clone())
	}
	return out
}

// Delete removes a workflow. Deleting an unknown id is not an error.
func (s *Memory) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workflows[id]; !ok {
		return
	}
	delete(s.workflows, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Duplicate stores a copy of a workflow under a fresh id with fresh node and
// connection ids. Mappings and connections are rewritten to the new node ids.
func (s *Memory) Duplicate(id string) (*model.Workflow, error) {
	src, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	nodeIDs := make(map[string]string, len(src.Nodes))
	for _, n := range src.Nodes {
		nodeIDs[n.ID] = uuid.NewString()
	}
	rename := func(old string) string {
		if v, ok := nodeIDs[old]; ok {
			return v
		}
		return old
	}

	dup := src.Clone()
	dup.ID = uuid.NewString()
	dup.Name = src.Name + " (copy)"
	dup.CreatedAt = s.now()
	dup.ModifiedAt = dup.CreatedAt
	for _, n := range dup.Nodes {
		n.ID = rename(n.ID)
		for name, m := range n.Mappings {
			if fo, ok := m.(model.FromOutput); ok {
				fo.SourceNodeID = rename(fo.SourceNodeID)
				n.Mappings[name] = fo
			}
		}
	}
	for i := range dup.Connections {
		c := &dup.Connections[i]
		c.ID = uuid.NewString()
		c.From = rename(c.From)
		c.To = rename(c.To)
	}

	s.Put(dup)
	return dup, nil
}
