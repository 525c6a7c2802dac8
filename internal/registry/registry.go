package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/scripthub/internal/model"
)

// ErrScriptNotFound is returned by Get for unknown ids.
var ErrScriptNotFound = errors.New("script not found")

// Registry is the read-only view of the available scripts.
type Registry interface {
	List() []*model.Script
	Lookup(id string) (*model.Script, bool)
}

// Memory is a concurrency-safe, in-memory Registry.
type Memory struct {
	mu      sync.RWMutex
	scripts map[string]*model.Script
	order   []string
	groups  []model.ScriptGroup
}

// New creates an empty registry.
func New() *Memory {
	return &Memory{scripts: make(map[string]*model.Script)}
}

// Register adds scripts. Registering an id twice is an error and leaves the
// first registration in place.
func (r *Memory) Register(scripts ...*model.Script) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, s := range scripts {
		if _, exists := r.scripts[s.ID]; exists {
			errs = append(errs, fmt.Errorf("script %q already registered", s.ID))
			continue
		}
		r.scripts[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return errors.Join(errs...)
}

// AddGroups records script groups for listing.
func (r *Memory) AddGroups(groups ...model.ScriptGroup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = append(r.groups, groups...)
}

// List returns all scripts in registration order.
func (r *Memory) List() []*model.Script {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Script, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.scripts[id])
	}
	return out
}

// Lookup returns the script with the given id.
func (r *Memory) Lookup(id string) (*model.Script, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scripts[id]
	return s, ok
}

// Get is Lookup with an error wrapping ErrScriptNotFound.
func (r *Memory) Get(id string) (*model.Script, error) {
	s, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, id)
	}
	return s, nil
}

// Groups returns the recorded groups.
func (r *Memory) Groups() []model.ScriptGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.ScriptGroup(nil), r.groups...)
}

// InGroup returns the registered scripts of a group in the group's order.
// Ids the registry does not know are left out.
func (r *Memory) InGroup(groupID string) ([]*model.Script, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.groups {
		if g.ID != groupID {
			continue
		}
		var out []*model.Script
		for _, id := range g.ScriptIDs {
			if s, ok := r.scripts[id]; ok {
				out = append(out, s)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("group not found: %s", groupID)
}

// Ungrouped returns the scripts that belong to no group.
func (r *Memory) Ungrouped() []*model.Script {
	r.mu.RLock()
	defer r.mu.RUnlock()

	grouped := make(map[string]struct{})
	for _, g := range r.groups {
		for _, id := range g.ScriptIDs {
			grouped[id] = struct{}{}
		}
	}
	var out []*model.Script
	for _, id := range r.order {
		if _, ok := grouped[id]; !ok {
			out = append(out, r.scripts[id])
		}
	}
	return out
}
