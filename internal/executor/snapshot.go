package executor

import (
	"maps"
	"time"

	"github.com/specialistvlad/scripthub/internal/model"
	"github.com/specialistvlad/scripthub/internal/nodestore"
)

// Snapshot is an immutable view of a run. Receivers must not modify its maps
// or slices; they may be shared between observers.
type Snapshot struct {
	RunID         string                      `json:"runId"`
	WorkflowID    string                      `json:"workflowId"`
	WorkflowName  string                      `json:"workflowName"`
	State         State                       `json:"state"`
	Running       bool                        `json:"running"`
	CurrentNodeID string                      `json:"currentNodeId,omitempty"`
	Order         []string                    `json:"order,omitempty"`
	Outputs       map[string]model.NodeOutput `json:"outputs"`
	Statuses      map[string]nodestore.Status `json:"statuses"`
	Log           string                      `json:"log"`
	Error         string                      `json:"error,omitempty"`
	StartedAt     time.Time                   `json:"startedAt"`
	FinishedAt    time.Time                   `json:"finishedAt,omitempty"`
}

// clone returns a copy whose maps and slices are not shared with s.
func (s Snapshot) clone() Snapshot {
	c := s
	c.Order = append([]string(nil), s.Order...)
	c.Outputs = maps.Clone(s.Outputs)
	c.Statuses = maps.Clone(s.Statuses)
	if c.Outputs == nil {
		c.Outputs = map[string]model.NodeOutput{}
	}
	if c.Statuses == nil {
		c.Statuses = map[string]nodestore.Status{}
	}
	return c
}
