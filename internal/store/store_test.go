package store

import (
	"testing"
	"time"

	"github.com/specialistvlad/scripthub/internal/dag"
	"github.com/specialistvlad/scripthub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *model.Workflow {
	return &model.Workflow{
		ID:   "wf",
		Name: "Build",
		Nodes: []*model.WorkflowNode{
			{ID: "n1", ScriptID: "a"},
			{ID: "n2", ScriptID: "b", Mappings: map[string]model.ParameterMapping{
				"in":  model.FromOutput{SourceNodeID: "n1", Channel: model.ChannelStdout},
				"lit": model.Constant{Value: "x"},
			}},
		},
		Connections: []model.Connection{{ID: "c1", From: "n1", To: "n2", Channel: model.ChannelStdout}},
	}
}

func TestMemory(t *testing.T) {
	s := New()
	w := sample()
	s.Put(w)

	got, err := s.Get("wf")
	require.NoError(t, err)
	assert.Equal(t, w, got)

	t.Run("get returns a copy", func(t *testing.T) {
		got.Nodes[0].ScriptID = "changed"
		again, err := s.Get("wf")
		require.NoError(t, err)
		assert.Equal(t, "a", again.Nodes[0].ScriptID)
	})

	t.Run("put stores a copy", func(t *testing.T) {
		w.Name = "mutated"
		again, _ := s.Get("wf")
		assert.Equal(t, "Build", again.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Get("nope")
		assert.ErrorIs(t, err, ErrWorkflowNotFound)
	})

	t.Run("list and delete", func(t *testing.T) {
		s.Put(&model.Workflow{ID: "second"})
		s.Put(&model.Workflow{ID: "wf", Name: "Replaced"})
		list := s.List()
		require.Len(t, list, 2)
		assert.Equal(t, "Replaced", list[0].Name)
		assert.Equal(t, "second", list[1].ID)

		s.Delete("wf")
		s.Delete("wf")
		list = s.List()
		require.Len(t, list, 1)
		assert.Equal(t, "second", list[0].ID)
	})
}

func TestDuplicate(t *testing.T) {
	s := New()
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	s.Put(sample())

	dup, err := s.Duplicate("wf")
	require.NoError(t, err)

	assert.NotEqual(t, "wf", dup.ID)
	assert.Equal(t, "Build (copy)", dup.Name)
	assert.Equal(t, fixed, dup.CreatedAt)
	require.Len(t, dup.Nodes, 2)
	assert.NotEqual(t, "n1", dup.Nodes[0].ID)

	fo, ok := dup.Nodes[1].Mappings["in"].(model.FromOutput)
	require.True(t, ok)
	assert.Equal(t, dup.Nodes[0].ID, fo.SourceNodeID)
	assert.Equal(t, model.Constant{Value: "x"}, dup.Nodes[1].Mappings["lit"])
	assert.Equal(t, dup.Nodes[0].ID, dup.Connections[0].From)
	assert.Equal(t, dup.Nodes[1].ID, dup.Connections[0].To)

	order, err := dag.OrderWorkflow(dup)
	require.NoError(t, err)
	assert.Equal(t, []string{dup.Nodes[0].ID, dup.Nodes[1].ID}, order)

	original, err := s.Get("wf")
	require.NoError(t, err)
	assert.Equal(t, "n1", original.Nodes[0].ID)
	assert.Len(t, s.List(), 2)

	_, err = s.Duplicate("nope")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}
