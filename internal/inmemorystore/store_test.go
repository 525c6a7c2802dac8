package inmemorystore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/scripthub/internal/model"
	"github.com/specialistvlad/scripthub/internal/nodestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetStatus(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Get status of a node that doesn't exist yet
	status, err := s.GetStatus(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, nodestore.StatusPending, status)

	require.NoError(t, s.SetStatus(ctx, "n1", nodestore.StatusRunning))

	status, err = s.GetStatus(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, nodestore.StatusRunning, status)

	statuses, err := s.Statuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]nodestore.Status{"n1": nodestore.StatusRunning}, statuses)
}

func TestSetAndGetOutput(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, ok, err := s.GetOutput(ctx, "n1")
	require.NoError(t, err)
	assert.False(t, ok)

	expected := model.NodeOutput{Stdout: "out", ExitCode: 0, WorkingDirectory: "/w"}
	require.NoError(t, s.SetOutput(ctx, "n1", expected))

	got, ok, err := s.GetOutput(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, expected, got)

	t.Run("outputs are immutable", func(t *testing.T) {
		err := s.SetOutput(ctx, "n1", model.NodeOutput{Stdout: "other"})
		assert.ErrorContains(t, err, "already recorded")
		got, _, _ := s.GetOutput(ctx, "n1")
		assert.Equal(t, "out", got.Stdout)
	})

	t.Run("Outputs returns a copy", func(t *testing.T) {
		outputs, err := s.Outputs(ctx)
		require.NoError(t, err)
		outputs["n2"] = model.NodeOutput{}
		_, ok, _ := s.GetOutput(ctx, "n2")
		assert.False(t, ok)
	})
}

func TestReset(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.SetStatus(ctx, "n1", nodestore.StatusSucceeded))
	require.NoError(t, s.SetOutput(ctx, "n1", model.NodeOutput{Stdout: "x"}))

	require.NoError(t, s.Reset(ctx))

	outputs, err := s.Outputs(ctx)
	require.NoError(t, err)
	assert.Empty(t, outputs)
	status, _ := s.GetStatus(ctx, "n1")
	assert.Equal(t, nodestore.StatusPending, status)
	require.NoError(t, s.SetOutput(ctx, "n1", model.NodeOutput{Stdout: "y"}))
}

// TestStore_ConcurrentAccess verifies that the store can be safely accessed by
// multiple goroutines simultaneously without data races or lost writes.
func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()
	numGoroutines := 100
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("node-%d", i)
			_ = s.SetStatus(ctx, id, nodestore.StatusSucceeded)
			_ = s.SetOutput(ctx, id, model.NodeOutput{ExitCode: int32(i)})
			_, _ = s.Outputs(ctx)
		}(i)
	}
	wg.Wait()

	outputs, err := s.Outputs(ctx)
	require.NoError(t, err)
	require.Len(t, outputs, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		assert.Equal(t, int32(i), outputs[fmt.Sprintf("node-%d", i)].ExitCode)
	}
}
