package app

import (
	"context"
	"io"
	"sync"

	"github.com/specialistvlad/scripthub/internal/ctxlog"
	"github.com/specialistvlad/scripthub/internal/dag"
	"github.com/specialistvlad/scripthub/internal/executor"
	"github.com/specialistvlad/scripthub/internal/runner"
)

// RunWorkflow runs the stored workflow id and copies its cumulative log to
// out as it grows. It returns the final snapshot once the run has ended.
// Cancelling ctx cancels the run.
func (a *App) RunWorkflow(ctx context.Context, id string, out io.Writer) (executor.Snapshot, error) {
	w, err := a.workflows.Get(id)
	if err != nil {
		return executor.Snapshot{}, err
	}
	ctx = ctxlog.WithLogger(ctx, ctxlog.FromContext(a.ctx))

	run := a.controller.Start(ctx, w)
	printed := 0
	flush := func(s executor.Snapshot) {
		if len(s.Log) > printed {
			_, _ = io.WriteString(out, s.Log[printed:])
			printed = len(s.Log)
		}
	}

	for {
		select {
		case s := <-a.events.C():
			if s.RunID == run.ID() {
				flush(s)
			}
		case <-run.Done():
			final := run.Snapshot()
			flush(final)
			return final, nil
		}
	}
}

// ExecScript runs one registered script with the given parameter values,
// streaming its transcript to out.
func (a *App) ExecScript(ctx context.Context, id string, values map[string]string, out io.Writer) (executor.ScriptSnapshot, error) {
	script, err := a.registry.Get(id)
	if err != nil {
		return executor.ScriptSnapshot{}, err
	}
	ctx = ctxlog.WithLogger(ctx, ctxlog.FromContext(a.ctx))

	var mu sync.Mutex
	sink := func(_ runner.Stream, chunk string) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = io.WriteString(out, chunk)
	}
	return a.controller.RunScript(ctx, script, values, sink).Wait(context.Background())
}

// Order returns the execution order of the stored workflow id.
func (a *App) Order(id string) ([]string, error) {
	w, err := a.workflows.Get(id)
	if err != nil {
		return nil, err
	}
	return dag.OrderWorkflow(w)
}
