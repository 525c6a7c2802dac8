package executor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/scripthub/internal/ctxlog"
	"github.com/specialistvlad/scripthub/internal/model"
	"github.com/specialistvlad/scripthub/internal/resolver"
	"github.com/specialistvlad/scripthub/internal/runner"
)

// runtimeProvider is implemented by *runner.Executor.
type runtimeProvider interface {
	Runtime(kind model.RuntimeKind) (runner.Runtime, bool)
}

// builder is implemented by runtimes with a build step.
type builder interface {
	NeedsBuild(script *model.Script) bool
}

// ScriptSnapshot is the state of a single-script run.
type ScriptSnapshot struct {
	RunID    string `json:"runId"`
	ScriptID string `json:"scriptId"`
	Running  bool   `json:"running"`
	// Output is the human-readable transcript: headers, stdout and the
	// closing status line.
	Output   string `json:"output"`
	Stderr   string `json:"stderr"`
	ExitCode int32  `json:"exitCode"`
	// Result is the raw captured result, set once the run ends.
	Result *runner.Result `json:"result,omitempty"`
}

// ScriptRun is the handle of a single-script run.
type ScriptRun struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.RWMutex
	output strings.Builder
	stderr strings.Builder
	snap   ScriptSnapshot
}

// Snapshot returns the current state.
func (r *ScriptRun) Snapshot() ScriptSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.snap
	s.Output = r.output.String()
	s.Stderr = r.stderr.String()
	return s
}

// Done is closed when the script has exited.
func (r *ScriptRun) Done() <-chan struct{} { return r.done }

// Wait blocks until the script exits or ctx is done.
func (r *ScriptRun) Wait(ctx context.Context) (ScriptSnapshot, error) {
	select {
	case <-r.done:
		return r.Snapshot(), nil
	case <-ctx.Done():
		return r.Snapshot(), ctx.Err()
	}
}

// Cancel kills the script if it is still running.
func (r *ScriptRun) Cancel() { r.cancel() }

func (r *ScriptRun) write(stream runner.Stream, chunk string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stream == runner.Stderr {
		r.stderr.WriteString(chunk)
		return
	}
	r.output.WriteString(chunk)
}

// RunScript runs one script outside any workflow, streaming its output.
// values supplies parameter values by name; missing ones use the declared
// defaults. sink, if not nil, receives every transcript chunk as it is
// produced, including the header and status lines on the stdout stream.
func (c *Controller) RunScript(ctx context.Context, script *model.Script, values map[string]string, sink runner.Sink) *ScriptRun {
	runCtx, cancel := context.WithCancel(ctx)
	id := uuid.NewString()
	runCtx = ctxlog.With(runCtx, "script_run_id", id, "script", script.ID)

	r := &ScriptRun{
		cancel: cancel,
		done:   make(chan struct{}),
		snap:   ScriptSnapshot{RunID: id, ScriptID: script.ID, Running: true},
	}
	emit := func(stream runner.Stream, chunk string) {
		r.write(stream, chunk)
		if sink != nil {
			sink(stream, chunk)
		}
	}

	go func() {
		defer close(r.done)
		defer cancel()
		logger := ctxlog.FromContext(runCtx)
		logger.Info("▶️ Running script")

		args := resolver.Arguments(script, values)
		for _, line := range c.scriptHeader(script, args) {
			emit(runner.Stdout, line)
		}

		res := c.runner.Stream(runCtx, script, args, emit)

		if res.ExitCode == 0 {
			emit(runner.Stdout, "\n✅ Script completed successfully\n")
		} else {
			emit(runner.Stdout, fmt.Sprintf("\n❌ Script failed with exit code: %d\n", res.ExitCode))
		}

		r.mu.Lock()
		r.snap.Running = false
		r.snap.ExitCode = res.ExitCode
		r.snap.Result = &res
		r.mu.Unlock()
		logger.Info("🏁 Script finished", "exit_code", res.ExitCode)
	}()

	return r
}

// scriptHeader describes what is about to run, when the runner can tell.
func (c *Controller) scriptHeader(script *model.Script, args []string) []string {
	provider, ok := c.runner.(runtimeProvider)
	if !ok {
		return []string{fmt.Sprintf("🚀 Running %s...\n\n", script.Name)}
	}
	rt, ok := provider.Runtime(script.Kind)
	if !ok {
		return nil
	}

	var lines []string
	if b, ok := rt.(builder); ok && b.NeedsBuild(script) {
		lines = append(lines, fmt.Sprintf("📝 Compiling %s...\n\n", script.Entry))
	}
	name, argv := rt.Command(script, args)
	lines = append(lines,
		fmt.Sprintf("🚀 Running %s...\n", script.Name),
		fmt.Sprintf("Command: %s %s\n\n", name, strings.Join(argv, " ")),
	)
	return lines
}
