package runner

import (
	"context"
	"fmt"

	"github.com/specialistvlad/scripthub/internal/ctxlog"
	"github.com/specialistvlad/scripthub/internal/model"
)

// LaunchFailedCode is the synthetic exit code of a process that never ran.
const LaunchFailedCode int32 = -1

// Result is the captured outcome of one invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int32
}

// Stream identifies an output pipe.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Sink receives output while a process runs. Chunks never split a UTF-8
// sequence. Calls for one stream arrive in order; calls for different streams
// may interleave and may come from different goroutines.
type Sink func(stream Stream, chunk string)

// Runtime is the per-kind part of an invocation.
type Runtime interface {
	Kind() model.RuntimeKind
	// Prepare makes the script runnable. A non-nil Result aborts the
	// invocation and is returned to the caller unchanged.
	Prepare(ctx context.Context, script *model.Script) *Result
	// Command returns the binary and argument vector for the script.
	Command(script *model.Script, args []string) (string, []string)
}

// Executor runs scripts through the Runtime registered for their kind.
type Executor struct {
	runtimes map[model.RuntimeKind]Runtime
}

// New returns an Executor for the compiled, interpreted and shell runtimes
// described by cfg.
func New(cfg Config) *Executor {
	cfg = cfg.withDefaults()
	return NewWithRuntimes(
		NewCompiled(cfg),
		NewInterpreted(cfg.Interpreter),
		NewShell(cfg.Shell),
	)
}

// NewWithRuntimes returns an Executor over an explicit runtime set. A later
// runtime replaces an earlier one of the same kind.
func NewWithRuntimes(runtimes ...Runtime) *Executor {
	e := &Executor{runtimes: make(map[model.RuntimeKind]Runtime, len(runtimes))}
	for _, rt := range runtimes {
		e.runtimes[rt.Kind()] = rt
	}
	return e
}

// Runtime returns the runtime registered for kind.
func (e *Executor) Runtime(kind model.RuntimeKind) (Runtime, bool) {
	rt, ok := e.runtimes[kind]
	return rt, ok
}

// Run executes the script and blocks until it exits.
func (e *Executor) Run(ctx context.Context, script *model.Script, args []string) Result {
	return e.Stream(ctx, script, args, nil)
}

// Stream executes the script, pushing output to sink as it arrives. A nil
// sink makes Stream equivalent to Run.
func (e *Executor) Stream(ctx context.Context, script *model.Script, args []string, sink Sink) Result {
	logger := ctxlog.FromContext(ctx).With("script", script.ID, "kind", script.Kind)

	rt, ok := e.runtimes[script.Kind]
	if !ok {
		logger.Error("No runtime for script kind.")
		res := Result{Stderr: fmt.Sprintf("unsupported script type: %s", script.Kind), ExitCode: LaunchFailedCode}
		emit(sink, res)
		return res
	}

	if res := rt.Prepare(ctx, script); res != nil {
		logger.Warn("Script preparation failed.", "exit_code", res.ExitCode)
		emit(sink, *res)
		return *res
	}

	name, argv := rt.Command(script, args)
	logger.Debug("Launching process.", "binary", name, "argv", argv)
	res := capture(ctx, name, argv, sink)
	logger.Debug("Process finished.", "exit_code", res.ExitCode)
	return res
}

// emit replays a finished result into a sink.
func emit(sink Sink, res Result) {
	if sink == nil {
		return
	}
	if res.Stdout != "" {
		sink(Stdout, res.Stdout)
	}
	if res.Stderr != "" {
		sink(Stderr, res.Stderr)
	}
}
