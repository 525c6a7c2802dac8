package executor

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/scripthub/internal/ctxlog"
	"github.com/specialistvlad/scripthub/internal/inmemorystore"
	"github.com/specialistvlad/scripthub/internal/model"
	"github.com/specialistvlad/scripthub/internal/nodestore"
	"github.com/specialistvlad/scripthub/internal/registry"
	"github.com/specialistvlad/scripthub/internal/resolver"
	"github.com/specialistvlad/scripthub/internal/runner"
)

// ScriptRunner executes scripts. *runner.Executor implements it.
type ScriptRunner interface {
	Run(ctx context.Context, script *model.Script, args []string) runner.Result
	Stream(ctx context.Context, script *model.Script, args []string, sink runner.Sink) runner.Result
}

// Controller starts workflow and single-script runs.
type Controller struct {
	registry  registry.Registry
	runner    ScriptRunner
	resolver  *resolver.Resolver
	observers MultiObserver
	newStore  func() nodestore.Store
	workDir   string
	now       func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithResolver replaces the default parameter resolver.
func WithResolver(r *resolver.Resolver) Option {
	return func(c *Controller) { c.resolver = r }
}

// WithObserver adds observers that receive every run's snapshots.
func WithObserver(observers ...Observer) Option {
	return func(c *Controller) {
		for _, o := range observers {
			if o != nil {
				c.observers = append(c.observers, o)
			}
		}
	}
}

// WithStoreFactory sets how the per-run node store is created.
func WithStoreFactory(fn func() nodestore.Store) Option {
	return func(c *Controller) { c.newStore = fn }
}

// WithWorkingDirectory sets the value of the workingDirectory output
// channel. It defaults to the process's working directory at run start.
func WithWorkingDirectory(dir string) Option {
	return func(c *Controller) { c.workDir = dir }
}

// WithClock replaces time.Now for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New creates a Controller that looks scripts up in reg and runs them with r.
func New(reg registry.Registry, r ScriptRunner, opts ...Option) *Controller {
	c := &Controller{
		registry: reg,
		runner:   r,
		resolver: resolver.New(),
		newStore: inmemorystore.New,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a run of w and returns immediately. The workflow is copied,
// so later edits to w do not affect the run. Cancelling ctx, or calling
// Run.Cancel, stops the run before the next node and kills the node in
// flight.
func (c *Controller) Start(ctx context.Context, w *model.Workflow) *Run {
	w = w.Clone()
	runCtx, cancel := context.WithCancel(ctx)

	r := &Run{
		id:       uuid.NewString(),
		ctrl:     c,
		workflow: w,
		store:    c.newStore(),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	r.ctx = ctxlog.With(runCtx, "run_id", r.id, "workflow", w.ID)
	r.begin()

	go r.execute()
	return r
}

// workingDirectory returns the value recorded in every NodeOutput.
func (c *Controller) workingDirectory(ctx context.Context) string {
	if c.workDir != "" {
		return c.workDir
	}
	dir, err := os.Getwd()
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Cannot determine working directory.", "error", err)
		return ""
	}
	return dir
}
