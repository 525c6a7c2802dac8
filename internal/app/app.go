package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/specialistvlad/scripthub/internal/config"
	"github.com/specialistvlad/scripthub/internal/ctxlog"
	"github.com/specialistvlad/scripthub/internal/executor"
	"github.com/specialistvlad/scripthub/internal/model"
	"github.com/specialistvlad/scripthub/internal/observer/socketio"
	"github.com/specialistvlad/scripthub/internal/registry"
	"github.com/specialistvlad/scripthub/internal/runner"
	"github.com/specialistvlad/scripthub/internal/store"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	settings   *Settings
	closeLog   func()
	registry   *registry.Memory
	workflows  *store.Memory
	runner     *runner.Executor
	controller *executor.Controller
	latest     *executor.LatestObserver
	events     *executor.ChanObserver
	publisher  *socketio.Publisher
	httpServer *http.Server
	problems   []config.Problem
}

// eventBuffer bounds how far the CLI may lag behind a run before snapshots
// are dropped. The cumulative log makes dropped snapshots harmless.
const eventBuffer = 64

// New is the constructor for the main application. Logs are written to logW.
// It loads every definition, populates the registry and the workflow store,
// and starts the status server when a port is configured. Call Close when
// done.
func New(ctx context.Context, logW io.Writer, s *Settings, loader config.Loader) (*App, error) {
	logger, closeLog, err := newLogger(s.Log.Level, s.Log.Format, s.Log.File, logW)
	if err != nil {
		return nil, err
	}
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.", "project_root", s.ProjectRoot)

	defs, err := loader.Load(ctx, s.Definitions...)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to load definitions: %w", err)
	}
	resolveSources(defs, s.ProjectRoot)
	logger.Debug("Definitions loaded.", "scripts", len(defs.Scripts), "workflows", len(defs.Workflows))

	reg := registry.New()
	if err := reg.PopulateFromDefinitions(ctx, defs); err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to populate script registry: %w", err)
	}

	workflows := store.New()
	for _, w := range defs.Workflows {
		workflows.Put(w)
	}

	a := &App{
		ctx:       ctx,
		settings:  s,
		closeLog:  closeLog,
		registry:  reg,
		workflows: workflows,
		runner:    runner.New(s.RunnerConfig()),
		latest:    &executor.LatestObserver{},
		events:    executor.NewChanObserver(eventBuffer),
		problems:  defs.Validate(),
	}
	for _, p := range a.problems {
		logger.Warn("Definition problem.", "subject", p.Subject, "problem", p.Message)
	}

	observers := []executor.Observer{a.latest, a.events, executor.NewLogObserver(ctx)}
	if s.SocketIO.URL != "" {
		pub, err := socketio.Connect(ctx, s.socketIOConfig())
		if err != nil {
			logger.Warn("Run state publisher disabled.", "error", err)
		} else {
			a.publisher = pub
			observers = append(observers, pub)
		}
	}
	a.controller = executor.New(reg, a.runner, executor.WithObserver(observers...))

	a.statusServer()
	logger.Info("🚀 ScriptHub ready", "scripts", len(reg.List()), "workflows", len(workflows.List()))
	return a, nil
}

// resolveSources makes relative script paths relative to the project root.
func resolveSources(defs *config.Definitions, root string) {
	for _, s := range defs.Scripts {
		if s.Source != "" && !filepath.IsAbs(s.Source) {
			s.Source = filepath.Join(root, s.Source)
		}
	}
}

// Close stops the status server, disconnects the publisher and flushes logs.
func (a *App) Close() error {
	err := a.closeStatusServer()
	if a.publisher != nil {
		_ = a.publisher.Close()
	}
	a.closeLog()
	return err
}

// Context returns the application context, which carries the logger.
func (a *App) Context() context.Context { return a.ctx }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return ctxlog.FromContext(a.ctx) }

// Registry returns the script registry.
func (a *App) Registry() *registry.Memory { return a.registry }

// Workflows returns the workflow store.
func (a *App) Workflows() *store.Memory { return a.workflows }

// Controller returns the execution controller.
func (a *App) Controller() *executor.Controller { return a.controller }

// Latest returns the most recently published run snapshot.
func (a *App) Latest() (executor.Snapshot, bool) { return a.latest.Latest() }

// Validate returns every definition problem and every registry warning.
func (a *App) Validate() []string {
	var out []string
	for _, p := range a.problems {
		out = append(out, p.Error())
	}
	var locator registry.ArtifactLocator
	if rt, ok := a.runner.Runtime(model.RuntimeCompiled); ok {
		locator, _ = rt.(registry.ArtifactLocator)
	}
	return append(out, a.registry.Validate(a.ctx, locator)...)
}
