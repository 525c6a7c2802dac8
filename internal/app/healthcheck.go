package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/scripthub/internal/ctxlog"
)

// healthHandler reports that the process is alive.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// latestRunHandler serves the most recent run snapshot as JSON.
func (a *App) latestRunHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Latest run endpoint hit.", "remote_addr", r.RemoteAddr)

	snap, ok := a.latest.Latest()
	if !ok {
		http.Error(w, "no runs yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		logger.Error("Cannot encode run snapshot.", "error", err)
	}
}

func (a *App) statusMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /runs/latest", a.latestRunHandler)
	return mux
}

// statusServer initializes and runs the status HTTP server.
func (a *App) statusServer() {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Configuring status server.")
	if a.settings.Status.Port <= 0 {
		logger.Debug("Status server not started: disabled")
		return
	}

	addr := fmt.Sprintf(":%d", a.settings.Status.Port)
	a.httpServer = &http.Server{
		Addr:    addr,
		Handler: a.statusMux(),
	}

	go func() {
		logger.Info("🩺 Status server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeStatusServer() error {
	logger := ctxlog.FromContext(a.ctx)
	if a.httpServer == nil {
		logger.Debug("Status server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(a.ctx), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down status server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Status server shutdown failed", "error", err)
		return err
	}

	logger.Debug("Status server shut down gracefully.")
	return nil
}
