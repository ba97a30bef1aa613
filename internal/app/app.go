// Package app provides application lifecycle management for the source manager server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/stacklok/instsrc/internal/config"
	"github.com/stacklok/instsrc/internal/errs"
)

// SourceApp encapsulates all components needed to run the source manager API server
// It provides lifecycle management and graceful shutdown capabilities
type SourceApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server
	targetRoot string
	autoEnable bool

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
	stopOnce   sync.Once
	stopErr    error
}

// Start restores the sources of the target root and serves HTTP.
// It blocks until the HTTP server stops or encounters an error.
// Sources that cannot be enabled are logged and do not prevent startup.
func (app *SourceApp) Start() error {
	err := app.components.Manager.StartManager(app.ctx, app.targetRoot, app.autoEnable)
	var partial *errs.PartialError
	switch {
	case errors.As(err, &partial):
		slog.Warn("Some sources could not be enabled", "failed", len(partial.Failures), "error", err)
	case err != nil:
		return fmt.Errorf("failed to start source manager: %w", err)
	}

	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout.
// It shuts down the HTTP server, persists the sources when the manager was
// started and releases storage and telemetry. Later calls return the result
// of the first one.
func (app *SourceApp) Stop(timeout time.Duration) error {
	app.stopOnce.Do(func() {
		app.stopErr = app.stop(timeout)
	})
	return app.stopErr
}

func (app *SourceApp) stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var stopErrs []error
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		stopErrs = append(stopErrs, fmt.Errorf("server forced to shutdown: %w", err))
	}

	// An unstarted manager holds no sources; storing it would wipe the saved set
	if app.components.Manager.CheckReadiness(shutdownCtx) == nil {
		if err := app.components.Manager.FinishAll(shutdownCtx, app.targetRoot); err != nil {
			stopErrs = append(stopErrs, fmt.Errorf("failed to persist sources: %w", err))
		}
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	if app.components.Telemetry != nil {
		if err := app.components.Telemetry.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown telemetry", "error", err)
		}
	}

	if err := errors.Join(stopErrs...); err != nil {
		return err
	}

	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *SourceApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *SourceApp) GetHTTPServer() *http.Server {
	return app.httpServer
}
