package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/stacklok/instsrc/internal/api"
	"github.com/stacklok/instsrc/internal/config"
	"github.com/stacklok/instsrc/internal/engine"
	"github.com/stacklok/instsrc/internal/manager"
	"github.com/stacklok/instsrc/internal/store"
	"github.com/stacklok/instsrc/internal/telemetry"
)

const (
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 30 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 35 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// SourceAppOptions is a function that configures the source app builder
type SourceAppOptions func(*sourceAppConfig) error

// sourceAppConfig collects the settings and injected components of a SourceApp.
// Unset components get production defaults.
type sourceAppConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	store     store.Store
	engine    engine.Engine
	telemetry *telemetry.Telemetry

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
}

func baseConfig(opts ...SourceAppOptions) (*sourceAppConfig, error) {
	cfg := &sourceAppConfig{
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// NewSourceApp builds a SourceApp from the given options
func NewSourceApp(
	ctx context.Context,
	opts ...SourceAppOptions,
) (*SourceApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}
	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	tel, err := buildTelemetry(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry: %w", err)
	}

	cleanup := func() {}
	if cfg.store == nil {
		cfg.store, cleanup, err = store.New(ctx, cfg.config)
		if err != nil {
			_ = tel.Shutdown(ctx)
			return nil, fmt.Errorf("failed to create source store: %w", err)
		}
	}

	mgr, err := buildManager(cfg, tel)
	if err != nil {
		cleanup()
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("failed to build source manager: %w", err)
	}

	httpServer, err := buildHTTPServer(cfg, mgr, tel)
	if err != nil {
		cleanup()
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	return &SourceApp{
		config: cfg.config,
		components: &AppComponents{
			Manager:   mgr,
			Store:     cfg.store,
			Telemetry: tel,
		},
		httpServer: httpServer,
		targetRoot: cfg.config.GetTargetRoot(),
		autoEnable: cfg.config.GetAutoEnable(),
		ctx:        appCtx,
		cancelFunc: func() {
			cleanup()
			cancel()
		},
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) SourceAppOptions {
	return func(cfg *sourceAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) SourceAppOptions {
	return func(cfg *sourceAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		parts := strings.SplitN(addr, ":", 2)
		if len(parts) != 2 || parts[1] == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		host, port := parts[0], parts[1]
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) SourceAppOptions {
	return func(cfg *sourceAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithStore allows injecting a custom source store (for testing)
func WithStore(s store.Store) SourceAppOptions {
	return func(cfg *sourceAppConfig) error {
		cfg.store = s
		return nil
	}
}

// WithEngine allows injecting a custom resolution engine (for testing)
func WithEngine(e engine.Engine) SourceAppOptions {
	return func(cfg *sourceAppConfig) error {
		cfg.engine = e
		return nil
	}
}

// WithTelemetry allows injecting already initialized telemetry
func WithTelemetry(t *telemetry.Telemetry) SourceAppOptions {
	return func(cfg *sourceAppConfig) error {
		cfg.telemetry = t
		return nil
	}
}

func buildTelemetry(ctx context.Context, b *sourceAppConfig) (*telemetry.Telemetry, error) {
	if b.telemetry != nil {
		return b.telemetry, nil
	}
	return telemetry.New(ctx, telemetry.WithTelemetryConfig(b.config.Telemetry))
}

// buildManager builds the source manager facade over the store and engine
func buildManager(b *sourceAppConfig, tel *telemetry.Telemetry) (*manager.Manager, error) {
	slog.Info("Initializing source manager")

	if b.engine == nil {
		b.engine = engine.NewMediaEngine()
	}

	metrics, err := telemetry.NewManagerMetrics(tel.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create manager metrics: %w", err)
	}

	mgr, err := manager.New(b.engine, b.store,
		manager.WithTracer(tel.Tracer(manager.TracerName)),
		manager.WithMetrics(metrics),
		manager.WithScanParallelism(b.config.GetScanParallelism()),
	)
	if err != nil {
		return nil, err
	}

	slog.Info("Source manager initialized",
		"target_root", b.config.GetTargetRoot(),
		"storage", b.config.GetStorageType(),
	)
	return mgr, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(
	b *sourceAppConfig,
	svc manager.Service,
	tel *telemetry.Telemetry,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	// Use default middlewares if not provided
	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Telemetry comes first to capture all requests
	telemetryMiddleware, err := tel.HTTPMiddleware()
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry middleware: %w", err)
	}
	middlewares := append([]func(http.Handler) http.Handler{telemetryMiddleware}, b.middlewares...)

	router := api.NewServer(svc,
		api.WithMiddlewares(middlewares...),
		api.WithMetricsHandler(tel.MetricsHandler()),
		api.WithDefaults(b.config.GetTargetRoot(), b.config.GetAutoEnable()),
	)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
