// Package manager provides the source manager facade: the single entry point
// coordinating the source registry, the resolvable pool and the resolution
// engine.
//
// Every operation runs to completion under one mutex, so the registry and the
// pool never observe concurrent mutation. Results are copies.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/instsrc/internal/config"
	"github.com/stacklok/instsrc/internal/engine"
	"github.com/stacklok/instsrc/internal/errs"
	"github.com/stacklok/instsrc/internal/otel"
	"github.com/stacklok/instsrc/internal/resolvable"
	"github.com/stacklok/instsrc/internal/source"
	"github.com/stacklok/instsrc/internal/store"
	"github.com/stacklok/instsrc/internal/telemetry"
)

const (
	// TracerName is the name used for the source manager tracer
	TracerName = "github.com/stacklok/instsrc/manager"
)

var pooledKinds = []resolvable.Kind{
	resolvable.KindSelection,
	resolvable.KindPattern,
	resolvable.KindProduct,
	resolvable.KindPackage,
}

// options holds configuration options for the manager
type options struct {
	tracer      trace.Tracer
	metrics     *telemetry.ManagerMetrics
	parallelism int
}

// Option is a functional option for configuring the manager
type Option func(*options) error

// WithTracer sets the OpenTelemetry tracer for the manager.
// If not set, tracing will be disabled (no-op).
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		o.tracer = tracer
		return nil
	}
}

// WithMetrics sets the instruments recording source and pool sizes
func WithMetrics(metrics *telemetry.ManagerMetrics) Option {
	return func(o *options) error {
		o.metrics = metrics
		return nil
	}
}

// WithScanParallelism bounds how many products are opened concurrently
// while scanning media. The value must be greater than zero.
func WithScanParallelism(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("scan parallelism must be greater than zero, got %d", n)
		}
		o.parallelism = n
		return nil
	}
}

// Manager is the source manager facade
type Manager struct {
	mu          sync.Mutex
	engine      engine.Engine
	registry    *source.Registry
	pool        *resolvable.Pool
	tracer      trace.Tracer
	metrics     *telemetry.ManagerMetrics
	parallelism int
	started     bool

	// pooled holds the sources whose resolvables are in the pool. A restored
	// source can be enabled without being pooled until it is opened.
	pooled map[source.ID]bool
}

// New creates a manager reading media through eng and persisting sources in st
func New(eng engine.Engine, st store.Store, opts ...Option) (*Manager, error) {
	if eng == nil {
		return nil, errors.New("resolution engine is required")
	}
	if st == nil {
		return nil, errors.New("source store is required")
	}

	o := &options{parallelism: config.DefaultScanParallelism}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	registry := source.NewRegistry(st)
	pool := resolvable.NewPool()
	pool.SetRanking(registry.Rank)

	return &Manager{
		engine:      eng,
		registry:    registry,
		pool:        pool,
		tracer:      o.tracer,
		metrics:     o.metrics,
		parallelism: o.parallelism,
		pooled:      make(map[source.ID]bool),
	}, nil
}

// begin starts the span and timer of an operation. The returned function
// ends both and must be called with the operation's error.
func (m *Manager) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := otel.StartSpan(ctx, m.tracer, "Manager."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		otel.RecordError(span, err)
		m.metrics.RecordOperation(ctx, op, time.Since(start), err)
		span.End()
	}
}

// recordState publishes registry and pool sizes
func (m *Manager) recordState(ctx context.Context) {
	if m.metrics == nil {
		return
	}
	m.metrics.RecordSources(ctx, m.registry.Len(), len(m.registry.Enabled()))
	for _, kind := range pooledKinds {
		m.metrics.RecordResolvables(ctx, kind.String(), m.pool.Count(kind))
	}
}

// opened is a product opened on media, with its resolvables when requested
type opened struct {
	handle *engine.Handle
	items  []*resolvable.Resolvable
}

// productDirs returns productDir, or every product directory found at url
// when productDir is empty
func (m *Manager) productDirs(ctx context.Context, url, productDir string) ([]string, error) {
	if productDir != "" {
		return []string{productDir}, nil
	}

	products, err := m.engine.EnumerateProducts(ctx, url)
	if err != nil {
		return nil, scanError(url, err)
	}
	if len(products) == 0 {
		return nil, errs.Scan(url, errors.New("no products found"))
	}

	dirs := make([]string, 0, len(products))
	for _, p := range products {
		dirs = append(dirs, p.Dir)
	}
	return dirs, nil
}

// openAll opens the products in dirs concurrently. The result is in dirs
// order with nil entries for products that failed; those are recorded in
// the returned partial error.
func (m *Manager) openAll(ctx context.Context, url string, dirs []string, withItems bool) ([]*opened, *errs.PartialError) {
	results := make([]*opened, len(dirs))
	failures := make([]error, len(dirs))

	var g errgroup.Group
	g.SetLimit(m.parallelism)
	for i, dir := range dirs {
		g.Go(func() error {
			h, err := m.engine.OpenSource(ctx, url, dir)
			if err != nil {
				failures[i] = scanError(url+dir, err)
				return nil
			}
			o := &opened{handle: h}
			if withItems {
				items, err := m.engine.Resolvables(ctx, h)
				if err != nil {
					failures[i] = scanError(url+dir, err)
					return nil
				}
				o.items = items
			}
			results[i] = o
			return nil
		})
	}
	_ = g.Wait()

	partial := &errs.PartialError{Op: "open products"}
	for i, err := range failures {
		if err != nil {
			slog.WarnContext(ctx, "Failed to open product", "url", url, "product_dir", dirs[i], "error", err)
			partial.Add(dirs[i], err)
		}
	}
	return results, partial
}

// enumerate opens a registered source and lists its resolvables
func (m *Manager) enumerate(ctx context.Context, src source.Source) ([]*resolvable.Resolvable, error) {
	location := src.URL + src.ProductDir
	h, err := m.engine.OpenSource(ctx, src.URL, src.ProductDir)
	if err != nil {
		return nil, scanError(location, err)
	}
	items, err := m.engine.Resolvables(ctx, h)
	if err != nil {
		return nil, scanError(location, err)
	}
	return items, nil
}

// load adds the resolvables of a source to the pool
func (m *Manager) load(id source.ID, items []*resolvable.Resolvable) int {
	m.pooled[id] = true
	return m.pool.Add(id, items)
}

// unload removes the resolvables of a source from the pool
func (m *Manager) unload(id source.ID) int {
	delete(m.pooled, id)
	return m.pool.Remove(id)
}

// register adds an opened product to the registry
func (m *Manager) register(url string, o *opened) source.ID {
	h := o.handle
	return m.registry.Add(url, h.ProductDir, source.Alias(url, h.ProductDir), h.Type, h.Autorefresh)
}

// scanError classifies an engine failure as a scan failure at location.
// Context cancellation is passed through unchanged.
func scanError(location string, err error) error {
	if errors.Is(err, errs.ErrScan) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errs.Scan(location, err)
}
