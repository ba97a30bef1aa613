package manager

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stacklok/instsrc/internal/errs"
	"github.com/stacklok/instsrc/internal/otel"
	"github.com/stacklok/instsrc/internal/resolvable"
	"github.com/stacklok/instsrc/internal/source"
)

// ProductData returns the product provided by a source
func (m *Manager) ProductData(ctx context.Context, id source.ID) (md resolvable.Metadata, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, done := m.begin(ctx, "product_data", otel.AttrSourceID.Int(int(id)))
	defer func() { done(err) }()

	if _, err := m.registry.Find(id); err != nil {
		return resolvable.Metadata{}, err
	}
	products := m.pool.BySource(resolvable.KindProduct, id)
	if len(products) == 0 {
		return resolvable.Metadata{}, errs.NotFoundf("product of source %d", id)
	}
	return products[0], nil
}

// GetSelections returns the names of the pooled selections matching status
// and category. An unrecognized status is reported as a wrapped
// errs.ErrUnknownFilter together with the names collected before it.
func (m *Manager) GetSelections(ctx context.Context, status resolvable.StatusFilter, category string) ([]string, error) {
	return m.query(ctx, resolvable.KindSelection, status, category)
}

// GetPatterns returns the names of the pooled patterns matching status and
// category, with the same unknown status handling as GetSelections
func (m *Manager) GetPatterns(ctx context.Context, status resolvable.StatusFilter, category string) ([]string, error) {
	return m.query(ctx, resolvable.KindPattern, status, category)
}

func (m *Manager) query(
	ctx context.Context, kind resolvable.Kind, status resolvable.StatusFilter, category string,
) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, done := m.begin(ctx, "query_"+kind.String(),
		otel.AttrResolvableKind.String(kind.String()),
		otel.AttrStatusFilter.String(string(status)),
		otel.AttrCategory.String(category))

	names, err := m.pool.Query(kind, status, category)
	if err != nil {
		if !errors.Is(err, errs.ErrUnknownFilter) {
			done(err)
			return nil, err
		}
		slog.WarnContext(ctx, "Unknown status filter", "kind", kind.String(), "status", string(status))
	}
	done(nil)
	return names, err
}

// SelectionData describes the preferred selection of the given name
func (m *Manager) SelectionData(ctx context.Context, name string) (resolvable.Metadata, error) {
	return m.describe(ctx, resolvable.KindSelection, name)
}

// PatternData describes the preferred pattern of the given name
func (m *Manager) PatternData(ctx context.Context, name string) (resolvable.Metadata, error) {
	return m.describe(ctx, resolvable.KindPattern, name)
}

func (m *Manager) describe(ctx context.Context, kind resolvable.Kind, name string) (md resolvable.Metadata, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, done := m.begin(ctx, "describe_"+kind.String(),
		otel.AttrResolvableKind.String(kind.String()),
		otel.AttrResolvableName.String(name))
	defer func() { done(err) }()

	return m.pool.Describe(kind, name)
}

// SelectionContent returns the packages of a selection for locale. The
// packages a selection removes are not tracked, so toDelete yields an empty
// list once the selection is known to exist.
func (m *Manager) SelectionContent(ctx context.Context, name string, toDelete bool, locale string) ([]string, error) {
	pkgs, err := m.content(ctx, resolvable.KindSelection, name, locale)
	if err != nil {
		return nil, err
	}
	if toDelete {
		return []string{}, nil
	}
	return pkgs, nil
}

// PatternContent returns the packages of a pattern for locale
func (m *Manager) PatternContent(ctx context.Context, name, locale string) ([]string, error) {
	return m.content(ctx, resolvable.KindPattern, name, locale)
}

func (m *Manager) content(ctx context.Context, kind resolvable.Kind, name, locale string) (pkgs []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, done := m.begin(ctx, "content_"+kind.String(),
		otel.AttrResolvableKind.String(kind.String()),
		otel.AttrResolvableName.String(name))
	defer func() { done(err) }()

	return m.pool.Content(kind, name, locale)
}

// SetSelection marks a selection for installation
func (m *Manager) SetSelection(ctx context.Context, name string) error {
	return m.mark(ctx, resolvable.KindSelection, name, true)
}

// ClearSelection withdraws the installation intent of a selection
func (m *Manager) ClearSelection(ctx context.Context, name string) error {
	return m.mark(ctx, resolvable.KindSelection, name, false)
}

// SetPattern marks a pattern for installation
func (m *Manager) SetPattern(ctx context.Context, name string) error {
	return m.mark(ctx, resolvable.KindPattern, name, true)
}

// ClearPattern withdraws the installation intent of a pattern
func (m *Manager) ClearPattern(ctx context.Context, name string) error {
	return m.mark(ctx, resolvable.KindPattern, name, false)
}

func (m *Manager) mark(ctx context.Context, kind resolvable.Kind, name string, selected bool) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	op := "clear_" + kind.String()
	if selected {
		op = "set_" + kind.String()
	}
	_, done := m.begin(ctx, op,
		otel.AttrResolvableKind.String(kind.String()),
		otel.AttrResolvableName.String(name))
	defer func() { done(err) }()

	if selected {
		return m.pool.SetToBeInstalled(kind, name)
	}
	return m.pool.ClearToBeInstalled(kind, name)
}
