package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stacklok/instsrc/internal/errs"
	"github.com/stacklok/instsrc/internal/otel"
	"github.com/stacklok/instsrc/internal/source"
)

// StartManager restores the persisted sources of targetRoot. With autoEnable
// the resolvables of every enabled source are added to the pool; a source
// whose media cannot be read is disabled and reported in a *errs.PartialError.
// Without autoEnable the enabled flags are kept but nothing is opened; such
// a source is opened by the next SetEnabled(id, true).
// Calling StartManager again registers and pools nothing new.
func (m *Manager) StartManager(ctx context.Context, targetRoot string, autoEnable bool) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, done := m.begin(ctx, "start", otel.AttrTargetRoot.String(targetRoot))
	defer func() { done(err) }()

	if err := m.registry.Restore(ctx, targetRoot); err != nil {
		return err
	}
	m.started = true
	defer m.recordState(ctx)

	if !autoEnable {
		return nil
	}

	partial := &errs.PartialError{Op: "enable restored sources"}
	for _, src := range m.registry.Enabled() {
		if m.pooled[src.ID] {
			continue
		}
		items, err := m.enumerate(ctx, src)
		if err != nil {
			slog.WarnContext(ctx, "Disabling unreadable source", "source_id", int(src.ID), "url", src.URL, "error", err)
			_ = m.registry.SetEnabled(src.ID, false)
			partial.Add(fmt.Sprintf("%d", src.ID), err)
			continue
		}
		m.load(src.ID, items)
	}

	slog.InfoContext(ctx, "Source manager started",
		"target_root", targetRoot,
		"sources", m.registry.Len(),
		"resolvables", m.pool.Len())
	return partial.OrNil()
}

// FinishAll persists all sources of targetRoot and then disables every
// source. The pool is left untouched.
func (m *Manager) FinishAll(ctx context.Context, targetRoot string) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, done := m.begin(ctx, "finish", otel.AttrTargetRoot.String(targetRoot))
	defer func() { done(err) }()

	if err := m.registry.Store(ctx, targetRoot); err != nil {
		return err
	}
	m.registry.DisableAll()
	m.recordState(ctx)
	return nil
}

// SaveRanks persists all sources of targetRoot in their current priority order
func (m *Manager) SaveRanks(ctx context.Context, targetRoot string) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, done := m.begin(ctx, "save", otel.AttrTargetRoot.String(targetRoot))
	defer func() { done(err) }()

	return m.registry.Store(ctx, targetRoot)
}

// Scan registers the products found at url without enabling them.
// An empty productDir registers every product listed on the media; products
// that cannot be opened are skipped and reported in a *errs.PartialError
// next to the ids of the registered ones.
func (m *Manager) Scan(ctx context.Context, url, productDir string) (ids []source.ID, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, done := m.begin(ctx, "scan", otel.AttrSourceURL.String(url), otel.AttrProductDir.String(productDir))
	defer func() { done(err) }()

	dirs, err := m.productDirs(ctx, url, productDir)
	if err != nil {
		return nil, err
	}

	products, partial := m.openAll(ctx, url, dirs, false)
	if productDir != "" && partial.OrNil() != nil {
		return nil, partial.Failures[0].Err
	}

	ids = make([]source.ID, 0, len(products))
	for _, o := range products {
		if o == nil {
			continue
		}
		id := m.register(url, o)
		slog.InfoContext(ctx, "Added source", "source_id", int(id), "alias", source.Alias(url, o.handle.ProductDir))
		ids = append(ids, id)
	}

	m.recordState(ctx)
	return ids, partial.OrNil()
}

// Create registers, enables and pools the products found at url. An empty
// productDir creates every product on the media and returns the id of the
// first one. Nothing is registered unless every product could be read;
// on failure NoSource is returned with the error.
func (m *Manager) Create(ctx context.Context, url, productDir string) (id source.ID, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, done := m.begin(ctx, "create", otel.AttrSourceURL.String(url), otel.AttrProductDir.String(productDir))
	defer func() { done(err) }()

	dirs, err := m.productDirs(ctx, url, productDir)
	if err != nil {
		return source.NoSource, err
	}

	products, partial := m.openAll(ctx, url, dirs, true)
	if err := partial.OrNil(); err != nil {
		if len(partial.Failures) == 1 {
			return source.NoSource, partial.Failures[0].Err
		}
		return source.NoSource, err
	}

	id = source.NoSource
	for _, o := range products {
		created := m.register(url, o)
		_ = m.registry.SetEnabled(created, true)
		m.load(created, o.items)
		if id == source.NoSource {
			id = created
		}
	}

	m.recordState(ctx)
	return id, nil
}

// SetEnabled enables or disables a source. Enabling adds its resolvables to
// the pool unless they are already there; if they cannot be read the source
// is left disabled. Disabling removes them. Repeating a call is a no-op.
func (m *Manager) SetEnabled(ctx context.Context, id source.ID, enabled bool) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, done := m.begin(ctx, "set_enabled", otel.AttrSourceID.Int(int(id)))
	defer func() { done(err) }()

	if err := m.setEnabled(ctx, id, enabled); err != nil {
		return err
	}
	m.recordState(ctx)
	return nil
}

func (m *Manager) setEnabled(ctx context.Context, id source.ID, enabled bool) error {
	src, err := m.registry.Find(id)
	if err != nil {
		return err
	}

	if !enabled {
		if m.pooled[id] {
			removed := m.unload(id)
			slog.DebugContext(ctx, "Disabled source", "source_id", int(id), "removed", removed)
		}
		return m.registry.SetEnabled(id, false)
	}

	if !m.pooled[id] {
		items, err := m.enumerate(ctx, src)
		if err != nil {
			_ = m.registry.SetEnabled(id, false)
			return err
		}
		added := m.load(id, items)
		slog.DebugContext(ctx, "Enabled source", "source_id", int(id), "added", added)
	}
	return m.registry.SetEnabled(id, true)
}

// SetAutorefresh sets whether a source refreshes its metadata when enabled
func (m *Manager) SetAutorefresh(ctx context.Context, id source.ID, autorefresh bool) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, done := m.begin(ctx, "set_autorefresh", otel.AttrSourceID.Int(int(id)))
	defer func() { done(err) }()

	return m.registry.SetAutorefresh(id, autorefresh)
}

// SetPriority changes the priority of a source by delta
func (m *Manager) SetPriority(ctx context.Context, id source.ID, delta int) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, done := m.begin(ctx, "set_priority", otel.AttrSourceID.Int(int(id)))
	defer func() { done(err) }()

	return m.registry.SetPriority(id, delta)
}

// RaisePriority raises the priority of a source by one
func (m *Manager) RaisePriority(ctx context.Context, id source.ID) error {
	return m.SetPriority(ctx, id, 1)
}

// LowerPriority lowers the priority of a source by one
func (m *Manager) LowerPriority(ctx context.Context, id source.ID) error {
	return m.SetPriority(ctx, id, -1)
}

// Delete removes a source together with its resolvables
func (m *Manager) Delete(ctx context.Context, id source.ID) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, done := m.begin(ctx, "delete", otel.AttrSourceID.Int(int(id)))
	defer func() { done(err) }()

	if _, err := m.registry.Find(id); err != nil {
		return err
	}
	removed := m.unload(id)
	if err := m.registry.Remove(id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Deleted source", "source_id", int(id), "removed_resolvables", removed)
	m.recordState(ctx)
	return nil
}

// EditGet returns the editable state of every source, highest priority first
func (m *Manager) EditGet(ctx context.Context) []source.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, done := m.begin(ctx, "edit_get")
	defer done(nil)

	all := m.registry.All()
	states := make([]source.State, 0, len(all))
	for _, src := range all {
		states = append(states, src.State())
	}
	return states
}

// EditSet makes the registry consist of the sources listed in states, in
// that order, with the given flags. Sources not listed are deleted with
// their resolvables and the pool is brought in line with every enabled flag.
// Invalid entries and sources whose media cannot be read are reported in
// a *errs.PartialError; everything else is applied.
func (m *Manager) EditSet(ctx context.Context, states []source.State) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, done := m.begin(ctx, "edit_set", otel.AttrResultCount.Int(len(states)))
	defer func() { done(err) }()

	partial := &errs.PartialError{Op: "edit sources"}
	pruned, err := m.registry.ReorderAndPrune(states)
	if err != nil {
		var reorder *errs.PartialError
		if !errors.As(err, &reorder) {
			return err
		}
		partial.Failures = append(partial.Failures, reorder.Failures...)
	}

	for _, id := range pruned {
		m.unload(id)
	}

	for _, src := range m.registry.All() {
		switch {
		case src.Enabled && !m.pooled[src.ID]:
			items, err := m.enumerate(ctx, src)
			if err != nil {
				_ = m.registry.SetEnabled(src.ID, false)
				partial.Add(fmt.Sprintf("%d", src.ID), err)
				continue
			}
			m.load(src.ID, items)
		case !src.Enabled && m.pooled[src.ID]:
			m.unload(src.ID)
		}
	}

	slog.DebugContext(ctx, "Edited sources", "listed", len(states), "pruned", len(pruned))
	m.recordState(ctx)
	return partial.OrNil()
}

// GetCurrent returns the ids of all sources, or of the enabled ones only,
// highest priority first
func (m *Manager) GetCurrent(ctx context.Context, enabledOnly bool) []source.ID {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, done := m.begin(ctx, "get_current")
	defer done(nil)

	if !enabledOnly {
		return m.registry.IDs()
	}
	enabled := m.registry.Enabled()
	ids := make([]source.ID, 0, len(enabled))
	for _, src := range enabled {
		ids = append(ids, src.ID)
	}
	return ids
}

// GeneralData returns a copy of a source
func (m *Manager) GeneralData(ctx context.Context, id source.ID) (src source.Source, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, done := m.begin(ctx, "general_data", otel.AttrSourceID.Int(int(id)))
	defer func() { done(err) }()

	return m.registry.Find(id)
}
