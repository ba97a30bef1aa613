package source

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/stacklok/instsrc/internal/errs"
	"github.com/stacklok/instsrc/internal/store"
)

// mediaKey identifies the media a source was registered for
type mediaKey struct {
	url        string
	productDir string
}

// Registry keeps the set of known sources
type Registry struct {
	store   store.Store
	lastID  ID
	lastSeq uint64
	sources map[ID]*Source
}

// NewRegistry creates an empty registry persisting through st
func NewRegistry(st store.Store) *Registry {
	return &Registry{
		store:   st,
		sources: make(map[ID]*Source),
	}
}

// Len returns the number of registered sources
func (r *Registry) Len() int {
	return len(r.sources)
}

// Restore loads the persisted sources of targetRoot.
// Each record is matched against the sources registered before the call
// with the same url and product directory, one for one, and only unmatched
// records are registered. Calling Restore twice registers nothing new, while
// distinct persisted records for the same media are all restored.
func (r *Registry) Restore(ctx context.Context, targetRoot string) error {
	records, err := r.store.Load(ctx, targetRoot)
	if err != nil {
		return errs.IO("restore sources", err)
	}

	present := make(map[mediaKey]int, len(r.sources))
	for _, src := range r.sources {
		present[mediaKey{src.URL, src.ProductDir}]++
	}

	restored := 0
	for _, rec := range records {
		key := mediaKey{rec.URL, rec.ProductDir}
		if present[key] > 0 {
			present[key]--
			continue
		}
		src := r.register(rec.URL, rec.ProductDir, rec.Alias, rec.Type, rec.Autorefresh)
		src.Enabled = rec.Enabled
		src.Priority = rec.Priority
		restored++
	}

	slog.Debug("Restored sources", "target_root", targetRoot, "restored", restored, "persisted", len(records))
	return nil
}

// Store persists all sources of the registry in priority order
func (r *Registry) Store(ctx context.Context, targetRoot string) error {
	ordered := r.ordered()
	records := make([]store.Record, 0, len(ordered))
	for _, src := range ordered {
		records = append(records, src.record())
	}
	if err := r.store.Save(ctx, targetRoot, records); err != nil {
		return errs.IO("store sources", err)
	}
	return nil
}

// Add registers a new disabled source with the lowest priority
func (r *Registry) Add(url, productDir, alias, typ string, autorefresh bool) ID {
	priority := 0
	if len(r.sources) > 0 {
		priority = r.minPriority() - 1
	}
	src := r.register(url, productDir, alias, typ, autorefresh)
	src.Priority = priority
	return src.ID
}

// Find returns a copy of the source with the given id
func (r *Registry) Find(id ID) (Source, error) {
	src, err := r.get(id)
	if err != nil {
		return Source{}, err
	}
	return *src, nil
}

// All returns copies of all sources, highest priority first.
// Sources of equal priority keep their registration order.
func (r *Registry) All() []Source {
	ordered := r.ordered()
	out := make([]Source, 0, len(ordered))
	for _, src := range ordered {
		out = append(out, *src)
	}
	return out
}

// Enabled returns copies of the enabled sources in the order of All
func (r *Registry) Enabled() []Source {
	out := []Source{}
	for _, src := range r.ordered() {
		if src.Enabled {
			out = append(out, *src)
		}
	}
	return out
}

// IDs returns the ids of all sources in the order of All
func (r *Registry) IDs() []ID {
	ordered := r.ordered()
	ids := make([]ID, 0, len(ordered))
	for _, src := range ordered {
		ids = append(ids, src.ID)
	}
	return ids
}

// SetEnabled sets the enabled flag of a source
func (r *Registry) SetEnabled(id ID, enabled bool) error {
	src, err := r.get(id)
	if err != nil {
		return err
	}
	src.Enabled = enabled
	return nil
}

// SetAutorefresh sets the autorefresh flag of a source
func (r *Registry) SetAutorefresh(id ID, autorefresh bool) error {
	src, err := r.get(id)
	if err != nil {
		return err
	}
	src.Autorefresh = autorefresh
	return nil
}

// SetPriority changes the priority of a source by delta
func (r *Registry) SetPriority(id ID, delta int) error {
	src, err := r.get(id)
	if err != nil {
		return err
	}
	src.Priority += delta
	return nil
}

// Remove unregisters a source. Its id is never handed out again.
func (r *Registry) Remove(id ID) error {
	if _, err := r.get(id); err != nil {
		return err
	}
	delete(r.sources, id)
	return nil
}

// DisableAll clears the enabled flag of every source
func (r *Registry) DisableAll() {
	for _, src := range r.sources {
		src.Enabled = false
	}
}

// ReorderAndPrune makes the registry consist of exactly the known sources
// listed in states, in that order. Priorities are reassigned from len-1 down
// to 0 and the flags are taken from the states. Registered sources missing
// from states are removed and returned.
//
// Unknown and repeated ids are reported in a *errs.PartialError; the valid
// entries are applied regardless.
func (r *Registry) ReorderAndPrune(states []State) ([]ID, error) {
	partial := &errs.PartialError{Op: "reorder sources"}

	seen := make(map[ID]bool, len(states))
	valid := make([]State, 0, len(states))
	for _, st := range states {
		item := fmt.Sprintf("%d", st.ID)
		if _, ok := r.sources[st.ID]; !ok {
			partial.Add(item, errs.NotFoundf("source %d", st.ID))
			continue
		}
		if seen[st.ID] {
			partial.Add(item, fmt.Errorf("source %d listed more than once", st.ID))
			continue
		}
		seen[st.ID] = true
		valid = append(valid, st)
	}

	pruned := []ID{}
	for _, id := range r.IDs() {
		if !seen[id] {
			delete(r.sources, id)
			pruned = append(pruned, id)
		}
	}

	for i, st := range valid {
		src := r.sources[st.ID]
		src.Priority = len(valid) - 1 - i
		src.Enabled = st.Enabled
		src.Autorefresh = st.Autorefresh
	}

	return pruned, partial.OrNil()
}

// Lookup returns the id of the source registered for url and productDir
func (r *Registry) Lookup(url, productDir string) (ID, bool) {
	src := r.lookup(url, productDir)
	if src == nil {
		return NoSource, false
	}
	return src.ID, true
}

// Rank returns the position of id in the order of All.
// Unknown ids rank after every registered source.
func (r *Registry) Rank(id ID) int {
	idx := slices.Index(r.IDs(), id)
	if idx < 0 {
		return len(r.sources)
	}
	return idx
}

func (r *Registry) register(url, productDir, alias, typ string, autorefresh bool) *Source {
	r.lastID++
	r.lastSeq++
	src := &Source{
		ID:          r.lastID,
		URL:         url,
		ProductDir:  productDir,
		Alias:       alias,
		Type:        typ,
		Autorefresh: autorefresh,
		seq:         r.lastSeq,
	}
	r.sources[src.ID] = src
	return src
}

func (r *Registry) get(id ID) (*Source, error) {
	src, ok := r.sources[id]
	if !ok {
		return nil, errs.NotFoundf("source %d", id)
	}
	return src, nil
}

func (r *Registry) lookup(url, productDir string) *Source {
	for _, src := range r.ordered() {
		if src.URL == url && src.ProductDir == productDir {
			return src
		}
	}
	return nil
}

func (r *Registry) minPriority() int {
	lowest := 0
	first := true
	for _, src := range r.sources {
		if first || src.Priority < lowest {
			lowest = src.Priority
			first = false
		}
	}
	return lowest
}

func (r *Registry) ordered() []*Source {
	out := make([]*Source, 0, len(r.sources))
	for _, src := range r.sources {
		out = append(out, src)
	}
	slices.SortFunc(out, func(a, b *Source) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}
