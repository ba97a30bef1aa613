package resolvable

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/stacklok/instsrc/internal/errs"
	"github.com/stacklok/instsrc/internal/source"
	"github.com/stacklok/instsrc/internal/versions"
)

var errEmptyName = errors.New("resolvable name is empty")

func errUnknownKind(k Kind) error {
	return fmt.Errorf("unknown resolvable kind %d", int(k))
}

func errDetailsMismatch(k, detailsKind Kind) error {
	return fmt.Errorf("%s carries %s details", k, detailsKind)
}

// RankFunc positions a source in preference order, lower is preferred
type RankFunc func(id source.ID) int

type entry struct {
	res      Resolvable
	source   source.ID
	selected bool
}

func (e *entry) status() Status {
	switch {
	case e.selected:
		return StatusToBeInstalled
	case e.res.Installed:
		return StatusWasInstalled
	default:
		return StatusAvailable
	}
}

func (e *entry) matches(filter StatusFilter) bool {
	switch filter {
	case FilterSelected:
		return e.selected
	case FilterInstalled:
		return e.res.Installed
	default:
		return true
	}
}

// Pool tracks the resolvables of all enabled sources.
// A Pool is not safe for concurrent use.
type Pool struct {
	entries []*entry
	rank    RankFunc
}

// NewPool creates an empty pool
func NewPool() *Pool {
	return &Pool{}
}

// SetRanking installs the source preference used to pick among same-named
// resolvables of different sources. Without a ranking the newest version wins.
func (p *Pool) SetRanking(rank RankFunc) {
	p.rank = rank
}

// Len returns the number of pooled resolvables
func (p *Pool) Len() int {
	return len(p.entries)
}

// Count returns the number of pooled resolvables of kind
func (p *Pool) Count(kind Kind) int {
	n := 0
	for _, e := range p.entries {
		if e.res.Kind == kind {
			n++
		}
	}
	return n
}

// Add stores copies of items tagged with sourceID and returns how many were
// added. Items already present for the same kind, name and source are skipped,
// as are invalid items.
func (p *Pool) Add(sourceID source.ID, items []*Resolvable) int {
	added := 0
	for _, item := range items {
		if item == nil {
			continue
		}
		if err := item.Validate(); err != nil {
			slog.Warn("Skipping invalid resolvable", "source_id", int(sourceID), "name", item.Name, "error", err)
			continue
		}
		if p.find(item.Kind, item.Name, sourceID) != nil {
			continue
		}
		p.entries = append(p.entries, &entry{res: item.clone(), source: sourceID})
		added++
	}
	return added
}

// Remove drops every resolvable of sourceID and returns the count
func (p *Pool) Remove(sourceID source.ID) int {
	before := len(p.entries)
	p.entries = slices.DeleteFunc(p.entries, func(e *entry) bool { return e.source == sourceID })
	return before - len(p.entries)
}

// Query returns the names of resolvables of kind matching filter and category,
// in insertion order without duplicates.
//
// The category "base" selects the kind's base category. An empty category
// selects everything except base units. Any other value must match exactly.
//
// An unknown filter yields no names and an errs.ErrUnknownFilter error, even
// when the pool holds nothing of kind.
func (p *Pool) Query(kind Kind, filter StatusFilter, category string) ([]string, error) {
	base := kind.BaseCategory()
	if category == BaseAlias {
		category = base
	}

	names := []string{}
	if !filter.Known() {
		return names, fmt.Errorf("%w: %q", errs.ErrUnknownFilter, filter)
	}

	seen := map[string]bool{}
	for _, e := range p.entries {
		if e.res.Kind != kind || !e.matches(filter) {
			continue
		}

		cat := e.res.Category()
		if category == "" {
			if base != "" && cat == base {
				continue
			}
		} else if cat != category {
			continue
		}

		if !seen[e.res.Name] {
			seen[e.res.Name] = true
			names = append(names, e.res.Name)
		}
	}
	return names, nil
}

// SetToBeInstalled records install intent on the preferred instance of kind and name
func (p *Pool) SetToBeInstalled(kind Kind, name string) error {
	e, err := p.preferred(kind, name)
	if err != nil {
		return err
	}
	e.selected = true
	return nil
}

// ClearToBeInstalled clears install intent on every instance of kind and name
func (p *Pool) ClearToBeInstalled(kind Kind, name string) error {
	if _, err := p.preferred(kind, name); err != nil {
		return err
	}
	for _, e := range p.entries {
		if e.res.Kind == kind && e.res.Name == name {
			e.selected = false
		}
	}
	return nil
}

// Describe returns a snapshot of the preferred instance of kind and name
func (p *Pool) Describe(kind Kind, name string) (Metadata, error) {
	e, err := p.preferred(kind, name)
	if err != nil {
		return Metadata{}, err
	}
	return e.metadata(), nil
}

// Content returns the packages of a selection or pattern for locale.
// The empty locale yields the locale-neutral packages only.
func (p *Pool) Content(kind Kind, name, locale string) ([]string, error) {
	e, err := p.preferred(kind, name)
	if err != nil {
		return nil, err
	}
	return e.res.Packages().For(locale), nil
}

// BySource returns snapshots of the resolvables of kind owned by sourceID
func (p *Pool) BySource(kind Kind, sourceID source.ID) []Metadata {
	out := []Metadata{}
	for _, e := range p.entries {
		if e.res.Kind == kind && e.source == sourceID {
			out = append(out, e.metadata())
		}
	}
	return out
}

func (p *Pool) find(kind Kind, name string, sourceID source.ID) *entry {
	for _, e := range p.entries {
		if e.res.Kind == kind && e.res.Name == name && e.source == sourceID {
			return e
		}
	}
	return nil
}

// preferred picks among the instances of kind and name: best ranked source
// first, then newest version, then earliest insertion.
func (p *Pool) preferred(kind Kind, name string) (*entry, error) {
	var best *entry
	for _, e := range p.entries {
		if e.res.Kind != kind || e.res.Name != name {
			continue
		}
		if best == nil || p.prefers(e, best) {
			best = e
		}
	}
	if best == nil {
		return nil, errs.NotFoundf("%s %q", kind, name)
	}
	return best, nil
}

func (p *Pool) prefers(a, b *entry) bool {
	if p.rank != nil && a.source != b.source {
		ra, rb := p.rank(a.source), p.rank(b.source)
		if ra != rb {
			return ra < rb
		}
	}
	return versions.IsNewerVersion(a.res.Version, b.res.Version)
}

func (e *entry) metadata() Metadata {
	m := Metadata{
		Kind:        e.res.Kind,
		Name:        e.res.Name,
		Version:     e.res.Version,
		Arch:        e.res.Arch,
		Summary:     e.res.Summary,
		Description: e.res.Description,
		Status:      e.status(),
		Source:      e.source,
	}
	switch d := e.res.Details.(type) {
	case SelectionDetails:
		m.Category = d.Category
		m.Visible = d.Visible
		m.Order = d.Order
	case PatternDetails:
		m.Category = d.Category
		m.Visible = d.Visible
		m.Order = d.Order
		m.Default = d.Default
		m.Icon = d.Icon
		m.Script = d.Script
	case ProductDetails:
		m.Vendor = d.Vendor
		m.Label = d.Label
	}
	return m
}
