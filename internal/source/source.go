// Package source holds the registry of installation sources.
//
// A Source is an access location (url) plus a product directory beneath it.
// The Registry assigns process-unique ids, keeps priority order and persists
// the definitions through a store.Store. It performs no locking of its own;
// callers serialize access.
package source

import (
	"github.com/stacklok/instsrc/internal/store"
)

// ID identifies a registered source for the lifetime of the process
type ID int

// NoSource is the sentinel id returned when no source could be created
const NoSource ID = 0

// Source describes one installation source
type Source struct {
	ID          ID     `json:"id"`
	URL         string `json:"url"`
	ProductDir  string `json:"productDir"`
	Alias       string `json:"alias"`
	Type        string `json:"type"`
	Enabled     bool   `json:"enabled"`
	Autorefresh bool   `json:"autorefresh"`
	Priority    int    `json:"priority"`

	seq uint64
}

// State is the editable subset of a source, used for bulk reordering
type State struct {
	ID          ID   `json:"srcId"`
	Enabled     bool `json:"enabled"`
	Autorefresh bool `json:"autorefresh"`
}

// State returns the editable subset of s
func (s Source) State() State {
	return State{ID: s.ID, Enabled: s.Enabled, Autorefresh: s.Autorefresh}
}

// Alias builds the default alias of a source from its url and product directory
func Alias(url, productDir string) string {
	return url + productDir
}

func (s *Source) record() store.Record {
	return store.Record{
		URL:         s.URL,
		ProductDir:  s.ProductDir,
		Alias:       s.Alias,
		Type:        s.Type,
		Enabled:     s.Enabled,
		Autorefresh: s.Autorefresh,
		Priority:    s.Priority,
	}
}
