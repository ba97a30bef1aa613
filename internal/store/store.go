// Package store persists installation source definitions below a target root.
//
// The package defines the Store interface which abstracts durable state I/O
// for the source registry. Implementations:
//   - FileStore: versioned YAML document guarded by a file lock
//   - SQLiteStore: single-file SQLite database under the target root
//   - PostgresStore: PostgreSQL table keyed by target root
//   - MemoryStore: process-local map, used by tests and ephemeral runs
//
// Records are saved and loaded as an ordered slice, highest priority first.
package store

import (
	"context"
	"path/filepath"
)

const (
	// StateDir is the directory, relative to the target root, holding source state
	StateDir = "var/lib/instsrc"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store

// Store defines durable persistence of source definitions
type Store interface {
	// Save replaces the persisted source set of targetRoot with records
	Save(ctx context.Context, targetRoot string, records []Record) error

	// Load returns the persisted source set of targetRoot in saved order.
	// A target root without persisted state yields an empty slice.
	Load(ctx context.Context, targetRoot string) ([]Record, error)
}

// Record is the persisted form of one installation source
type Record struct {
	URL         string `yaml:"url"`
	ProductDir  string `yaml:"productDir,omitempty"`
	Alias       string `yaml:"alias"`
	Type        string `yaml:"type,omitempty"`
	Enabled     bool   `yaml:"enabled"`
	Autorefresh bool   `yaml:"autorefresh"`
	Priority    int    `yaml:"priority"`
}

// stateDir returns the absolute state directory for targetRoot
func stateDir(targetRoot string) string {
	if targetRoot == "" {
		targetRoot = "/"
	}
	return filepath.Join(targetRoot, StateDir)
}
