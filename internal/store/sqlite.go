package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver" // registers the sqlite3 driver
	_ "github.com/ncruces/go-sqlite3/embed"  // embeds the SQLite build
)

const (
	// SQLiteFileName is the name of the SQLite database below the state directory
	SQLiteFileName = "sources.db"

	sqliteSchema = `
CREATE TABLE IF NOT EXISTS install_source (
	position    INTEGER PRIMARY KEY,
	url         TEXT    NOT NULL,
	product_dir TEXT    NOT NULL DEFAULT '',
	alias       TEXT    NOT NULL,
	source_type TEXT    NOT NULL DEFAULT '',
	enabled     INTEGER NOT NULL DEFAULT 1,
	autorefresh INTEGER NOT NULL DEFAULT 1,
	priority    INTEGER NOT NULL
)`
)

// SQLiteStore persists records in a SQLite database file per target root.
// A connection is opened for each operation, target roots are usually
// touched only at start and finish of a session.
type SQLiteStore struct{}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a SQLite-backed store
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Path returns the database location for targetRoot
func (*SQLiteStore) Path(targetRoot string) string {
	return filepath.Join(stateDir(targetRoot), SQLiteFileName)
}

func (s *SQLiteStore) open(ctx context.Context, targetRoot string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+s.Path(targetRoot))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	return db, nil
}

// Save implements Store.Save
func (s *SQLiteStore) Save(ctx context.Context, targetRoot string, records []Record) error {
	if err := os.MkdirAll(stateDir(targetRoot), 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := s.open(ctx, targetRoot)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM install_source`); err != nil {
		return fmt.Errorf("failed to clear sources: %w", err)
	}

	for i, r := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO install_source
				(position, url, product_dir, alias, source_type, enabled, autorefresh, priority)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, r.URL, r.ProductDir, r.Alias, r.Type, r.Enabled, r.Autorefresh, r.Priority)
		if err != nil {
			return fmt.Errorf("failed to insert source %s: %w", r.Alias, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sources: %w", err)
	}
	return nil
}

// Load implements Store.Load
func (s *SQLiteStore) Load(ctx context.Context, targetRoot string) ([]Record, error) {
	if _, err := os.Stat(s.Path(targetRoot)); err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to stat sqlite database: %w", err)
	}

	db, err := s.open(ctx, targetRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx,
		`SELECT url, product_dir, alias, source_type, enabled, autorefresh, priority
		FROM install_source ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.URL, &r.ProductDir, &r.Alias, &r.Type,
			&r.Enabled, &r.Autorefresh, &r.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate source rows: %w", err)
	}
	return records, nil
}
