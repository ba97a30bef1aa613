package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists records in the install_source table, one row set
// per target root. The schema is managed by the database package migrations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a PostgreSQL-backed store on an existing pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save implements Store.Save
func (p *PostgresStore) Save(ctx context.Context, targetRoot string, records []Record) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM install_source WHERE target_root = $1`, targetRoot); err != nil {
		return fmt.Errorf("failed to clear sources: %w", err)
	}

	batch := &pgx.Batch{}
	for i, r := range records {
		batch.Queue(
			`INSERT INTO install_source
				(target_root, position, url, product_dir, alias, source_type, enabled, autorefresh, priority)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			targetRoot, i, r.URL, r.ProductDir, r.Alias, r.Type, r.Enabled, r.Autorefresh, r.Priority)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert sources: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sources: %w", err)
	}
	return nil
}

// Load implements Store.Load
func (p *PostgresStore) Load(ctx context.Context, targetRoot string) ([]Record, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT url, product_dir, alias, source_type, enabled, autorefresh, priority
		FROM install_source WHERE target_root = $1 ORDER BY position`, targetRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var r Record
		err := row.Scan(&r.URL, &r.ProductDir, &r.Alias, &r.Type, &r.Enabled, &r.Autorefresh, &r.Priority)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read sources: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
