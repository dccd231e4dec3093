// Package db opens the PostgreSQL connection used by the slot repository
// and creates its schema.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// DefaultTable is the slot table used when none is configured.
const DefaultTable = "slots"

const schema = `
CREATE TABLE IF NOT EXISTS %s (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at BIGINT NOT NULL
);
`

// InitPostgres opens a connection to dsn, checks it and creates the slot
// table. An empty table means DefaultTable.
func InitPostgres(ctx context.Context, dsn, table string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := Migrate(ctx, db, table); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the slot table if it does not exist. The name is quoted,
// so it is used exactly as given.
func Migrate(ctx context.Context, db *sql.DB, table string) error {
	if table == "" {
		table = DefaultTable
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(schema, pq.QuoteIdentifier(table))); err != nil {
		return fmt.Errorf("create schema %q: %w", table, err)
	}
	return nil
}
