package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// DefaultSlotTable is the table db.InitPostgres creates when no name is given.
const DefaultSlotTable = "slots"

// PostgresSlotRepository stores slots as rows of a key/value table.
type PostgresSlotRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
	// Table is the slot table name. Empty means DefaultSlotTable.
	Table string
}

// NewPostgresSlotRepository creates a PostgresSlotRepository over the
// default slot table. db must be a valid connection to a PostgreSQL instance.
func NewPostgresSlotRepository(db *sql.DB) *PostgresSlotRepository {
	return &PostgresSlotRepository{DB: db, Table: DefaultSlotTable}
}

func (r *PostgresSlotRepository) table() string {
	if r.Table == "" {
		return pq.QuoteIdentifier(DefaultSlotTable)
	}
	return pq.QuoteIdentifier(r.Table)
}

// Get fetches the value stored under key.
//
//	ctx: context for cancellation and deadlines
//	key: slot name
//
// Returns ErrSlotNotFound when no row exists.
func (r *PostgresSlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var value string
	err := r.DB.QueryRowContext(ctx,
		`SELECT value FROM `+r.table()+` WHERE key = $1`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("get slot %q: %w", key, err)
	}
	return []byte(value), nil
}

// Put inserts or overwrites the value stored under key.
//
//	ctx:   context for cancellation and deadlines
//	key:   slot name
//	value: full slot content
func (r *PostgresSlotRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO `+r.table()+` (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, key, string(value), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("put slot %q: %w", key, err)
	}
	return nil
}
