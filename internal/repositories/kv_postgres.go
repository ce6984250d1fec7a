package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresBackend stores each key as one row of the kv_store table.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgresBackend expects the kv_store migration to have been applied.
func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Load(ctx context.Context) (map[string][]byte, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT key, value FROM kv_store`)
	if err != nil {
		return nil, fmt.Errorf("%w: loading kv_store: %v", ErrStorageError, err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%w: scanning kv_store row: %v", ErrStorageError, err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating kv_store: %v", ErrStorageError, err)
	}
	return out, nil
}

func (b *PostgresBackend) Save(ctx context.Context, puts map[string][]byte, deletes []string) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: starting transaction: %v", ErrStorageError, err)
	}
	defer tx.Rollback()

	now := time.Now()
	query := `INSERT INTO kv_store (key, value, updated_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	for _, key := range sortedKeys(puts) {
		if _, err := tx.ExecContext(ctx, query, key, string(puts[key]), now); err != nil {
			return fmt.Errorf("%w: upserting %s: %v", ErrStorageError, key, err)
		}
	}

	if len(deletes) > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ANY($1)`, pq.Array(deletes)); err != nil {
			return fmt.Errorf("%w: deleting keys: %v", ErrStorageError, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing: %v", ErrStorageError, err)
	}
	return nil
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

func (b *PostgresBackend) Close() error {
	return b.db.Close()
}
