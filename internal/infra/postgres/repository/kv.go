package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/tka-exam-bot/internal/infra/postgres"
)

// KVRepository stores key-value pairs in the kv_entries table.
type KVRepository struct {
	db postgres.DBTX
}

// NewKVRepository creates a new KVRepository with the provided database handle.
func NewKVRepository(db postgres.DBTX) *KVRepository {
	return &KVRepository{db: db}
}

// Get retrieves the value stored under key.
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query := "SELECT value FROM kv_entries WHERE key = $1"

	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get kv entry: %w", err)
	}

	return value, true, nil
}

// Set inserts or replaces the value under key.
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set kv entry: %w", err)
	}

	return nil
}

// Delete removes key; deleting a missing key is not an error.
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM kv_entries WHERE key = $1", key); err != nil {
		return fmt.Errorf("delete kv entry: %w", err)
	}

	return nil
}
