package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/appshelf/appshelf/internal/storage"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// KV stores collection snapshots as JSONB rows keyed by collection key.
type KV struct {
	client *Client
}

// NewKV creates the kv table if needed.
func NewKV(ctx context.Context, client *Client) (*KV, error) {
	if _, err := client.DB.ExecContext(ctx, kvSchema); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return &KV{client: client}, nil
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := k.client.DB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := k.client.DB.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (k *KV) Close() error {
	return k.client.Close()
}
