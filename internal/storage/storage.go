// Package storage defines the key-value contract every collection snapshot
// is persisted through. Drivers live in the sub-packages.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// KV is a byte-oriented key-value store. Values are whole collection
// snapshots, so Set always replaces.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Key builds the per-collection key, "<prefix>:<collection>".
func Key(prefix, collection string) string {
	if prefix == "" {
		return collection
	}
	return prefix + ":" + collection
}
