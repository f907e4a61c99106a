package memory

import (
	"context"
	"sync"

	"github.com/appshelf/appshelf/internal/storage"
)

// KV keeps values in process memory. It is the default driver and the one
// tests run against.
type KV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func New() *KV {
	return &KV{values: make(map[string][]byte)}
}

func (m *KV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *KV) Close() error {
	return nil
}
