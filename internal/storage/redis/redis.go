package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/appshelf/appshelf/config"
	"github.com/appshelf/appshelf/internal/storage"
)

// KV keeps each collection snapshot under a plain string key.
type KV struct {
	client *redis.Client
}

// New connects to the configured server and pings it.
func New(ctx context.Context, cfg config.RedisConfig) (*KV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis (%s): %w", cfg.Addr, err)
	}
	return NewFromClient(client), nil
}

func NewFromClient(client *redis.Client) *KV {
	return &KV{client: client}
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := k.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	return k.client.Set(ctx, key, value, 0).Err()
}

func (k *KV) Close() error {
	return k.client.Close()
}
