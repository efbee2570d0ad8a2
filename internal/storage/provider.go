package storage

// Package storage provides the durable key-value store behind the cart
// and the receipt history. Values are opaque strings (JSON documents);
// keys never expire.

import (
	"context"
	"errors"
	"fmt"
)

// Provider defines the interface for durable key-value storage.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Provider              string
	RedisConnectionString string
	PostgresURL           string
}

func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryProvider()
	case "redis":
		return NewRedisProvider(cfg.RedisConnectionString)
	case "postgres":
		return NewPostgresProvider(ctx, cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

var ErrNotFound = errors.New("key not found")
