package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProvider stores records in a single key/value table, keeping the
// same opaque-document contract as the other providers.
type PostgresProvider struct {
	pool *pgxpool.Pool
}

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS kv_records (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func NewPostgresProvider(ctx context.Context, databaseURL string) (*PostgresProvider, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createRecordsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	return &PostgresProvider{pool: pool}, nil
}

func (p *PostgresProvider) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv_records WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (p *PostgresProvider) Set(ctx context.Context, key string, value string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO kv_records (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	return err
}

func (p *PostgresProvider) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM kv_records WHERE key = $1`, key)
	return err
}

func (p *PostgresProvider) Close() error {
	p.pool.Close()
	return nil
}
