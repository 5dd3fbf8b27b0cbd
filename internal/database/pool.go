package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskfoo/taskfoo-bot/internal/config"
)

// schema creates the audit table. Statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS navigation_events (
	event_id    UUID PRIMARY KEY,
	sender_id   TEXT NOT NULL,
	utterance   TEXT NOT NULL,
	phrase      TEXT NOT NULL,
	route       TEXT NOT NULL,
	matched     BOOLEAN NOT NULL,
	received_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS navigation_events_received_at_idx
	ON navigation_events (received_at);
`

// Connect creates a connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	connStr := BuildConnString(cfg)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the audit table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
