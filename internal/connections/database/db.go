package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"walkup-counter/internal/common/config"
)

func DSN(cfg config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Pass),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Connect opens a pool and retries the ping until the database answers or
// ctx is done.
func Connect(ctx context.Context, cfg config.DB) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}

	const (
		maxRetries = 10
		retryDelay = 2 * time.Second
		pingTTL    = 5 * time.Second
	)

	for i := 1; i <= maxRetries; i++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.NewWithConfig(ctx, pcfg)
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, pingTTL)
			err = pool.Ping(pctx)
			cancel()
			if err == nil {
				return pool, nil
			}
			pool.Close()
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("db connect canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, err)
}

const schema = `
CREATE TABLE IF NOT EXISTS served_orders (
	id          BIGSERIAL PRIMARY KEY,
	customer_id BIGINT      NOT NULL,
	items       TEXT[]      NOT NULL,
	result      TEXT        NOT NULL,
	prepared_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS stats_snapshots (
	id               BIGSERIAL PRIMARY KEY,
	taken_at         TIMESTAMPTZ NOT NULL,
	customers_served BIGINT      NOT NULL
);
CREATE TABLE IF NOT EXISTS stats_snapshot_items (
	snapshot_id BIGINT NOT NULL REFERENCES stats_snapshots(id) ON DELETE CASCADE,
	item        TEXT   NOT NULL,
	prepared    BIGINT NOT NULL,
	PRIMARY KEY (snapshot_id, item)
);
`

// EnsureSchema creates the tables the counter writes to.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
