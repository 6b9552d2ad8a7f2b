package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions controls connection retries at startup.
type PoolOptions struct {
	MaxRetries int
	RetryDelay time.Duration
}

// NewPostgresPool creates a PostgreSQL connection pool, retrying while the
// database is not yet reachable (common when containers start together).
func NewPostgresPool(ctx context.Context, databaseURL string, log *slog.Logger, opts PoolOptions) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 5 * time.Second
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	var lastErr error
	for i := 0; i < opts.MaxRetries; i++ {
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				return pool, nil
			} else {
				err = pingErr
				pool.Close()
			}
		}
		lastErr = err

		log.Warn("could not connect to database, retrying",
			"attempt", i+1, "max_attempts", opts.MaxRetries, "retry_in", opts.RetryDelay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}

	return nil, fmt.Errorf("connect to postgres after %d attempts: %w", opts.MaxRetries, lastErr)
}
