package config

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectDB opens the pgx pool against the profile/product store.
func ConnectDB(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DBConnString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
