package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Connect sets up the database connection pool and checks that it works.
func Connect(ctx context.Context, databaseURL string, log *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	log.Info("Successfully connected to the database")
	return pool, nil
}

// Close closes the database connection pool.
func Close(pool *pgxpool.Pool, log *zap.Logger) {
	if pool != nil {
		pool.Close()
		log.Info("Database connection pool closed")
	}
}
