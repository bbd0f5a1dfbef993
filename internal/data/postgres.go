// Package data provides low-level data clients and connection factories.
package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Devesh36/CodeBits/internal/config"
)

// PostgresDSN builds the connection string from configuration, preferring POSTGRES_URL.
func PostgresDSN(c config.Config) string {
	if c.PostgresURL != "" {
		return c.PostgresURL
	}
	host := orDefault(c.PostgresHost, "127.0.0.1")
	port := orDefault(c.PostgresPort, "5432")
	user := orDefault(c.PostgresUser, "postgres")
	db := orDefault(c.PostgresDB, "codebits")
	sslmode := orDefault(c.PostgresSSLMode, "disable")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, c.PostgresPassword, host, port, db, sslmode)
}

// NewPostgresPool creates a new pgx connection pool based on configuration.
func NewPostgresPool(ctx context.Context, c config.Config) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(PostgresDSN(c))
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 30 * time.Second
	cfg.MaxConnLifetime = 30 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
