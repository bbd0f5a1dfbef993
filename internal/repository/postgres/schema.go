// Package postgres provides Postgres-backed implementations of the snippet, star and profile repositories.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Devesh36/CodeBits/pkg/logger"
)

// Schema mirrors migrations/000001_init.up.sql so tests and dev runs can bootstrap without the migrate tool.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    full_name TEXT NOT NULL DEFAULT '',
    tier TEXT NOT NULL DEFAULT 'free'
);
CREATE TABLE IF NOT EXISTS snippets (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    title TEXT NOT NULL,
    code TEXT NOT NULL,
    language TEXT NOT NULL,
    tags TEXT[] NOT NULL DEFAULT '{}',
    summary TEXT NULL,
    is_public BOOLEAN NOT NULL DEFAULT FALSE,
    stars INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snippets_owner ON snippets (owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_snippets_public_stars ON snippets (stars DESC, created_at DESC) WHERE is_public;
CREATE TABLE IF NOT EXISTS snippet_stars (
    snippet_id TEXT NOT NULL REFERENCES snippets (id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (snippet_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_snippet_stars_user ON snippet_stars (user_id);
`

// EnsureSchema creates required tables if they don't exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return err
	}
	logger.Info(ctx, "postgres schema ensured")
	return nil
}
