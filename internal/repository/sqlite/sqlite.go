// Package sqlite implements the repository interfaces on an embedded SQLite file,
// for single-node deployments and local development without a Postgres server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the snippet, star and profile repositories.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	// One connection: SQLite has a single writer, and ":memory:" is per connection.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			user_id   TEXT PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT '',
			tier      TEXT NOT NULL DEFAULT 'free'
		);
		CREATE TABLE IF NOT EXISTS snippets (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL,
			title      TEXT NOT NULL,
			code       TEXT NOT NULL,
			language   TEXT NOT NULL,
			tags       TEXT NOT NULL DEFAULT '[]',
			summary    TEXT NULL,
			is_public  INTEGER NOT NULL DEFAULT 0,
			stars      INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_owner ON snippets(owner_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_snippets_public ON snippets(is_public, stars, created_at);
		CREATE TABLE IF NOT EXISTS snippet_stars (
			snippet_id TEXT NOT NULL REFERENCES snippets(id) ON DELETE CASCADE,
			user_id    TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (snippet_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_snippet_stars_user ON snippet_stars(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}
