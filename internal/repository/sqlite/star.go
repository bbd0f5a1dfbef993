package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/repository"
)

// Toggle flips the star in one transaction and rewrites the stored count from the ledger.
func (db *DB) Toggle(ctx context.Context, snippetID, userID string) (domain.StarResult, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return domain.StarResult{}, fmt.Errorf("begin toggle: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM snippets WHERE id = ?`, snippetID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.StarResult{}, repository.ErrNotFound
		}
		return domain.StarResult{}, fmt.Errorf("find snippet: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM snippet_stars WHERE snippet_id = ? AND user_id = ?`, snippetID, userID)
	if err != nil {
		return domain.StarResult{}, fmt.Errorf("remove star: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return domain.StarResult{}, fmt.Errorf("rows affected: %w", err)
	}
	starred := removed == 0
	if starred {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snippet_stars (snippet_id, user_id, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
			snippetID, userID, time.Now().UTC().UnixNano())
		if err != nil {
			return domain.StarResult{}, fmt.Errorf("add star: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE snippets SET stars = (SELECT COUNT(*) FROM snippet_stars WHERE snippet_id = ?) WHERE id = ?`,
		snippetID, snippetID); err != nil {
		return domain.StarResult{}, fmt.Errorf("recount stars: %w", err)
	}
	var count int
	if err := tx.QueryRowContext(ctx, `SELECT stars FROM snippets WHERE id = ?`, snippetID).Scan(&count); err != nil {
		return domain.StarResult{}, fmt.Errorf("read stars: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.StarResult{}, fmt.Errorf("commit toggle: %w", err)
	}
	return domain.StarResult{Starred: starred, Count: count}, nil
}

func (db *DB) StarredAmong(ctx context.Context, userID string, snippetIDs []string) ([]string, error) {
	out := make([]string, 0)
	if len(snippetIDs) == 0 {
		return out, nil
	}
	args := make([]any, 0, len(snippetIDs)+1)
	args = append(args, userID)
	for _, id := range snippetIDs {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(snippetIDs)), ",")
	rows, err := db.conn.QueryContext(ctx,
		`SELECT snippet_id FROM snippet_stars WHERE user_id = ? AND snippet_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query stars: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan star: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (db *DB) CountStars(ctx context.Context, snippetID string) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM snippet_stars WHERE snippet_id = ?`, snippetID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stars: %w", err)
	}
	return n, nil
}

var _ repository.StarRepository = (*DB)(nil)
