package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/repository"
	"github.com/Devesh36/CodeBits/internal/search"
)

const snippetColumns = `id, owner_id, title, code, language, tags, summary, is_public, stars, created_at`

// Insert validates and stores a snippet. An existing ID yields repository.ErrDuplicateID.
func (db *DB) Insert(ctx context.Context, s domain.Snippet) error {
	if err := s.Validate(); err != nil {
		return err
	}
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO snippets (id, owner_id, title, code, language, tags, summary, is_public, stars, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT(id) DO NOTHING`,
		s.ID, s.OwnerID, s.Title, s.Body, s.Language, string(tagsJSON), s.Summary, s.Public, s.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert snippet: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("insert snippet %s: %w", s.ID, repository.ErrDuplicateID)
	}
	return nil
}

func (db *DB) FindByID(ctx context.Context, id string) (domain.Snippet, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+snippetColumns+` FROM snippets WHERE id = ?`, id)
	s, err := scanSnippet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Snippet{}, repository.ErrNotFound
		}
		return domain.Snippet{}, fmt.Errorf("query snippet: %w", err)
	}
	return s, nil
}

func (db *DB) ListByOwner(ctx context.Context, ownerID string) ([]domain.Snippet, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+snippetColumns+` FROM snippets WHERE owner_id = ? ORDER BY created_at DESC, id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owner snippets: %w", err)
	}
	return collect(rows)
}

// ListPublic filters in Go rather than SQL because SQLite's lower() only folds ASCII.
func (db *DB) ListPublic(ctx context.Context, opts repository.ListOptions) ([]domain.Snippet, error) {
	opts = opts.Normalized()
	order := `created_at DESC, id ASC`
	if opts.Order == domain.OrderStars {
		order = `stars DESC, created_at DESC, id ASC`
	}
	q := `SELECT ` + snippetColumns + ` FROM snippets WHERE is_public = 1 ORDER BY ` + order
	args := []any{}
	if search.IsBlank(opts.Query) {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
	}
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list public snippets: %w", err)
	}
	items, err := collect(rows)
	if err != nil {
		return nil, err
	}
	items = search.Filter(items, opts.Query)
	if len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items, nil
}

func (db *DB) SetVisibility(ctx context.Context, id string, public bool) error {
	res, err := db.conn.ExecContext(ctx, `UPDATE snippets SET is_public = ? WHERE id = ?`, public, id)
	if err != nil {
		return fmt.Errorf("update visibility: %w", err)
	}
	return requireRow(res)
}

func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snippet: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnippet(row rowScanner) (domain.Snippet, error) {
	var (
		s       domain.Snippet
		tagsRaw string
		summary sql.NullString
		created int64
	)
	if err := row.Scan(&s.ID, &s.OwnerID, &s.Title, &s.Body, &s.Language, &tagsRaw, &summary, &s.Public, &s.Stars, &created); err != nil {
		return domain.Snippet{}, err
	}
	s.Tags = []string{}
	if tagsRaw != "" {
		if err := json.Unmarshal([]byte(tagsRaw), &s.Tags); err != nil {
			return domain.Snippet{}, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if summary.Valid {
		v := summary.String
		s.Summary = &v
	}
	s.CreatedAt = time.Unix(0, created).UTC()
	return s, nil
}

func collect(rows *sql.Rows) ([]domain.Snippet, error) {
	defer rows.Close()
	res := make([]domain.Snippet, 0)
	for rows.Next() {
		s, err := scanSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snippet: %w", err)
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

var _ repository.SnippetRepository = (*DB)(nil)
