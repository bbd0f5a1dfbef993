package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/repository"
	"github.com/Devesh36/CodeBits/internal/search"
)

const snippetColumns = `id, owner_id, title, code, language, tags, summary, is_public, stars, created_at`

// SnippetRepository implements repository.SnippetRepository using Postgres.
type SnippetRepository struct {
	pool *pgxpool.Pool
}

// NewSnippetRepository creates a new Postgres-backed snippet repository.
func NewSnippetRepository(pool *pgxpool.Pool) *SnippetRepository {
	return &SnippetRepository{pool: pool}
}

// Insert adds a new snippet to Postgres. An existing ID yields repository.ErrDuplicateID.
func (r *SnippetRepository) Insert(ctx context.Context, s domain.Snippet) error {
	if err := s.Validate(); err != nil {
		return err
	}
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	const q = `
INSERT INTO snippets (id, owner_id, title, code, language, tags, summary, is_public, stars, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9)
ON CONFLICT (id) DO NOTHING
`
	tag, err := r.pool.Exec(ctx, q, s.ID, s.OwnerID, s.Title, s.Body, s.Language, tags, s.Summary, s.Public, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert snippet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insert snippet %s: %w", s.ID, repository.ErrDuplicateID)
	}
	return nil
}

// FindByID retrieves a snippet by its ID from Postgres.
func (r *SnippetRepository) FindByID(ctx context.Context, id string) (domain.Snippet, error) {
	q := `SELECT ` + snippetColumns + ` FROM snippets WHERE id = $1`
	s, err := scanSnippet(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Snippet{}, repository.ErrNotFound
		}
		return domain.Snippet{}, fmt.Errorf("query snippet: %w", err)
	}
	return s, nil
}

// ListByOwner returns every snippet owned by ownerID, newest first.
func (r *SnippetRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Snippet, error) {
	q := `SELECT ` + snippetColumns + ` FROM snippets WHERE owner_id = $1 ORDER BY created_at DESC, id ASC`
	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owner snippets: %w", err)
	}
	return collect(rows)
}

// ListPublic returns public snippets matching opts.Query in the requested order.
func (r *SnippetRepository) ListPublic(ctx context.Context, opts repository.ListOptions) ([]domain.Snippet, error) {
	opts = opts.Normalized()
	order := `created_at DESC, id ASC`
	if opts.Order == domain.OrderStars {
		order = `stars DESC, created_at DESC, id ASC`
	}
	q := `SELECT ` + snippetColumns + ` FROM snippets
WHERE is_public
  AND ($1 = ''
    OR strpos(lower(title), $1) > 0
    OR strpos(lower(language), $1) > 0
    OR strpos(lower(COALESCE(summary, '')), $1) > 0
    OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE strpos(lower(t), $1) > 0))
ORDER BY ` + order + `
LIMIT $2`
	rows, err := r.pool.Query(ctx, q, search.Normalize(opts.Query), opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("list public snippets: %w", err)
	}
	return collect(rows)
}

// SetVisibility flips the public flag of a snippet.
func (r *SnippetRepository) SetVisibility(ctx context.Context, id string, public bool) error {
	ct, err := r.pool.Exec(ctx, `UPDATE snippets SET is_public = $2 WHERE id = $1`, id, public)
	if err != nil {
		return fmt.Errorf("update visibility: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a snippet; its stars go with it through the foreign key cascade.
func (r *SnippetRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM snippets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete snippet: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnippet(row rowScanner) (domain.Snippet, error) {
	var s domain.Snippet
	err := row.Scan(&s.ID, &s.OwnerID, &s.Title, &s.Body, &s.Language, &s.Tags, &s.Summary, &s.Public, &s.Stars, &s.CreatedAt)
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return s, err
}

func collect(rows pgx.Rows) ([]domain.Snippet, error) {
	defer rows.Close()
	res := make([]domain.Snippet, 0)
	for rows.Next() {
		s, err := scanSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snippet: %w", err)
		}
		res = append(res, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return res, nil
}

var _ repository.SnippetRepository = (*SnippetRepository)(nil)
