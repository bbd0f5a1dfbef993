package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/repository"
	"github.com/Devesh36/CodeBits/pkg/logger"
)

// StarRepository implements repository.StarRepository on the snippet_stars table.
type StarRepository struct {
	pool *pgxpool.Pool
}

// NewStarRepository creates a new Postgres-backed star ledger.
func NewStarRepository(pool *pgxpool.Pool) *StarRepository {
	return &StarRepository{pool: pool}
}

// Toggle flips the (snippet, user) star inside one transaction. The snippet row lock
// serializes concurrent toggles on the same snippet so the stored count always equals
// the ledger count at commit.
func (r *StarRepository) Toggle(ctx context.Context, snippetID, userID string) (domain.StarResult, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.StarResult{}, fmt.Errorf("begin toggle: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked string
	if err := tx.QueryRow(ctx, `SELECT id FROM snippets WHERE id = $1 FOR UPDATE`, snippetID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StarResult{}, repository.ErrNotFound
		}
		return domain.StarResult{}, fmt.Errorf("lock snippet: %w", err)
	}

	ct, err := tx.Exec(ctx, `DELETE FROM snippet_stars WHERE snippet_id = $1 AND user_id = $2`, snippetID, userID)
	if err != nil {
		return domain.StarResult{}, fmt.Errorf("remove star: %w", err)
	}
	starred := ct.RowsAffected() == 0
	if starred {
		if _, err := tx.Exec(ctx, `INSERT INTO snippet_stars (snippet_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, snippetID, userID); err != nil {
			return domain.StarResult{}, fmt.Errorf("add star: %w", err)
		}
	}

	var count int
	const recount = `
UPDATE snippets SET stars = (SELECT COUNT(*) FROM snippet_stars WHERE snippet_id = $1)
WHERE id = $1
RETURNING stars
`
	if err := tx.QueryRow(ctx, recount, snippetID).Scan(&count); err != nil {
		return domain.StarResult{}, fmt.Errorf("recount stars: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.StarResult{}, fmt.Errorf("commit toggle: %w", err)
	}
	logger.WithField(ctx, "snippet_id", snippetID).Debugf("star toggled: starred=%t count=%d", starred, count)
	return domain.StarResult{Starred: starred, Count: count}, nil
}

// StarredAmong returns the subset of snippetIDs that userID has starred.
func (r *StarRepository) StarredAmong(ctx context.Context, userID string, snippetIDs []string) ([]string, error) {
	out := make([]string, 0)
	if len(snippetIDs) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT snippet_id FROM snippet_stars WHERE user_id = $1 AND snippet_id = ANY($2)`, userID, snippetIDs)
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

// CountStars counts ledger entries for a snippet.
func (r *StarRepository) CountStars(ctx context.Context, snippetID string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM snippet_stars WHERE snippet_id = $1`, snippetID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stars: %w", err)
	}
	return n, nil
}

var _ repository.StarRepository = (*StarRepository)(nil)
