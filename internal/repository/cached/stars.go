package cached

import (
	"context"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/repository"
)

// StarRepository passes through to the primary ledger and evicts stale snippet entries after a toggle.
type StarRepository struct {
	primary  repository.StarRepository
	snippets *SnippetRepository
}

// NewStarRepository wraps primary so that toggles keep the snippet cache coherent.
func NewStarRepository(primary repository.StarRepository, snippets *SnippetRepository) *StarRepository {
	return &StarRepository{primary: primary, snippets: snippets}
}

func (r *StarRepository) Toggle(ctx context.Context, snippetID, userID string) (domain.StarResult, error) {
	res, err := r.primary.Toggle(ctx, snippetID, userID)
	if err != nil {
		return res, err
	}
	r.snippets.Evict(ctx, snippetID)
	return res, nil
}

func (r *StarRepository) StarredAmong(ctx context.Context, userID string, snippetIDs []string) ([]string, error) {
	return r.primary.StarredAmong(ctx, userID, snippetIDs)
}

func (r *StarRepository) CountStars(ctx context.Context, snippetID string) (int, error) {
	return r.primary.CountStars(ctx, snippetID)
}

var _ repository.StarRepository = (*StarRepository)(nil)
