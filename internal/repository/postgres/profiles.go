package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/repository"
)

// ProfileRepository implements repository.ProfileRepository using Postgres.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new Postgres-backed profile repository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) FindProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var (
		p    domain.Profile
		tier string
	)
	err := r.pool.QueryRow(ctx, `SELECT user_id, full_name, tier FROM profiles WHERE user_id = $1`, userID).Scan(&p.UserID, &p.DisplayName, &tier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, repository.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("query profile: %w", err)
	}
	p.Tier = domain.Tier(tier)
	return p, nil
}

// UpsertProfile writes the display name; an empty tier keeps the stored one.
func (r *ProfileRepository) UpsertProfile(ctx context.Context, p domain.Profile) error {
	const q = `
INSERT INTO profiles (user_id, full_name, tier)
VALUES ($1, $2, COALESCE(NULLIF($3::text, ''), 'free'))
ON CONFLICT (user_id) DO UPDATE
SET full_name = EXCLUDED.full_name,
    tier = CASE WHEN $3::text = '' THEN profiles.tier ELSE EXCLUDED.tier END
`
	if _, err := r.pool.Exec(ctx, q, p.UserID, p.DisplayName, string(p.Tier)); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
