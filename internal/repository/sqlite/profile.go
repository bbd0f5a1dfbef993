package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/repository"
)

func (db *DB) FindProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var (
		p    domain.Profile
		tier string
	)
	err := db.conn.QueryRowContext(ctx, `SELECT user_id, full_name, tier FROM profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.DisplayName, &tier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Profile{}, repository.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("query profile: %w", err)
	}
	p.Tier = domain.Tier(tier)
	return p, nil
}

// UpsertProfile writes the display name; an empty tier keeps the stored one.
func (db *DB) UpsertProfile(ctx context.Context, p domain.Profile) error {
	tier := string(p.Tier)
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO profiles (user_id, full_name, tier) VALUES (?, ?, COALESCE(NULLIF(?, ''), 'free'))
		ON CONFLICT(user_id) DO UPDATE SET
			full_name = excluded.full_name,
			tier = CASE WHEN ? = '' THEN profiles.tier ELSE excluded.tier END`,
		p.UserID, p.DisplayName, tier, tier)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

var _ repository.ProfileRepository = (*DB)(nil)
