package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/repository"
)

// ProfileService reads and edits the caller's profile.
type ProfileService struct {
	profiles repository.ProfileRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// GetProfile returns actor's profile. A user without a stored profile gets a free-tier default.
func (p *ProfileService) GetProfile(ctx context.Context, actor string) (domain.Profile, error) {
	if actor == "" {
		return domain.Profile{}, domain.ErrNotAuthenticated
	}
	prof, err := p.profiles.FindProfile(ctx, actor)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Profile{UserID: actor, Tier: domain.TierFree}, nil
	}
	if err != nil {
		return domain.Profile{}, translate("find profile", err)
	}
	return prof, nil
}

// UpdateDisplayName sets actor's display name, creating the profile if needed.
func (p *ProfileService) UpdateDisplayName(ctx context.Context, actor, name string) (domain.Profile, error) {
	if actor == "" {
		return domain.Profile{}, domain.ErrNotAuthenticated
	}
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > domain.MaxDisplayNameLength {
		return domain.Profile{}, &domain.ValidationError{Field: "full_name", Message: "Full name too long"}
	}
	if err := p.profiles.UpsertProfile(ctx, domain.Profile{UserID: actor, DisplayName: name}); err != nil {
		return domain.Profile{}, translate("update profile", err)
	}
	return p.GetProfile(ctx, actor)
}
