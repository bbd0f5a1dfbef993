// Package repository defines the storage contracts for snippets, stars and profiles.
package repository

import (
	"context"
	"errors"

	"github.com/Devesh36/CodeBits/internal/domain"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned by Insert when a snippet with the same ID is already stored.
	ErrDuplicateID = errors.New("duplicate snippet id")
)

// Listing caps applied by every backend.
const (
	DefaultPublicLimit = 50
	MaxPublicLimit     = 100
)

// ListOptions configures a public listing.
type ListOptions struct {
	Limit int
	Order domain.Order
	// Query is the search needle applied server-side; blank means no filter.
	Query string
}

// Normalized returns opts with limit and order clamped to supported values.
func (o ListOptions) Normalized() ListOptions {
	if o.Limit < 1 {
		o.Limit = DefaultPublicLimit
	}
	if o.Limit > MaxPublicLimit {
		o.Limit = MaxPublicLimit
	}
	if o.Order != domain.OrderRecent {
		o.Order = domain.OrderStars
	}
	return o
}

// SnippetRepository defines methods for snippet data access.
type SnippetRepository interface {
	// Insert validates and stores a new snippet; validation failures never reach storage.
	// An ID that is already taken yields ErrDuplicateID and leaves the stored snippet untouched.
	Insert(ctx context.Context, s domain.Snippet) error
	FindByID(ctx context.Context, id string) (domain.Snippet, error)
	// ListByOwner returns all snippets of owner, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Snippet, error)
	// ListPublic returns public snippets only, capped by opts.Limit.
	ListPublic(ctx context.Context, opts ListOptions) ([]domain.Snippet, error)
	SetVisibility(ctx context.Context, id string, public bool) error
	// Delete removes the snippet and its stars.
	Delete(ctx context.Context, id string) error
}

// StarRepository is the ledger of (snippet, user) stars and the source of truth for counts.
type StarRepository interface {
	// Toggle flips membership of (snippetID, userID) and returns the ledger-derived count.
	Toggle(ctx context.Context, snippetID, userID string) (domain.StarResult, error)
	// StarredAmong returns the subset of snippetIDs that userID has starred.
	StarredAmong(ctx context.Context, userID string, snippetIDs []string) ([]string, error)
	CountStars(ctx context.Context, snippetID string) (int, error)
}

// ProfileRepository stores minimal user profiles.
type ProfileRepository interface {
	FindProfile(ctx context.Context, userID string) (domain.Profile, error)
	UpsertProfile(ctx context.Context, p domain.Profile) error
}

// SortSnippets orders snippets in place the way ListPublic does for order.
func SortSnippets(items []domain.Snippet, order domain.Order) {
	sortSnippets(items, order)
}
