// Package fake provides in-memory fakes for repository interfaces for testing.
package fake

import (
	"context"
	"sync"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/repository"
	"github.com/Devesh36/CodeBits/internal/search"
)

type starKey struct{ snippetID, userID string }

// Store is an in-memory implementation of the snippet, star and profile repositories.
// A single mutex guards all state so a toggle updates membership and count together.
type Store struct {
	mu        sync.Mutex
	byID      map[string]domain.Snippet
	stars     map[starKey]struct{}
	profiles  map[string]domain.Profile
	insertErr error
}

// Option configures the fake store.
type Option func(*Store)

// WithItems seeds the store with the provided snippets (by ID).
func WithItems(items ...domain.Snippet) Option {
	return func(r *Store) {
		for _, s := range items {
			r.byID[s.ID] = clone(s)
		}
	}
}

// WithInsertError makes every Insert fail with err after validation.
func WithInsertError(err error) Option { return func(r *Store) { r.insertErr = err } }

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	r := &Store{
		byID:     make(map[string]domain.Snippet),
		stars:    make(map[starKey]struct{}),
		profiles: make(map[string]domain.Profile),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Store) Insert(_ context.Context, s domain.Snippet) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, exists := r.byID[s.ID]; exists {
		return repository.ErrDuplicateID
	}
	s.Stars = 0
	r.byID[s.ID] = clone(s)
	return nil
}

func (r *Store) FindByID(_ context.Context, id string) (domain.Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		return clone(s), nil
	}
	return domain.Snippet{}, repository.ErrNotFound
}

func (r *Store) ListByOwner(_ context.Context, ownerID string) ([]domain.Snippet, error) {
	r.mu.Lock()
	items := make([]domain.Snippet, 0)
	for _, s := range r.byID {
		if s.OwnerID == ownerID {
			items = append(items, clone(s))
		}
	}
	r.mu.Unlock()
	repository.SortSnippets(items, domain.OrderRecent)
	return items, nil
}

func (r *Store) ListPublic(_ context.Context, opts repository.ListOptions) ([]domain.Snippet, error) {
	opts = opts.Normalized()
	r.mu.Lock()
	items := make([]domain.Snippet, 0)
	for _, s := range r.byID {
		if s.Public && search.Matches(s, opts.Query) {
			items = append(items, clone(s))
		}
	}
	r.mu.Unlock()
	repository.SortSnippets(items, opts.Order)
	if len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items, nil
}

func (r *Store) SetVisibility(_ context.Context, id string, public bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Public = public
	r.byID[id] = s
	return nil
}

func (r *Store) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	r.deleteLocked(id)
	return nil
}

// DeleteByID removes a snippet without reporting whether it existed.
func (r *Store) DeleteByID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteLocked(id)
}

func (r *Store) deleteLocked(id string) {
	delete(r.byID, id)
	for k := range r.stars {
		if k.snippetID == id {
			delete(r.stars, k)
		}
	}
}

func (r *Store) Toggle(_ context.Context, snippetID, userID string) (domain.StarResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[snippetID]
	if !ok {
		return domain.StarResult{}, repository.ErrNotFound
	}
	k := starKey{snippetID: snippetID, userID: userID}
	_, starred := r.stars[k]
	if starred {
		delete(r.stars, k)
	} else {
		r.stars[k] = struct{}{}
	}
	s.Stars = r.countLocked(snippetID)
	r.byID[snippetID] = s
	return domain.StarResult{Starred: !starred, Count: s.Stars}, nil
}

func (r *Store) StarredAmong(_ context.Context, userID string, snippetIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0)
	seen := make(map[string]bool, len(snippetIDs))
	for _, id := range snippetIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := r.stars[starKey{snippetID: id, userID: userID}]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *Store) CountStars(_ context.Context, snippetID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countLocked(snippetID), nil
}

func (r *Store) countLocked(snippetID string) int {
	n := 0
	for k := range r.stars {
		if k.snippetID == snippetID {
			n++
		}
	}
	return n
}

func (r *Store) FindProfile(_ context.Context, userID string) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[userID]; ok {
		return p, nil
	}
	return domain.Profile{}, repository.ErrNotFound
}

func (r *Store) UpsertProfile(_ context.Context, p domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.profiles[p.UserID]; ok && p.Tier == "" {
		p.Tier = existing.Tier
	}
	if p.Tier == "" {
		p.Tier = domain.TierFree
	}
	r.profiles[p.UserID] = p
	return nil
}

func clone(s domain.Snippet) domain.Snippet {
	if s.Tags != nil {
		s.Tags = append([]string(nil), s.Tags...)
	} else {
		s.Tags = []string{}
	}
	if s.Summary != nil {
		v := *s.Summary
		s.Summary = &v
	}
	return s
}

var (
	_ repository.SnippetRepository = (*Store)(nil)
	_ repository.StarRepository    = (*Store)(nil)
	_ repository.ProfileRepository = (*Store)(nil)
)
