// Package service contains business logic for the application.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/enrichment"
	"github.com/Devesh36/CodeBits/internal/repository"
	"github.com/Devesh36/CodeBits/internal/search"
	"github.com/Devesh36/CodeBits/internal/share"
	"github.com/Devesh36/CodeBits/pkg/logger"
)

// DefaultEnrichmentTimeout bounds a single enrichment call.
const DefaultEnrichmentTimeout = 8 * time.Second

// Service orchestrates the snippet store, star ledger and enrichment for the catalog.
// Every operation takes the acting user explicitly; an empty actor is anonymous.
type Service struct {
	snippets      repository.SnippetRepository
	stars         repository.StarRepository
	enricher      enrichment.Enricher
	clock         Clock
	newID         func() string
	enrichTimeout time.Duration
	baseURL       string
}

// Option configures optional Service behavior.
type Option func(*Service)

// WithIDGenerator overrides how snippet IDs are generated.
func WithIDGenerator(f func() string) Option { return func(s *Service) { s.newID = f } }

// WithEnrichmentTimeout bounds each enrichment call. Non-positive values keep the default.
func WithEnrichmentTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.enrichTimeout = d
		}
	}
}

// WithPublicBaseURL sets the origin used in share links.
func WithPublicBaseURL(u string) Option { return func(s *Service) { s.baseURL = u } }

// NewService creates a new Service. A nil enricher disables enrichment.
func NewService(snippets repository.SnippetRepository, stars repository.StarRepository, enricher enrichment.Enricher, clock Clock) *Service {
	return NewServiceWithOptions(snippets, stars, enricher, clock)
}

// NewServiceWithOptions creates a new Service with options applied.
func NewServiceWithOptions(snippets repository.SnippetRepository, stars repository.StarRepository, enricher enrichment.Enricher, clock Clock, opts ...Option) *Service {
	if enricher == nil {
		enricher = enrichment.Disabled{}
	}
	if clock == nil {
		clock = RealClock{}
	}
	s := &Service{
		snippets:      snippets,
		stars:         stars,
		enricher:      enricher,
		clock:         clock,
		newID:         func() string { return xid.New().String() },
		enrichTimeout: DefaultEnrichmentTimeout,
		baseURL:       "http://localhost:8080",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput is the user-supplied part of a new snippet.
type CreateInput struct {
	Title    string
	Body     string
	Language string
	Public   bool
}

// CreateSnippet validates, enriches (best-effort) and stores a new snippet owned by actor.
// Enrichment failure falls back to no tags and no summary. If ctx is cancelled while
// enriching, nothing is stored.
func (s *Service) CreateSnippet(ctx context.Context, actor string, in CreateInput) (domain.Snippet, error) {
	if actor == "" {
		return domain.Snippet{}, domain.ErrNotAuthenticated
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Language = strings.TrimSpace(in.Language)
	if err := domain.ValidateContent(in.Title, in.Body, in.Language); err != nil {
		return domain.Snippet{}, err
	}

	tags, summary := s.enrich(ctx, in.Body, in.Language)
	if err := ctx.Err(); err != nil {
		return domain.Snippet{}, err
	}

	snippet := domain.Snippet{
		ID:        s.newID(),
		OwnerID:   actor,
		Title:     in.Title,
		Body:      in.Body,
		Language:  in.Language,
		Tags:      tags,
		Summary:   summary,
		Public:    in.Public,
		CreatedAt: s.clock.Now(),
	}
	if err := s.snippets.Insert(ctx, snippet); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return domain.Snippet{}, err
		}
		return domain.Snippet{}, &domain.PersistenceError{Op: "create snippet", Err: err}
	}
	logger.With(ctx, map[string]any{"snippet_id": snippet.ID, "public": snippet.Public, "tags": len(tags)}).Info("snippet created")
	return snippet, nil
}

func (s *Service) enrich(ctx context.Context, body, language string) ([]string, *string) {
	ectx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()
	res, err := s.enricher.Enrich(ectx, enrichment.Request{Code: body, Language: language})
	if err != nil {
		logger.Warn(ctx, "enrichment failed, storing snippet without metadata: %v", err)
		return []string{}, nil
	}
	tags := make([]string, 0, len(res.Tags))
	for _, t := range res.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	var summary *string
	if v := strings.TrimSpace(res.Summary); v != "" {
		summary = &v
	}
	return tags, summary
}

// Analyze runs enrichment directly, without storing anything.
func (s *Service) Analyze(ctx context.Context, body, language string) (enrichment.Result, error) {
	ectx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()
	res, err := s.enricher.Enrich(ectx, enrichment.Request{Code: body, Language: language})
	if err != nil {
		logger.Warn(ctx, "analyze failed: %v", err)
		return enrichment.Result{Tags: []string{}}, errors.Join(domain.ErrEnrichmentUnavailable, err)
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	return res, nil
}

// GetSnippet returns the snippet if actor may see it. Private snippets of other users
// are reported as not found.
func (s *Service) GetSnippet(ctx context.Context, actor, id string) (domain.Snippet, error) {
	snippet, err := s.snippets.FindByID(ctx, id)
	if err != nil {
		return domain.Snippet{}, translate("find snippet", err)
	}
	if !snippet.VisibleTo(actor) {
		return domain.Snippet{}, domain.ErrNotFound
	}
	return snippet, nil
}

// ListOwned returns all of actor's snippets, public and private, newest first.
func (s *Service) ListOwned(ctx context.Context, actor string) ([]domain.Snippet, error) {
	if actor == "" {
		return nil, domain.ErrNotAuthenticated
	}
	items, err := s.snippets.ListByOwner(ctx, actor)
	if err != nil {
		return nil, translate("list owned snippets", err)
	}
	return items, nil
}

// PublicQuery selects a discovery listing.
type PublicQuery struct {
	Query string
	Order domain.Order
	Limit int
}

// ListPublic returns public snippets in the requested order, narrowed by Query.
func (s *Service) ListPublic(ctx context.Context, q PublicQuery) ([]domain.Snippet, error) {
	opts := repository.ListOptions{Limit: q.Limit, Order: q.Order, Query: q.Query}.Normalized()
	items, err := s.snippets.ListPublic(ctx, opts)
	if err != nil {
		return nil, translate("list public snippets", err)
	}
	return search.Filter(items, opts.Query), nil
}

// Search returns public snippets matching q, newest first.
func (s *Service) Search(ctx context.Context, q string, limit int) ([]domain.Snippet, error) {
	return s.ListPublic(ctx, PublicQuery{Query: q, Order: domain.OrderRecent, Limit: limit})
}

// DeleteSnippet removes actor's snippet and its stars.
func (s *Service) DeleteSnippet(ctx context.Context, actor, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.snippets.Delete(ctx, id); err != nil {
		return translate("delete snippet", err)
	}
	logger.WithField(ctx, "snippet_id", id).Info("snippet deleted")
	return nil
}

// SetVisibility changes whether actor's snippet is public and returns the updated snippet.
func (s *Service) SetVisibility(ctx context.Context, actor, id string, public bool) (domain.Snippet, error) {
	snippet, err := s.owned(ctx, actor, id)
	if err != nil {
		return domain.Snippet{}, err
	}
	if err := s.snippets.SetVisibility(ctx, id, public); err != nil {
		return domain.Snippet{}, translate("set visibility", err)
	}
	snippet.Public = public
	return snippet, nil
}

// owned loads id for a mutation by actor. A private snippet of someone else is not found;
// a public one is not authorized.
func (s *Service) owned(ctx context.Context, actor, id string) (domain.Snippet, error) {
	if actor == "" {
		return domain.Snippet{}, domain.ErrNotAuthenticated
	}
	snippet, err := s.GetSnippet(ctx, actor, id)
	if err != nil {
		return domain.Snippet{}, err
	}
	if snippet.OwnerID != actor {
		return domain.Snippet{}, domain.ErrNotAuthorized
	}
	return snippet, nil
}

// ToggleStar flips actor's star on id and returns the ledger-derived state.
func (s *Service) ToggleStar(ctx context.Context, actor, id string) (domain.StarResult, error) {
	if actor == "" {
		return domain.StarResult{}, domain.ErrNotAuthenticated
	}
	if _, err := s.GetSnippet(ctx, actor, id); err != nil {
		return domain.StarResult{}, err
	}
	res, err := s.stars.Toggle(ctx, id, actor)
	if err != nil {
		return domain.StarResult{}, translate("toggle star", err)
	}
	return res, nil
}

// StarredAmong returns which of ids actor has starred. Anonymous callers get an empty set.
func (s *Service) StarredAmong(ctx context.Context, actor string, ids []string) ([]string, error) {
	if actor == "" || len(ids) == 0 {
		return []string{}, nil
	}
	clean := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, dup := seen[id]; id == "" || dup {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}
	if len(clean) == 0 {
		return []string{}, nil
	}
	out, err := s.stars.StarredAmong(ctx, actor, clean)
	if err != nil {
		return nil, translate("lookup stars", err)
	}
	return out, nil
}

// ShareLink builds the share URL of a snippet visible to actor.
func (s *Service) ShareLink(ctx context.Context, actor, id string, target share.Target) (string, error) {
	snippet, err := s.GetSnippet(ctx, actor, id)
	if err != nil {
		return "", err
	}
	return share.Link(target, s.baseURL, snippet)
}

// translate maps store errors onto the domain taxonomy.
func translate(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return domain.ErrNotFound
	case errors.Is(err, domain.ErrValidation):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return &domain.PersistenceError{Op: op, Err: err}
}
