// Package cached provides a caching wrapper over a primary repository using Redis.
package cached

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Devesh36/CodeBits/internal/domain"
	"github.com/Devesh36/CodeBits/internal/repository"
	"github.com/Devesh36/CodeBits/internal/search"
	"github.com/Devesh36/CodeBits/pkg/logger"
)

// keyGeneration is bumped on every write. Entries are keyed by the generation read before the
// primary was queried, so a fill that races a write lands under a key no reader uses again.
const keyGeneration = "snippets:gen"

// key helpers
func keySnippet(gen int64, id string) string { return fmt.Sprintf("snippet:g%d:%s", gen, id) }
func keyList(gen int64, opts repository.ListOptions) string {
	return fmt.Sprintf("snippets:g%d:o:%s:l%d:q:%s", gen, opts.Order, opts.Limit, search.Normalize(opts.Query))
}

// SnippetRepository is a cache-aside repository combining Redis with a primary store.
// Single snippets and public listings are cached; owner listings always hit the primary.
type SnippetRepository struct {
	primary repository.SnippetRepository
	redis   *redis.Client
	ttl     time.Duration
}

// NewSnippetRepository creates a new cached repository.
func NewSnippetRepository(primary repository.SnippetRepository, redis *redis.Client, ttl time.Duration) *SnippetRepository {
	return &SnippetRepository{primary: primary, redis: redis, ttl: ttl}
}

// Insert writes through to primary and invalidates cached listings.
func (r *SnippetRepository) Insert(ctx context.Context, s domain.Snippet) error {
	if err := r.primary.Insert(ctx, s); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// FindByID attempts Redis then falls back to primary.
func (r *SnippetRepository) FindByID(ctx context.Context, id string) (domain.Snippet, error) {
	gen, cacheable := r.generation(ctx)
	var s domain.Snippet
	if cacheable && r.get(ctx, keySnippet(gen, id), &s) {
		return s, nil
	}
	s, err := r.primary.FindByID(ctx, id)
	if err != nil {
		return domain.Snippet{}, err
	}
	if cacheable {
		r.set(ctx, keySnippet(gen, id), s)
	}
	return s, nil
}

func (r *SnippetRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Snippet, error) {
	return r.primary.ListByOwner(ctx, ownerID)
}

// ListPublic caches results keyed by order, limit and normalized query.
func (r *SnippetRepository) ListPublic(ctx context.Context, opts repository.ListOptions) ([]domain.Snippet, error) {
	opts = opts.Normalized()
	gen, cacheable := r.generation(ctx)
	k := keyList(gen, opts)
	var items []domain.Snippet
	if cacheable && r.get(ctx, k, &items) {
		return items, nil
	}
	items, err := r.primary.ListPublic(ctx, opts)
	if err != nil {
		return nil, err
	}
	if cacheable {
		r.set(ctx, k, items)
	}
	return items, nil
}

func (r *SnippetRepository) SetVisibility(ctx context.Context, id string, public bool) error {
	if err := r.primary.SetVisibility(ctx, id, public); err != nil {
		return err
	}
	r.Evict(ctx, id)
	return nil
}

func (r *SnippetRepository) Delete(ctx context.Context, id string) error {
	if err := r.primary.Delete(ctx, id); err != nil {
		return err
	}
	r.Evict(ctx, id)
	return nil
}

// Evict retires the cached snippet and every cached listing. Failures are logged, not returned.
func (r *SnippetRepository) Evict(ctx context.Context, id string) {
	logger.WithField(ctx, "snippet_id", id).Debug("cache evict")
	r.invalidate(ctx)
}

// generation returns the current cache generation. When Redis cannot answer, the caller
// bypasses the cache for this read.
func (r *SnippetRepository) generation(ctx context.Context) (int64, bool) {
	gen, err := r.redis.Get(ctx, keyGeneration).Int64()
	switch {
	case err == nil:
		return gen, true
	case errors.Is(err, redis.Nil):
		return 0, true
	}
	logger.Debug(ctx, "cache generation: %v", err)
	return 0, false
}

func (r *SnippetRepository) get(ctx context.Context, key string, dst any) bool {
	val, err := r.redis.Get(ctx, key).Result()
	if err != nil || val == "" {
		return false
	}
	return json.Unmarshal([]byte(val), dst) == nil
}

func (r *SnippetRepository) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, key, data, r.ttl).Err(); err != nil {
		logger.Debug(ctx, "cache set %s: %v", key, err)
	}
}

// invalidate moves every reader to a fresh generation. Old entries expire with their TTL.
func (r *SnippetRepository) invalidate(ctx context.Context) {
	if err := r.redis.Incr(ctx, keyGeneration).Err(); err != nil {
		logger.Warn(ctx, "cache invalidate: %v", err)
	}
}

var _ repository.SnippetRepository = (*SnippetRepository)(nil)
