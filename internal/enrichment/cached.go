package enrichment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedEnricher memoizes successful results of the wrapped Enricher by content hash.
// Failures are never cached, so a later call with the same content reaches the provider again.
type CachedEnricher struct {
	next  Enricher
	cache *lru.Cache[string, Result]
}

// NewCachedEnricher wraps next with an LRU of the given size.
func NewCachedEnricher(next Enricher, size int) (*CachedEnricher, error) {
	if size <= 0 {
		size = 512
	}
	cache, err := lru.New[string, Result](size)
	if err != nil {
		return nil, fmt.Errorf("enrichment cache: %w", err)
	}
	return &CachedEnricher{next: next, cache: cache}, nil
}

func (c *CachedEnricher) Enrich(ctx context.Context, req Request) (Result, error) {
	key := cacheKey(req)
	if res, ok := c.cache.Get(key); ok {
		return copyResult(res), nil
	}
	res, err := c.next.Enrich(ctx, req)
	if err != nil {
		return Result{}, err
	}
	c.cache.Add(key, copyResult(res))
	return res, nil
}

// Len reports the number of cached results.
func (c *CachedEnricher) Len() int { return c.cache.Len() }

func cacheKey(req Request) string {
	sum := sha256.Sum256([]byte(req.Language + "\x00" + req.Code))
	return hex.EncodeToString(sum[:])
}

func copyResult(r Result) Result {
	r.Tags = append([]string(nil), r.Tags...)
	return r
}
