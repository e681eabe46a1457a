// Package cache holds the read-through URL cache in front of the link
// registry. Entries are immutable once written (links never change), so
// there is no invalidation path; staleness is bounded by the TTL alone.
//
// Concurrent cold misses for the same code are not coalesced: both callers
// hit the registry and both populate the cache with identical content.
package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"shorturl-go/internal/kvstore"
)

const (
	keyPrefix  = "url:"
	defaultTTL = time.Hour
)

// ErrMiss reports that the code is not cached.
var ErrMiss = errors.New("cache: miss")

// URLCache maps short codes to original URLs with a fixed TTL.
type URLCache struct {
	store kvstore.Store
	ttl   time.Duration
	log   *zap.Logger
}

func NewURLCache(store kvstore.Store, log *zap.Logger) *URLCache {
	return &URLCache{store: store, ttl: defaultTTL, log: log}
}

// Get returns the cached original URL for code. A counter-store failure is
// reported as a miss so the caller falls back to the durable registry; it
// must never be mistaken for "code does not exist".
func (c *URLCache) Get(ctx context.Context, code string) (string, error) {
	val, err := c.store.Get(ctx, keyPrefix+code)
	if errors.Is(err, kvstore.ErrMiss) {
		return "", ErrMiss
	}
	if err != nil {
		c.log.Warn("url cache unavailable, falling back to registry",
			zap.String("short_code", code), zap.Error(err))
		return "", ErrMiss
	}
	return val, nil
}

// Put caches the original URL under code, overwriting unconditionally.
// Errors are returned so the resolve path can log them; a failed put only
// costs the next request a registry read.
func (c *URLCache) Put(ctx context.Context, code, originalURL string) error {
	return c.store.SetEx(ctx, keyPrefix+code, originalURL, c.ttl)
}
