// Package kvstore adapts the external key-value service the URL cache and
// the rate counters share. The store must provide atomic increments and
// per-key expiry; everything else in this package is a thin wrapper.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrMiss reports an absent (or expired) key.
var ErrMiss = errors.New("kvstore: key not found")

// Store is the contract against the cache/counter collaborator.
type Store interface {
	// Get returns the string value for key, or ErrMiss.
	Get(ctx context.Context, key string) (string, error)
	// SetEx stores value under key with the given TTL, overwriting any
	// previous value.
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	// Incr atomically increments the integer at key and returns the
	// post-increment value. A missing key counts from zero.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire sets the TTL on an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// Del removes key. Removing an absent key is not an error.
	Del(ctx context.Context, key string) error
}
