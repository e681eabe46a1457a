// Package ratelimit implements the dual fixed-window limiter on the
// resolution path: one window per alias, one per client address. A window
// starts at the first increment of its key and resets when the key expires;
// windows for different keys are independent.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"shorturl-go/internal/kvstore"
)

// Scope names which window rejected the request. Callers surface both
// scopes identically; the distinction is for logs only.
type Scope string

const (
	ScopeAlias  Scope = "alias"
	ScopeClient Scope = "client"
)

const (
	aliasKeyPrefix  = "rate:"
	clientKeyPrefix = "iprate:"

	aliasLimit  = 100
	clientLimit = 200

	window = 60 * time.Second
)

// Error is returned when a window is over its limit.
type Error struct {
	Scope Scope
}

func (e *Error) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s scope", e.Scope)
}

// Limiter evaluates both windows against the counter store.
type Limiter struct {
	store kvstore.Store
}

func NewLimiter(store kvstore.Store) *Limiter {
	return &Limiter{store: store}
}

// Allow increments both windows for the request and fails on the first one
// over its limit. The alias window is checked first; a rejected alias check
// does not charge the client window. Counter-store failures are returned
// as-is and must be treated as upstream errors, not as an allow.
func (l *Limiter) Allow(ctx context.Context, alias, clientAddr string) error {
	if err := l.hit(ctx, aliasKeyPrefix+alias, aliasLimit, ScopeAlias); err != nil {
		return err
	}
	return l.hit(ctx, clientKeyPrefix+clientAddr, clientLimit, ScopeClient)
}

func (l *Limiter) hit(ctx context.Context, key string, limit int64, scope Scope) error {
	count, err := l.store.Incr(ctx, key)
	if err != nil {
		return fmt.Errorf("rate counter %s: %w", scope, err)
	}
	// The first increment opens the window; the key then expires on its
	// own and the next increment starts a fresh one.
	if count == 1 {
		if err := l.store.Expire(ctx, key, window); err != nil {
			return fmt.Errorf("rate window %s: %w", scope, err)
		}
	}
	if count > limit {
		return &Error{Scope: scope}
	}
	return nil
}
