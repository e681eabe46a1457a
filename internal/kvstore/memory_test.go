package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetExGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "url:abc")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.SetEx(ctx, "url:abc", "https://example.com", time.Hour))
	val, err := s.Get(ctx, "url:abc")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", val)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	now := time.Now()
	s.SetClock(func() time.Time { return now })

	require.NoError(t, s.SetEx(ctx, "k", "v", time.Minute))

	now = now.Add(59 * time.Second)
	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStoreIncr(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for want := int64(1); want <= 3; want++ {
		n, err := s.Incr(ctx, "rate:promo")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	// A fresh key after expiry counts from zero again.
	now := time.Now()
	s.SetClock(func() time.Time { return now })
	require.NoError(t, s.Expire(ctx, "rate:promo", time.Minute))
	now = now.Add(61 * time.Second)

	n, err := s.Incr(ctx, "rate:promo")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryStoreDel(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.SetEx(ctx, "k", "v", time.Hour))
	require.NoError(t, s.Del(ctx, "k"))
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	assert.NoError(t, s.Del(ctx, "absent"))
}
