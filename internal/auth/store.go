package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"shorturl-go/internal/kvstore"
)

// ErrNoToken reports that no refresh token is stored for the user.
var ErrNoToken = errors.New("auth: no refresh token stored")

// TokenStore keeps the currently valid refresh token per user. One token
// per user: storing a new one invalidates the previous one.
type TokenStore interface {
	Save(ctx context.Context, username, token string, ttl time.Duration) error
	Get(ctx context.Context, username string) (string, error)
	Delete(ctx context.Context, username string) error
}

// MemoryTokenStore is a process-local TokenStore for tests and single-node
// runs. TTLs are honored lazily on read.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]storedToken
}

type storedToken struct {
	token    string
	expireAt time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]storedToken)}
}

func (s *MemoryTokenStore) Save(_ context.Context, username, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[username] = storedToken{token: token, expireAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryTokenStore) Get(_ context.Context, username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.tokens[username]
	if !ok || time.Now().After(st.expireAt) {
		delete(s.tokens, username)
		return "", ErrNoToken
	}
	return st.token, nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, username)
	return nil
}

// KVTokenStore keeps refresh tokens in the shared key-value store, so a
// restart (or another instance) sees the same sessions.
type KVTokenStore struct {
	store kvstore.Store
}

const refreshKeyPrefix = "refresh:"

func NewKVTokenStore(store kvstore.Store) *KVTokenStore {
	return &KVTokenStore{store: store}
}

func (s *KVTokenStore) Save(ctx context.Context, username, token string, ttl time.Duration) error {
	return s.store.SetEx(ctx, refreshKeyPrefix+username, token, ttl)
}

func (s *KVTokenStore) Get(ctx context.Context, username string) (string, error) {
	token, err := s.store.Get(ctx, refreshKeyPrefix+username)
	if errors.Is(err, kvstore.ErrMiss) {
		return "", ErrNoToken
	}
	return token, err
}

func (s *KVTokenStore) Delete(ctx context.Context, username string) error {
	return s.store.Del(ctx, refreshKeyPrefix+username)
}
