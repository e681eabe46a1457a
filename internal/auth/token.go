// Package auth issues and verifies the bearer tokens gating the management
// endpoints. The redirect and shorten paths never consult it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid or expired token")
)

const (
	accessTokenTTL  = 60 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// TokenPair is the login/refresh response payload.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// TokenService mints HS256 access/refresh token pairs and validates them.
// The user table is static configuration; the refresh token per user lives
// in the TokenStore.
type TokenService struct {
	secret []byte
	users  map[string]string
	store  TokenStore
}

func NewTokenService(secret string, users map[string]string, store TokenStore) *TokenService {
	return &TokenService{secret: []byte(secret), users: users, store: store}
}

// Login checks the credentials and issues a fresh token pair, replacing any
// previously stored refresh token for the user.
func (s *TokenService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	stored, ok := s.users[username]
	if !ok || stored != password {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, username)
}

// Refresh rotates the token pair. The presented refresh token must both
// verify and match the one on record; anything else is rejected.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	username, err := s.subject(refreshToken)
	if err != nil {
		return nil, err
	}

	current, err := s.store.Get(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("reading refresh token: %w", err)
	}
	if current != refreshToken {
		return nil, ErrInvalidToken
	}

	return s.issue(ctx, username)
}

// Logout drops the stored refresh token. Outstanding access tokens keep
// working until they expire.
func (s *TokenService) Logout(ctx context.Context, username string) error {
	return s.store.Delete(ctx, username)
}

// Authenticate validates a bearer token and returns its subject.
func (s *TokenService) Authenticate(token string) (string, error) {
	return s.subject(token)
}

func (s *TokenService) issue(ctx context.Context, username string) (*TokenPair, error) {
	now := time.Now()

	access, err := s.sign(jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	if err != nil {
		return nil, err
	}

	refresh, err := s.sign(jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(now.Add(refreshTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, username, refresh, refreshTokenTTL); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *TokenService) sign(claims jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) subject(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
