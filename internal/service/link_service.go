package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shorturl-go/internal/cache"
	"shorturl-go/internal/model"
	"shorturl-go/internal/ratelimit"
	"shorturl-go/internal/repository"
	"shorturl-go/pkg/util"
)

type linkService struct {
	repo    repository.LinkRepository
	cache   *cache.URLCache
	limiter *ratelimit.Limiter
	clicks  *ClickLogger
	appURL  string
	log     *zap.Logger
}

func NewLinkService(repo repository.LinkRepository, urlCache *cache.URLCache,
	limiter *ratelimit.Limiter, clicks *ClickLogger, appURL string, log *zap.Logger) LinkService {
	return &linkService{
		repo:    repo,
		cache:   urlCache,
		limiter: limiter,
		clicks:  clicks,
		appURL:  appURL,
		log:     log,
	}
}

func (s *linkService) CreateShortLink(ctx context.Context, originalURL, customAlias string) (string, error) {
	if !validURL(originalURL) {
		return "", ErrInvalidURL
	}

	if customAlias != "" {
		return s.createWithAlias(ctx, originalURL, customAlias)
	}
	return s.createWithGeneratedCode(ctx, originalURL)
}

// createWithAlias inserts the link under the caller's alias. The pre-check
// gives a clean error for the common case; the unique index on short_code
// closes the window where two requests race past it.
func (s *linkService) createWithAlias(ctx context.Context, originalURL, alias string) (string, error) {
	existing, err := s.repo.FindByShortCode(ctx, alias)
	if err != nil {
		return "", fmt.Errorf("checking alias: %w", err)
	}
	if existing != nil {
		return "", ErrAliasConflict
	}

	link := &model.Link{OriginalURL: originalURL, ShortCode: &alias}
	if err := s.repo.Save(ctx, link); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrAliasConflict
		}
		return "", fmt.Errorf("saving link: %w", err)
	}

	return s.appURL + alias, nil
}

// createWithGeneratedCode runs the two-phase assignment: insert to obtain
// the row id, encode it, update the row with the code. The repository wraps
// both writes in one transaction, so a failure anywhere rolls the row back
// and no link is ever visible without a code.
func (s *linkService) createWithGeneratedCode(ctx context.Context, originalURL string) (string, error) {
	link := &model.Link{OriginalURL: originalURL}
	if err := s.repo.CreateWithGeneratedCode(ctx, link, util.ToBase62); err != nil {
		return "", fmt.Errorf("creating link: %w", err)
	}
	return s.appURL + link.Code(), nil
}

func (s *linkService) ResolveShortLink(ctx context.Context, shortCode, clientAddr, referrer, userAgent string) (string, error) {
	// Both windows run before any cache or registry access; a rejected
	// request produces no click event.
	if err := s.limiter.Allow(ctx, shortCode, clientAddr); err != nil {
		return "", err
	}

	if cached, err := s.cache.Get(ctx, shortCode); err == nil {
		s.clicks.Enqueue(ClickJob{
			ShortCode:  shortCode,
			ClientAddr: clientAddr,
			Referrer:   referrer,
			UserAgent:  userAgent,
		})
		return cached, nil
	}

	link, err := s.repo.FindByShortCode(ctx, shortCode)
	if err != nil {
		return "", fmt.Errorf("looking up link: %w", err)
	}
	if link == nil {
		return "", ErrLinkNotFound
	}

	if err := s.cache.Put(ctx, shortCode, link.OriginalURL); err != nil {
		// The next request pays one extra registry read; nothing else.
		s.log.Warn("failed to populate url cache",
			zap.String("short_code", shortCode), zap.Error(err))
	}

	s.clicks.Enqueue(ClickJob{
		ShortCode:  shortCode,
		ClientAddr: clientAddr,
		Referrer:   referrer,
		UserAgent:  userAgent,
	})
	return link.OriginalURL, nil
}

// validURL accepts absolute http(s) URLs only.
func validURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
