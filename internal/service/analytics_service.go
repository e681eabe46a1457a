package service

import (
	"context"
	"fmt"

	"shorturl-go/internal/model"
	"shorturl-go/internal/repository"
)

// Summary is the fixed set of aggregate breakdowns for one alias. The
// slices carry no ordering guarantee beyond grouping correctness.
type Summary struct {
	ShortCode   string             `json:"short_code"`
	TotalClicks int64              `json:"total_clicks"`
	ByCountry   []model.ValueCount `json:"by_country"`
	ByUserAgent []model.ValueCount `json:"by_user_agent"`
	ByReferrer  []model.ValueCount `json:"by_referrer"`
}

type analyticsService struct {
	links  repository.LinkRepository
	clicks repository.ClickRepository
}

func NewAnalyticsService(links repository.LinkRepository, clicks repository.ClickRepository) AnalyticsService {
	return &analyticsService{links: links, clicks: clicks}
}

// Summarize derives everything from the click rows at call time; there is
// no caching and no incremental state to drift.
func (s *analyticsService) Summarize(ctx context.Context, shortCode string) (*Summary, error) {
	link, err := s.links.FindByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("looking up link: %w", err)
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}

	total, err := s.clicks.CountByURLID(ctx, link.ID)
	if err != nil {
		return nil, fmt.Errorf("counting clicks: %w", err)
	}

	summary := &Summary{ShortCode: shortCode, TotalClicks: total}
	for _, group := range []struct {
		column string
		dest   *[]model.ValueCount
	}{
		{"country", &summary.ByCountry},
		{"user_agent", &summary.ByUserAgent},
		{"referrer", &summary.ByReferrer},
	} {
		rows, err := s.clicks.GroupCountByURLID(ctx, link.ID, group.column)
		if err != nil {
			return nil, fmt.Errorf("grouping clicks by %s: %w", group.column, err)
		}
		*group.dest = rows
	}

	return summary, nil
}
