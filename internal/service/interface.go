package service

import (
	"context"
)

// LinkService owns alias assignment and the resolution pipeline.
type LinkService interface {
	// CreateShortLink validates the URL, assigns a short code (the custom
	// alias when given, otherwise the base-62 encoding of the new row id)
	// and returns the full short URL.
	CreateShortLink(ctx context.Context, originalURL, customAlias string) (string, error)
	// ResolveShortLink returns the destination URL for a code, rate
	// limiting by alias and client address and recording a click on
	// success. clientAddr, referrer and userAgent describe the requester;
	// referrer and userAgent may be empty.
	ResolveShortLink(ctx context.Context, shortCode, clientAddr, referrer, userAgent string) (string, error)
}

// AnalyticsService answers the fixed aggregate breakdowns for one alias.
type AnalyticsService interface {
	Summarize(ctx context.Context, shortCode string) (*Summary, error)
}
