package repository

import (
	"context"

	"shorturl-go/internal/model"
)

// LinkRepository is the durable side of the link registry.
type LinkRepository interface {
	// Save inserts or updates a link.
	Save(ctx context.Context, link *model.Link) error
	// CreateWithGeneratedCode inserts link to obtain its id, derives the
	// short code with encode, and updates the row, all inside one
	// transaction, so no link is ever observable without a code.
	CreateWithGeneratedCode(ctx context.Context, link *model.Link, encode func(id uint64) string) error
	// FindByShortCode returns the link for an exact code match, or nil
	// when no such code exists.
	FindByShortCode(ctx context.Context, shortCode string) (*model.Link, error)
}

// ClickRepository appends and aggregates click events.
type ClickRepository interface {
	Create(ctx context.Context, click *model.ClickEvent) error
	CountByURLID(ctx context.Context, urlID uint64) (int64, error)
	// GroupCountByURLID groups the link's clicks by the given column
	// ("country", "user_agent" or "referrer") and counts each value.
	GroupCountByURLID(ctx context.Context, urlID uint64, column string) ([]model.ValueCount, error)
}
