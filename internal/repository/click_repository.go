package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shorturl-go/internal/model"
)

type clickRepository struct {
	db *gorm.DB
}

func NewClickRepository(db *gorm.DB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) Create(ctx context.Context, click *model.ClickEvent) error {
	return r.db.WithContext(ctx).Create(click).Error
}

func (r *clickRepository) CountByURLID(ctx context.Context, urlID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ClickEvent{}).
		Where("url_id = ?", urlID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// groupColumns guards the Select/Group interpolation below; only these
// columns may be grouped on.
var groupColumns = map[string]bool{
	"country":    true,
	"user_agent": true,
	"referrer":   true,
}

func (r *clickRepository) GroupCountByURLID(ctx context.Context, urlID uint64, column string) ([]model.ValueCount, error) {
	if !groupColumns[column] {
		return nil, fmt.Errorf("unsupported group column %q", column)
	}

	var results []model.ValueCount
	err := r.db.WithContext(ctx).Model(&model.ClickEvent{}).
		Select(column+" as value, COUNT(*) as clicks").
		Where("url_id = ?", urlID).
		Group(column).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
