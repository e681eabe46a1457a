package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shorturl-go/internal/model"
)

type linkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Save(ctx context.Context, link *model.Link) error {
	return r.db.WithContext(ctx).Save(link).Error
}

func (r *linkRepository) CreateWithGeneratedCode(ctx context.Context, link *model.Link, encode func(id uint64) string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(link).Error; err != nil {
			return err
		}
		code := encode(link.ID)
		link.ShortCode = &code
		return tx.Save(link).Error
	})
}

func (r *linkRepository) FindByShortCode(ctx context.Context, shortCode string) (*model.Link, error) {
	var link model.Link
	err := r.db.WithContext(ctx).Where("short_code = ?", shortCode).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}
