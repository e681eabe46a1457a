package model

import (
	"time"
)

// Link maps a short code to its destination URL. The short code is unique
// and immutable once assigned; on the auto-generated path it stays NULL for
// the duration of the insert-then-update transaction, which is why the
// column is a pointer here.
type Link struct {
	ID          uint64    `gorm:"primaryKey"`
	OriginalURL string    `gorm:"column:original_url;type:varchar(2048);not null"`
	ShortCode   *string   `gorm:"column:short_code;type:varchar(16);uniqueIndex"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Link) TableName() string {
	return "links"
}

// Code returns the assigned short code, empty while unassigned.
func (l *Link) Code() string {
	if l.ShortCode == nil {
		return ""
	}
	return *l.ShortCode
}
