package model

import (
	"time"
)

// ClickEvent is one recorded resolution of a link. Rows are append-only;
// nothing updates or deletes them.
type ClickEvent struct {
	ID        uint64    `gorm:"primaryKey"`
	URLID     uint64    `gorm:"column:url_id;not null;index"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(45)"`
	Referrer  string    `gorm:"column:referrer;type:varchar(500)"`
	UserAgent string    `gorm:"column:user_agent;type:varchar(500)"`
	Country   string    `gorm:"column:country;type:varchar(100)"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (ClickEvent) TableName() string {
	return "clicks"
}

// ValueCount is one row of a group-and-count breakdown.
type ValueCount struct {
	Value  string `json:"value"`
	Clicks int64  `json:"clicks"`
}
