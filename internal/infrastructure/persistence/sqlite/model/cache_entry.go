package model

import "time"

type CacheEntry struct {
	Key       string     `gorm:"column:cache_key;type:varchar(255);primaryKey"`
	Value     string     `gorm:"column:value;type:text;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null"`
}

func (CacheEntry) TableName() string {
	return "cache_entries"
}
