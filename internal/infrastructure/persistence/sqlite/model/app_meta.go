package model

import "time"

// AppMeta holds bookkeeping values such as the last migration time and the
// last applied seed file.
type AppMeta struct {
	Key       string    `gorm:"column:meta_key;type:varchar(128);primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (AppMeta) TableName() string {
	return "app_meta"
}

const (
	MetaSchemaMigratedAt = "schema.migrated_at"
	MetaSeedSource       = "seed.source"
)
