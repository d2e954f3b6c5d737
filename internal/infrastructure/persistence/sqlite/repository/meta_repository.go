package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conferencehall/internal/errs"
	"conferencehall/internal/infrastructure/persistence/sqlite/model"
)

// MetaRepository reads and writes app_meta bookkeeping values.
type MetaRepository struct {
	db *gorm.DB
}

func NewMetaRepository(db *gorm.DB) *MetaRepository {
	return &MetaRepository{db: db}
}

func (r *MetaRepository) Get(ctx context.Context, key string) (string, bool, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return "", false, err
	}

	var row model.AppMeta
	if err := db.Where("meta_key = ?", strings.TrimSpace(key)).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errs.Wrap(err, "query app meta")
	}
	return row.Value, true, nil
}

func (r *MetaRepository) Set(ctx context.Context, key string, value string) error {
	db, err := conn(ctx, r.db)
	if err != nil {
		return err
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("meta key is required")
	}

	row := model.AppMeta{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert app meta")
	}
	return nil
}
