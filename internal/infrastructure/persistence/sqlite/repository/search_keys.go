package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"conferencehall/internal/errs"
	"conferencehall/internal/infrastructure/persistence/sqlite/model"
)

// BackfillSearchKeys fills search_title and search_name on rows written
// before those columns existed. It returns how many rows were updated.
func BackfillSearchKeys(ctx context.Context, db *gorm.DB) (int, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	filled := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var proposals []model.Proposal
		if err := tx.Select("id", "title").
			Where("search_title = '' AND title <> ''").
			Find(&proposals).Error; err != nil {
			return errs.Wrap(err, "load proposals without search key")
		}
		for _, p := range proposals {
			if err := tx.Model(&model.Proposal{}).
				Where("id = ?", p.ID).
				UpdateColumn("search_title", searchKey(p.Title)).Error; err != nil {
				return errs.Wrapf(err, "backfill proposal %s", p.ID)
			}
		}

		var speakers []model.EventSpeaker
		if err := tx.Select("id", "name").
			Where("search_name = '' AND name <> ''").
			Find(&speakers).Error; err != nil {
			return errs.Wrap(err, "load speakers without search key")
		}
		for _, sp := range speakers {
			if err := tx.Model(&model.EventSpeaker{}).
				Where("id = ?", sp.ID).
				UpdateColumn("search_name", searchKey(sp.Name)).Error; err != nil {
				return errs.Wrapf(err, "backfill speaker %s", sp.ID)
			}
		}

		filled = len(proposals) + len(speakers)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return filled, nil
}
