package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conferencehall/internal/domain/review"
	"conferencehall/internal/errs"
	"conferencehall/internal/infrastructure/persistence/sqlite/model"
	"conferencehall/internal/ports"
)

type ReviewRepository struct {
	db *gorm.DB
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// UpsertReview keeps at most one review per (reviewer, proposal). A repeat
// rating overwrites feeling, note, and comment and keeps the original id.
func (r *ReviewRepository) UpsertReview(ctx context.Context, rv review.Review) (review.Review, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return review.Review{}, err
	}
	if strings.TrimSpace(rv.ProposalID) == "" || strings.TrimSpace(rv.ReviewerID) == "" {
		return review.Review{}, errs.Wrap(errs.ErrInvalidArgument, "proposal id and reviewer id are required")
	}

	now := time.Now().UTC()
	if rv.UpdatedAt.IsZero() {
		rv.UpdatedAt = now
	}
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = rv.UpdatedAt
	}

	row := model.Review{
		ID:         uuid.NewString(),
		ProposalID: rv.ProposalID,
		UserID:     rv.ReviewerID,
		Feeling:    string(rv.Feeling),
		Note:       rv.Note,
		Comment:    rv.Comment,
		CreatedAt:  rv.CreatedAt.UTC(),
		UpdatedAt:  rv.UpdatedAt.UTC(),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "proposal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"feeling", "note", "comment", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return review.Review{}, errs.Wrap(err, "upsert review")
	}

	var stored model.Review
	if err := db.Where("user_id = ? AND proposal_id = ?", rv.ReviewerID, rv.ProposalID).Take(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return review.Review{}, errs.Wrap(err, "review missing after upsert")
		}
		return review.Review{}, errs.Wrap(err, "query review")
	}
	return mapReview(stored), nil
}

func (r *ReviewRepository) ListProposalReviews(ctx context.Context, proposalID string) ([]review.Review, error) {
	return r.ListReviewsForProposals(ctx, []string{proposalID})
}

func (r *ReviewRepository) ListReviewsForProposals(ctx context.Context, proposalIDs []string) ([]review.Review, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	if len(proposalIDs) == 0 {
		return nil, nil
	}

	var rows []model.Review
	if err := db.Where("proposal_id IN ?", proposalIDs).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "list proposal reviews")
	}
	return mapReviews(rows), nil
}

// ListEventReviews returns reviews of the event's submitted proposals.
func (r *ReviewRepository) ListEventReviews(ctx context.Context, eventID string) ([]review.Review, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Review
	if err := db.Model(&model.Review{}).
		Joins("JOIN proposals ON proposals.id = reviews.proposal_id").
		Where("proposals.event_id = ? AND proposals.is_draft = ?", eventID, false).
		Order("reviews.created_at ASC, reviews.id ASC").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "list event reviews")
	}
	return mapReviews(rows), nil
}

func (r *ReviewRepository) SetAvgRateForSort(ctx context.Context, proposalID string, avg *float64) error {
	db, err := conn(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.Proposal{}).Where("id = ?", proposalID).Update("avg_rate_for_sort", avg)
	if result.Error != nil {
		return errs.Wrap(result.Error, "update avg rate for sort")
	}
	if result.RowsAffected == 0 {
		return errs.ErrProposalNotFound
	}
	return nil
}

func mapReviews(rows []model.Review) []review.Review {
	out := make([]review.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapReview(row))
	}
	return out
}

func mapReview(row model.Review) review.Review {
	return review.Review{
		ID:         row.ID,
		ProposalID: row.ProposalID,
		ReviewerID: row.UserID,
		Feeling:    review.Feeling(row.Feeling),
		Note:       row.Note,
		Comment:    row.Comment,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
