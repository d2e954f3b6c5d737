package ports

import (
	"context"

	"conferencehall/internal/domain/review"
)

type ReviewRepository interface {
	// UpsertReview inserts or overwrites the reviewer's single review of a proposal.
	UpsertReview(ctx context.Context, r review.Review) (review.Review, error)
	ListProposalReviews(ctx context.Context, proposalID string) ([]review.Review, error)
	ListReviewsForProposals(ctx context.Context, proposalIDs []string) ([]review.Review, error)
	ListEventReviews(ctx context.Context, eventID string) ([]review.Review, error)
	// SetAvgRateForSort stores the cached sort key; nil clears it.
	SetAvgRateForSort(ctx context.Context, proposalID string, avg *float64) error
}
