package cfp

import (
	"context"
	"errors"
	"testing"

	"conferencehall/internal/domain/review"
	"conferencehall/internal/errs"
	sqliterepo "conferencehall/internal/infrastructure/persistence/sqlite/repository"
)

// failingReviews stores reviews but cannot update the proposal sort key.
type failingReviews struct {
	*sqliterepo.ReviewRepository
}

var errRecomputeFailed = errors.New("recompute failed")

func (failingReviews) SetAvgRateForSort(context.Context, string, *float64) error {
	return errRecomputeFailed
}

func TestRateProposalRecomputesSortAverage(t *testing.T) {
	h := setupService(t)
	ctx := context.Background()
	p := h.submitted(t, "ada", ProposalInput{Title: "Talk"})

	first, err := h.svc.RateProposal(ctx, "reviewer", eventSlug, p.ID, RatingInput{Feeling: "negative", Note: intPtr(0)})
	if err != nil {
		t.Fatalf("RateProposal() error = %v", err)
	}
	if first.AvgRateForSort == nil || *first.AvgRateForSort != 0 {
		t.Fatalf("RateProposal() avg = %v, want 0", first.AvgRateForSort)
	}

	second, err := h.svc.RateProposal(ctx, "member", eventSlug, p.ID, RatingInput{Feeling: "POSITIVE", Note: intPtr(5), Comment: "great"})
	if err != nil {
		t.Fatalf("RateProposal() error = %v", err)
	}
	if second.AvgRateForSort == nil || *second.AvgRateForSort != 2.5 {
		t.Fatalf("RateProposal() avg = %v, want 2.5", second.AvgRateForSort)
	}
	if got := h.stored(t, p.ID).AvgRateForSort; got == nil || *got != 2.5 {
		t.Fatalf("stored avg = %v, want 2.5", got)
	}

	// NO_OPINION drops the note and leaves the average to the others.
	if _, err := h.svc.RateProposal(ctx, "reviewer", eventSlug, p.ID, RatingInput{Feeling: "NO_OPINION", Note: intPtr(3)}); err != nil {
		t.Fatalf("RateProposal(no opinion) error = %v", err)
	}
	if got := h.stored(t, p.ID).AvgRateForSort; got == nil || *got != 5 {
		t.Fatalf("stored avg after no opinion = %v, want 5", got)
	}
}

func TestRateProposalRollsBackWhenRecomputeFails(t *testing.T) {
	h := setupService(t)
	ctx := context.Background()
	p := h.submitted(t, "ada", ProposalInput{Title: "Talk"})

	if _, err := h.svc.RateProposal(ctx, "reviewer", eventSlug, p.ID, RatingInput{Feeling: "NEGATIVE", Note: intPtr(0)}); err != nil {
		t.Fatalf("RateProposal() error = %v", err)
	}

	deps := h.deps
	deps.Reviews = failingReviews{ReviewRepository: sqliterepo.NewReviewRepository(h.db)}
	broken := NewService(deps, WithClock(h.clock.Now))

	if _, err := broken.RateProposal(ctx, "member", eventSlug, p.ID, RatingInput{Feeling: "POSITIVE", Note: intPtr(5)}); !errors.Is(err, errRecomputeFailed) {
		t.Fatalf("RateProposal() error = %v, want recompute failure", err)
	}

	reviews, err := h.deps.Reviews.ListProposalReviews(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListProposalReviews() error = %v", err)
	}
	if len(reviews) != 1 || reviews[0].ReviewerID != "reviewer" {
		t.Fatalf("reviews after rollback = %+v, want only the first", reviews)
	}
	if got := h.stored(t, p.ID).AvgRateForSort; got == nil || *got != 0 {
		t.Fatalf("stored avg after rollback = %v, want 0", got)
	}
}

func TestRateProposalGuards(t *testing.T) {
	h := setupService(t)
	ctx := context.Background()
	p := h.submitted(t, "ada", ProposalInput{Title: "Talk"})
	draft := h.draft(t, "grace", ProposalInput{Title: "Draft"})

	if _, err := h.svc.RateProposal(ctx, "ada", eventSlug, p.ID, RatingInput{Feeling: "POSITIVE", Note: intPtr(5)}); !errors.Is(err, errs.ErrForbiddenOperation) {
		t.Fatalf("RateProposal(speaker) error = %v", err)
	}
	if _, err := h.svc.RateProposal(ctx, "reviewer", eventSlug, draft.ID, RatingInput{Feeling: "POSITIVE", Note: intPtr(5)}); !errors.Is(err, errs.ErrProposalNotFound) {
		t.Fatalf("RateProposal(draft) error = %v", err)
	}
	if _, err := h.svc.RateProposal(ctx, "reviewer", eventSlug, p.ID, RatingInput{Feeling: "POSITIVE"}); !errors.Is(err, review.ErrNoteRequired) {
		t.Fatalf("RateProposal(no note) error = %v", err)
	}
	if _, err := h.svc.RateProposal(ctx, "reviewer", eventSlug, p.ID, RatingInput{Feeling: "POSITIVE", Note: intPtr(6)}); !errors.Is(err, review.ErrInvalidNote) {
		t.Fatalf("RateProposal(note 6) error = %v", err)
	}

	h.updateEvent(t, "review_enabled", false)
	_, err := h.svc.RateProposal(ctx, "reviewer", eventSlug, p.ID, RatingInput{Feeling: "POSITIVE", Note: intPtr(5)})
	if !errors.Is(err, errs.ErrDeliberationDisabled) {
		t.Fatalf("RateProposal(disabled) error = %v, want deliberation disabled", err)
	}
	if errs.CodeOf(err) != errs.CodeDeliberationDisabled {
		t.Fatalf("CodeOf() = %s", errs.CodeOf(err))
	}
}

func TestGetProposalReviewsHonorsRatingDisplay(t *testing.T) {
	h := setupService(t)
	ctx := context.Background()
	p := h.submitted(t, "ada", ProposalInput{Title: "Talk"})

	if _, err := h.svc.RateProposal(ctx, "owner", eventSlug, p.ID, RatingInput{Feeling: "POSITIVE", Note: intPtr(4)}); err != nil {
		t.Fatalf("RateProposal() error = %v", err)
	}

	panel, err := h.svc.GetProposalReviews(ctx, "reviewer", eventSlug, p.ID)
	if err != nil {
		t.Fatalf("GetProposalReviews() error = %v", err)
	}
	if panel.Summary == nil || panel.Summary.Positives != 1 || panel.Summary.Average == nil || *panel.Summary.Average != 4 {
		t.Fatalf("GetProposalReviews() summary = %+v", panel.Summary)
	}
	if panel.You.Feeling != nil || panel.You.Note != nil || panel.You.Comment != nil {
		t.Fatalf("GetProposalReviews() you = %+v, want all nil", panel.You)
	}

	h.updateEvent(t, "display_proposals_ratings", false)
	panel, err = h.svc.GetProposalReviews(ctx, "owner", eventSlug, p.ID)
	if err != nil {
		t.Fatalf("GetProposalReviews() error = %v", err)
	}
	if panel.Summary != nil || panel.Reviews != nil {
		t.Fatalf("GetProposalReviews() exposed ratings: %+v", panel)
	}
	if panel.You.Note == nil || *panel.You.Note != 4 {
		t.Fatalf("GetProposalReviews() you = %+v", panel.You)
	}
}

func TestReviewerLeaderboardIsCachedUntilNextRating(t *testing.T) {
	h := setupService(t)
	ctx := context.Background()
	a := h.submitted(t, "ada", ProposalInput{Title: "A"})
	b := h.submitted(t, "grace", ProposalInput{Title: "B"})

	for _, rating := range []struct {
		reviewer string
		id       string
		note     int
	}{
		{"reviewer", a.ID, 4},
		{"reviewer", b.ID, 2},
		{"member", a.ID, 5},
	} {
		if _, err := h.svc.RateProposal(ctx, rating.reviewer, eventSlug, rating.id, RatingInput{Feeling: "NEUTRAL", Note: intPtr(rating.note)}); err != nil {
			t.Fatalf("RateProposal() error = %v", err)
		}
	}

	rows, err := h.svc.ReviewerLeaderboard(ctx, "owner", eventSlug)
	if err != nil {
		t.Fatalf("ReviewerLeaderboard() error = %v", err)
	}
	if len(rows) != 2 || rows[0].ReviewerID != "reviewer" || rows[0].ReviewsCount != 2 || rows[0].Progress != 1 {
		t.Fatalf("ReviewerLeaderboard() = %+v", rows)
	}
	if rows[0].AverageNote == nil || *rows[0].AverageNote != 3 {
		t.Fatalf("ReviewerLeaderboard() average = %v, want 3", rows[0].AverageNote)
	}
	key := leaderboardCacheKey("event-1")
	if !h.cache.has(key) {
		t.Fatalf("leaderboard not cached under %q", key)
	}

	if _, err := h.svc.RateProposal(ctx, "member", eventSlug, b.ID, RatingInput{Feeling: "NEUTRAL", Note: intPtr(1)}); err != nil {
		t.Fatalf("RateProposal() error = %v", err)
	}
	if h.cache.has(key) {
		t.Fatalf("leaderboard cache not invalidated by rating")
	}

	rows, err = h.svc.ReviewerLeaderboard(ctx, "owner", eventSlug)
	if err != nil {
		t.Fatalf("ReviewerLeaderboard() error = %v", err)
	}
	if rows[0].ReviewerID != "member" || rows[1].ReviewerID != "reviewer" {
		t.Fatalf("ReviewerLeaderboard() tie order = %s, %s", rows[0].ReviewerID, rows[1].ReviewerID)
	}

	// A new submission changes every reviewer's progress.
	h.submitted(t, "ada", ProposalInput{Title: "C"})
	if h.cache.has(key) {
		t.Fatalf("leaderboard cache not invalidated by submission")
	}
	rows, err = h.svc.ReviewerLeaderboard(ctx, "owner", eventSlug)
	if err != nil {
		t.Fatalf("ReviewerLeaderboard() error = %v", err)
	}
	if want := 2.0 / 3.0; rows[0].Progress != want {
		t.Fatalf("ReviewerLeaderboard() progress after submission = %v, want %v", rows[0].Progress, want)
	}

	if _, err := h.svc.ReviewerLeaderboard(ctx, "reviewer", eventSlug); !errors.Is(err, errs.ErrForbiddenOperation) {
		t.Fatalf("ReviewerLeaderboard(reviewer) error = %v", err)
	}
}
