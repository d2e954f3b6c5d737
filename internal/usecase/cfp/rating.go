package cfp

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"conferencehall/internal/bootstrap/logging"
	"conferencehall/internal/domain/event"
	"conferencehall/internal/domain/review"
	"conferencehall/internal/errs"
)

type RatingInput struct {
	Feeling string
	Note    *int
	Comment string
}

// RatingResult is the stored review and the proposal sort key recomputed
// with it.
type RatingResult struct {
	Review         review.Review
	AvgRateForSort *float64
}

// ProposalReviews is the review panel of one proposal. Summary and Reviews
// are nil when the event hides ratings; the caller's own rating is always
// returned.
type ProposalReviews struct {
	Summary *review.Summary
	Reviews []review.Review
	You     review.UserRating
}

// RateProposal upserts the caller's review and recomputes the proposal's
// sort key in one transaction, so neither is ever visible without the other.
func (s *Service) RateProposal(ctx context.Context, reviewerID string, eventSlug string, proposalID string, input RatingInput) (RatingResult, error) {
	ctx, span, err := s.begin(ctx, "rate_proposal",
		slog.String("event_slug", eventSlug),
		slog.String("proposal_id", proposalID),
		slog.String("user_id", reviewerID),
	)
	if err != nil {
		return RatingResult{}, err
	}
	result, err := s.rateProposal(ctx, reviewerID, eventSlug, proposalID, input)
	end(ctx, span, err)
	return result, err
}

func (s *Service) rateProposal(ctx context.Context, reviewerID string, eventSlug string, proposalID string, input RatingInput) (RatingResult, error) {
	ev, err := s.authorizer.RequireTeamRole(ctx, reviewerID, eventSlug, event.ReviewerRoles)
	if err != nil {
		return RatingResult{}, err
	}
	if !ev.ReviewEnabled {
		return RatingResult{}, errs.WithStack(errs.WithMetadata(errs.CodeDeliberationDisabled,
			"reviews are disabled for this event", map[string]string{"event_slug": ev.Slug}))
	}

	feeling, err := review.ParseFeeling(input.Feeling)
	if err != nil {
		return RatingResult{}, err
	}
	note, err := review.Normalize(feeling, input.Note)
	if err != nil {
		return RatingResult{}, err
	}
	var comment *string
	if cleaned := strings.TrimSpace(s.sanitizer.Sanitize(input.Comment)); cleaned != "" {
		comment = &cleaned
	}

	var result RatingResult
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		p, err := s.proposals.GetProposal(txCtx, ev.ID, proposalID)
		if err != nil {
			return err
		}
		if p.IsDraft {
			return errs.ErrProposalNotFound
		}

		now := s.timestamp()
		stored, err := s.reviews.UpsertReview(txCtx, review.Review{
			ProposalID: p.ID,
			ReviewerID: reviewerID,
			Feeling:    feeling,
			Note:       note,
			Comment:    comment,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}

		all, err := s.reviews.ListProposalReviews(txCtx, p.ID)
		if err != nil {
			return err
		}
		avg := review.AverageForSort(all)
		if err := s.reviews.SetAvgRateForSort(txCtx, p.ID, avg); err != nil {
			return errs.Wrap(err, "recompute proposal rating")
		}

		result = RatingResult{Review: stored, AvgRateForSort: avg}
		return nil
	})
	if err != nil {
		return RatingResult{}, err
	}

	s.deleteCacheBestEffort(ctx, leaderboardCacheKey(ev.ID))
	logging.Info(ctx, "proposal rated", slog.String("feeling", string(feeling)))
	return result, nil
}

// GetProposalReviews returns the review panel of a submitted proposal.
func (s *Service) GetProposalReviews(ctx context.Context, reviewerID string, eventSlug string, proposalID string) (ProposalReviews, error) {
	ctx, span, err := s.begin(ctx, "proposal_reviews",
		slog.String("event_slug", eventSlug),
		slog.String("proposal_id", proposalID),
		slog.String("user_id", reviewerID),
	)
	if err != nil {
		return ProposalReviews{}, err
	}

	out, err := func() (ProposalReviews, error) {
		ev, err := s.authorizer.RequireTeamRole(ctx, reviewerID, eventSlug, event.ReviewerRoles)
		if err != nil {
			return ProposalReviews{}, err
		}
		p, err := s.proposals.GetProposal(ctx, ev.ID, proposalID)
		if err != nil {
			return ProposalReviews{}, err
		}
		if p.IsDraft {
			return ProposalReviews{}, errs.ErrProposalNotFound
		}
		reviews, err := s.reviews.ListProposalReviews(ctx, p.ID)
		if err != nil {
			return ProposalReviews{}, err
		}

		out := ProposalReviews{You: review.OfUser(reviews, reviewerID)}
		if ev.DisplayProposalsRatings {
			summary := review.Summarize(reviews)
			out.Summary = &summary
			out.Reviews = reviews
		}
		return out, nil
	}()
	end(ctx, span, err)
	return out, err
}

// ReviewerLeaderboard ranks the event's reviewers by how many proposals they
// reviewed. Results are cached until the next rating or the cache TTL.
func (s *Service) ReviewerLeaderboard(ctx context.Context, organizerID string, eventSlug string) ([]review.ReviewerStats, error) {
	ctx, span, err := s.begin(ctx, "reviewer_leaderboard", slog.String("event_slug", eventSlug), slog.String("user_id", organizerID))
	if err != nil {
		return nil, err
	}
	rows, err := s.reviewerLeaderboard(ctx, organizerID, eventSlug)
	end(ctx, span, err)
	return rows, err
}

func (s *Service) reviewerLeaderboard(ctx context.Context, organizerID string, eventSlug string) ([]review.ReviewerStats, error) {
	ev, err := s.authorizer.RequireTeamRole(ctx, organizerID, eventSlug, event.OrganizerRoles)
	if err != nil {
		return nil, err
	}

	key := leaderboardCacheKey(ev.ID)
	if rows, ok := s.cachedLeaderboard(ctx, key); ok {
		return rows, nil
	}

	var rows []review.ReviewerStats
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		total, err := s.proposals.CountSubmittedProposals(txCtx, ev.ID)
		if err != nil {
			return err
		}
		reviews, err := s.reviews.ListEventReviews(txCtx, ev.ID)
		if err != nil {
			return err
		}
		rows = review.Leaderboard(review.GroupByReviewer(reviews), int(total))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(rows); err == nil {
		s.setCacheBestEffort(ctx, key, string(encoded))
	}
	return rows, nil
}

func (s *Service) cachedLeaderboard(ctx context.Context, key string) ([]review.ReviewerStats, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		logging.Warn(ctx, "cache get failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var rows []review.ReviewerStats
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		logging.Warn(ctx, "discarding unreadable cached leaderboard", slog.String("key", key))
		return nil, false
	}
	return rows, true
}
