package cfp

import (
	"context"
	"log/slog"

	"conferencehall/internal/domain/event"
	"conferencehall/internal/domain/proposal"
	"conferencehall/internal/domain/review"
	"conferencehall/internal/domain/search"
	"conferencehall/internal/ports"
)

// ProposalSummary is one search result row. Speakers is nil when the event
// hides speakers; Summary is nil when it hides ratings.
type ProposalSummary struct {
	ID       string
	Number   *int64
	Title    string
	Status   proposal.OrganizerStatus
	Speakers []string
	Summary  *review.Summary
	You      review.UserRating
}

type SearchResult struct {
	Results    []ProposalSummary
	Statistics search.Statistics
	Pagination search.Pagination
}

// SearchProposals runs an organizer search over the event's submitted
// proposals. Statistics, page count, and page rows are read in one
// transaction so they describe the same snapshot.
func (s *Service) SearchProposals(ctx context.Context, callerID string, eventSlug string, filters search.Filters, page int) (SearchResult, error) {
	ctx, span, err := s.begin(ctx, "search_proposals",
		slog.String("event_slug", eventSlug),
		slog.String("user_id", callerID),
		slog.Int("page", page),
	)
	if err != nil {
		return SearchResult{}, err
	}
	result, err := s.searchProposals(ctx, callerID, eventSlug, filters, page)
	end(ctx, span, err)
	return result, err
}

func (s *Service) searchProposals(ctx context.Context, callerID string, eventSlug string, filters search.Filters, page int) (SearchResult, error) {
	ev, err := s.authorizer.RequireTeamRole(ctx, callerID, eventSlug, event.ReviewerRoles)
	if err != nil {
		return SearchResult{}, err
	}
	normalized, err := filters.Normalize()
	if err != nil {
		return SearchResult{}, err
	}

	q := ports.ProposalSearchQuery{
		EventID:        ev.ID,
		CallerID:       callerID,
		Filters:        normalized,
		SearchSpeakers: ev.DisplayProposalsSpeakers,
	}

	var result SearchResult
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		stats, err := s.proposals.SearchStatistics(txCtx, q)
		if err != nil {
			return err
		}
		pagination, offset := search.Paginate(page, stats.Total, s.pageSize)

		items, err := s.proposals.SearchProposals(txCtx, q, offset, s.pageSize)
		if err != nil {
			return err
		}
		reviews, err := s.reviews.ListReviewsForProposals(txCtx, proposalIDs(items))
		if err != nil {
			return err
		}

		result = SearchResult{
			Results:    summarize(ev, items, review.GroupByProposal(reviews), callerID),
			Statistics: stats,
			Pagination: pagination,
		}
		return nil
	})
	if err != nil {
		return SearchResult{}, err
	}
	return result, nil
}

func summarize(ev event.Event, items []proposal.Proposal, reviewsByProposal map[string][]review.Review, callerID string) []ProposalSummary {
	out := make([]ProposalSummary, 0, len(items))
	for _, p := range items {
		reviews := reviewsByProposal[p.ID]
		row := ProposalSummary{
			ID:     p.ID,
			Number: p.Number,
			Title:  p.Title,
			Status: proposal.DeriveOrganizerStatus(p),
			You:    review.OfUser(reviews, callerID),
		}
		if ev.DisplayProposalsSpeakers {
			row.Speakers = p.SpeakerNames()
		}
		if ev.DisplayProposalsRatings {
			summary := review.Summarize(reviews)
			row.Summary = &summary
		}
		out = append(out, row)
	}
	return out
}

func proposalIDs(ps []proposal.Proposal) []string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}
