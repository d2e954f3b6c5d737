package ports

import (
	"context"
	"time"

	"conferencehall/internal/domain/proposal"
	"conferencehall/internal/domain/search"
)

// ProposalPatch lists the columns a transition may write. Nil fields are left unchanged.
type ProposalPatch struct {
	Number       *int64
	IsDraft      *bool
	SubmittedAt  *time.Time
	Deliberation *proposal.DeliberationStatus
	Publication  *proposal.PublicationStatus
	Confirmation *proposal.ConfirmationStatus
	Title        *string
	Abstract     *string
	References   *string
	Level        *proposal.Level
	Languages    []string
	// FormatIDs and CategoryIDs replace the link sets when non-nil; an empty
	// slice clears them.
	FormatIDs    []string
	CategoryIDs  []string
	UpdatedAt    time.Time
}

// ProposalSearchQuery is one organizer search against an event.
type ProposalSearchQuery struct {
	EventID string
	// CallerID is the organizer running the search; it scopes rated-by-me and Reviewed.
	CallerID string
	Filters  search.Filters
	// SearchSpeakers allows free text to match speaker names.
	SearchSpeakers bool
}

type ProposalRepository interface {
	CreateProposal(ctx context.Context, p proposal.Proposal) (proposal.Proposal, error)
	// GetProposal returns errs.ErrProposalNotFound when the proposal is
	// missing or belongs to another event.
	GetProposal(ctx context.Context, eventID string, proposalID string) (proposal.Proposal, error)
	GetProposalByID(ctx context.Context, proposalID string) (proposal.Proposal, error)
	UpdateProposal(ctx context.Context, proposalID string, patch ProposalPatch) error
	DeleteProposal(ctx context.Context, proposalID string) error
	CountSubmittedProposals(ctx context.Context, eventID string) (int64, error)

	SearchStatistics(ctx context.Context, q ProposalSearchQuery) (search.Statistics, error)
	SearchProposals(ctx context.Context, q ProposalSearchQuery, offset int, limit int) ([]proposal.Proposal, error)
}

// SequenceAllocator hands out per-event proposal numbers. It must be called
// inside WithTx so a rolled back submission never consumes a number.
type SequenceAllocator interface {
	NextProposalNumber(ctx context.Context, eventID string) (int64, error)
}
