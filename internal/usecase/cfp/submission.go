package cfp

import (
	"context"
	"log/slog"
	"strings"

	"conferencehall/internal/bootstrap/logging"
	"conferencehall/internal/domain/event"
	"conferencehall/internal/domain/proposal"
	"conferencehall/internal/errs"
	"conferencehall/internal/ports"
)

// ProposalInput is the speaker-editable content of a proposal.
type ProposalInput struct {
	Title       string
	Abstract    string
	References  string
	Level       string
	Languages   []string
	FormatIDs   []string
	CategoryIDs []string
	// SpeakerName and SpeakerCompany describe the caller on the speaker list.
	SpeakerName    string
	SpeakerCompany string
}

// SpeakerProposal is a proposal as its speaker sees it.
type SpeakerProposal struct {
	Proposal proposal.Proposal
	Status   proposal.SpeakerStatus
}

// CreateDraft stores a new draft with the caller as its first speaker.
// Drafts carry no number.
func (s *Service) CreateDraft(ctx context.Context, speakerID string, eventSlug string, input ProposalInput) (proposal.Proposal, error) {
	ctx, span, err := s.begin(ctx, "create_draft", slog.String("event_slug", eventSlug), slog.String("user_id", speakerID))
	if err != nil {
		return proposal.Proposal{}, err
	}
	created, err := s.createDraft(ctx, speakerID, eventSlug, input)
	end(ctx, span, err)
	return created, err
}

func (s *Service) createDraft(ctx context.Context, speakerID string, eventSlug string, input ProposalInput) (proposal.Proposal, error) {
	speakerID = strings.TrimSpace(speakerID)
	if speakerID == "" {
		return proposal.Proposal{}, errs.ErrForbiddenOperation
	}

	ev, err := s.events.GetEventBySlug(ctx, eventSlug)
	if err != nil {
		return proposal.Proposal{}, err
	}
	now := s.timestamp()
	if !ev.IsCfpOpen(now) {
		return proposal.Proposal{}, errs.ErrCfpClosed
	}

	content, err := s.cleanInput(input)
	if err != nil {
		return proposal.Proposal{}, err
	}

	speakerName := strings.TrimSpace(input.SpeakerName)
	if speakerName == "" {
		speakerName = speakerID
	}

	draft := proposal.Proposal{
		EventID:     ev.ID,
		Title:       content.Title,
		Abstract:    content.Abstract,
		References:  content.References,
		Level:       content.Level,
		Languages:   content.Languages,
		IsDraft:     true,
		FormatIDs:   content.FormatIDs,
		CategoryIDs: content.CategoryIDs,
		Speakers: []proposal.Speaker{{
			UserID:  speakerID,
			Name:    speakerName,
			Company: strings.TrimSpace(input.SpeakerCompany),
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	var created proposal.Proposal
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.proposals.CreateProposal(txCtx, draft)
		return err
	}); err != nil {
		return proposal.Proposal{}, err
	}

	logging.Info(ctx, "draft created", slog.String("proposal_id", created.ID))
	return created, nil
}

// EditProposal replaces the content of a proposal the caller speaks on. It is
// allowed while the CFP is open and no decision exists.
func (s *Service) EditProposal(ctx context.Context, speakerID string, proposalID string, input ProposalInput) (proposal.Proposal, error) {
	ctx, span, err := s.begin(ctx, "edit_proposal", slog.String("proposal_id", proposalID), slog.String("user_id", speakerID))
	if err != nil {
		return proposal.Proposal{}, err
	}
	edited, err := s.editProposal(ctx, speakerID, proposalID, input)
	end(ctx, span, err)
	return edited, err
}

func (s *Service) editProposal(ctx context.Context, speakerID string, proposalID string, input ProposalInput) (proposal.Proposal, error) {
	content, err := s.cleanInput(input)
	if err != nil {
		return proposal.Proposal{}, err
	}

	var edited proposal.Proposal
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		p, ev, err := s.speakerProposal(txCtx, speakerID, proposalID)
		if err != nil {
			return err
		}
		now := s.timestamp()
		if err := proposal.CanEdit(p, ev.IsCfpOpen(now)); err != nil {
			return err
		}

		if err := s.proposals.UpdateProposal(txCtx, p.ID, ports.ProposalPatch{
			Title:       &content.Title,
			Abstract:    &content.Abstract,
			References:  &content.References,
			Level:       &content.Level,
			Languages:   content.Languages,
			FormatIDs:   content.FormatIDs,
			CategoryIDs: content.CategoryIDs,
			UpdatedAt:   now,
		}); err != nil {
			return err
		}
		edited, err = s.proposals.GetProposalByID(txCtx, p.ID)
		return err
	})
	if err != nil {
		return proposal.Proposal{}, err
	}
	return edited, nil
}

// SubmitProposal turns the caller's draft into a submitted proposal and
// assigns its event number in the same transaction. A failed allocation is
// retried once as a whole new submission.
func (s *Service) SubmitProposal(ctx context.Context, speakerID string, eventSlug string, proposalID string) (proposal.Proposal, error) {
	ctx, span, err := s.begin(ctx, "submit_proposal",
		slog.String("event_slug", eventSlug),
		slog.String("proposal_id", proposalID),
		slog.String("user_id", speakerID),
	)
	if err != nil {
		return proposal.Proposal{}, err
	}

	submitted, err := s.submitProposal(ctx, speakerID, eventSlug, proposalID)
	if errs.IsRetryable(err) {
		logging.Warn(ctx, "retrying submission after sequence allocation failure", slog.Any("err", errs.Loggable(err)))
		submitted, err = s.submitProposal(ctx, speakerID, eventSlug, proposalID)
	}
	end(ctx, span, err)
	return submitted, err
}

func (s *Service) submitProposal(ctx context.Context, speakerID string, eventSlug string, proposalID string) (proposal.Proposal, error) {
	if s.sequence == nil {
		return proposal.Proposal{}, errs.Wrap(errs.ErrSequenceAllocation, "sequence allocator is required")
	}

	ev, err := s.events.GetEventBySlug(ctx, eventSlug)
	if err != nil {
		return proposal.Proposal{}, err
	}

	var submitted proposal.Proposal
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		p, err := s.proposals.GetProposal(txCtx, ev.ID, proposalID)
		if err != nil {
			return err
		}
		if !p.HasSpeaker(speakerID) {
			return errs.ErrProposalNotFound
		}

		now := s.timestamp()
		cfpOpen := ev.IsCfpOpen(now)
		// Checked before allocation so a rejected submission does not touch the counter.
		if !p.IsDraft {
			return proposal.ErrAlreadySubmitted
		}
		if !cfpOpen {
			return errs.ErrCfpClosed
		}

		number, err := s.sequence.NextProposalNumber(txCtx, ev.ID)
		if err != nil {
			return err
		}
		next, err := proposal.Submit(p, cfpOpen, number, now)
		if err != nil {
			return err
		}

		isDraft := false
		if err := s.proposals.UpdateProposal(txCtx, p.ID, ports.ProposalPatch{
			Number:      next.Number,
			IsDraft:     &isDraft,
			SubmittedAt: next.SubmittedAt,
			UpdatedAt:   next.UpdatedAt,
		}); err != nil {
			return err
		}
		submitted = next
		return nil
	})
	if err != nil {
		return proposal.Proposal{}, err
	}

	s.deleteCacheBestEffort(ctx, leaderboardCacheKey(ev.ID))
	logging.Info(ctx, "proposal submitted", slog.Int64("number", *submitted.Number))
	return submitted, nil
}

// DeleteProposal removes a proposal the caller speaks on, with its links and
// reviews. Submitted proposals can only be withdrawn while the CFP is open.
// The event counter is not rewound.
func (s *Service) DeleteProposal(ctx context.Context, speakerID string, proposalID string) error {
	ctx, span, err := s.begin(ctx, "delete_proposal", slog.String("proposal_id", proposalID), slog.String("user_id", speakerID))
	if err != nil {
		return err
	}

	var eventID string
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		p, ev, err := s.speakerProposal(txCtx, speakerID, proposalID)
		if err != nil {
			return err
		}
		if !p.IsDraft && !ev.IsCfpOpen(s.timestamp()) {
			return errs.ErrCfpClosed
		}
		eventID = ev.ID
		return s.proposals.DeleteProposal(txCtx, p.ID)
	})
	if err == nil {
		s.deleteCacheBestEffort(ctx, leaderboardCacheKey(eventID))
		logging.Info(ctx, "proposal deleted")
	}
	end(ctx, span, err)
	return err
}

// GetSpeakerProposal returns a proposal the caller speaks on with its
// speaker-facing status.
func (s *Service) GetSpeakerProposal(ctx context.Context, speakerID string, proposalID string) (SpeakerProposal, error) {
	ctx, span, err := s.begin(ctx, "get_speaker_proposal", slog.String("proposal_id", proposalID), slog.String("user_id", speakerID))
	if err != nil {
		return SpeakerProposal{}, err
	}

	p, ev, err := s.speakerProposal(ctx, speakerID, proposalID)
	end(ctx, span, err)
	if err != nil {
		return SpeakerProposal{}, err
	}
	return SpeakerProposal{
		Proposal: p,
		Status:   proposal.DeriveSpeakerStatus(p, ev.IsCfpOpen(s.timestamp())),
	}, nil
}

// speakerProposal loads a proposal and its event for one of its speakers.
// Anyone else gets ErrProposalNotFound.
func (s *Service) speakerProposal(ctx context.Context, speakerID string, proposalID string) (proposal.Proposal, event.Event, error) {
	speakerID = strings.TrimSpace(speakerID)
	if speakerID == "" {
		return proposal.Proposal{}, event.Event{}, errs.ErrProposalNotFound
	}

	p, err := s.proposals.GetProposalByID(ctx, proposalID)
	if err != nil {
		return proposal.Proposal{}, event.Event{}, err
	}
	if !p.HasSpeaker(speakerID) {
		return proposal.Proposal{}, event.Event{}, errs.ErrProposalNotFound
	}

	ev, err := s.events.GetEventByID(ctx, p.EventID)
	if err != nil {
		return proposal.Proposal{}, event.Event{}, err
	}
	return p, ev, nil
}

type cleanedInput struct {
	Title       string
	Abstract    string
	References  string
	Level       proposal.Level
	Languages   []string
	FormatIDs   []string
	CategoryIDs []string
}

func (s *Service) cleanInput(input ProposalInput) (cleanedInput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return cleanedInput{}, proposal.ErrTitleRequired
	}
	level, ok := proposal.ParseLevel(input.Level)
	if !ok {
		return cleanedInput{}, proposal.ErrInvalidLevel
	}

	return cleanedInput{
		Title:       title,
		Abstract:    strings.TrimSpace(s.sanitizer.Sanitize(input.Abstract)),
		References:  strings.TrimSpace(s.sanitizer.Sanitize(input.References)),
		Level:       level,
		Languages:   trimAll(input.Languages),
		FormatIDs:   trimAll(input.FormatIDs),
		CategoryIDs: trimAll(input.CategoryIDs),
	}, nil
}

// trimAll drops blanks and duplicates. The result is never nil so a patch
// with it always writes the column.
func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
