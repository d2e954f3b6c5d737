package cfp

import (
	"context"
	"log/slog"

	"conferencehall/internal/bootstrap/logging"
	"conferencehall/internal/domain/event"
	"conferencehall/internal/domain/proposal"
	"conferencehall/internal/ports"
)

// Deliberate records one decision for a batch of proposals of the event.
// Either every proposal is updated or none is. It returns how many
// proposals changed.
func (s *Service) Deliberate(ctx context.Context, organizerID string, eventSlug string, proposalIDs []string, status string) (int, error) {
	ctx, span, err := s.begin(ctx, "deliberate",
		slog.String("event_slug", eventSlug),
		slog.String("user_id", organizerID),
		slog.String("deliberation_status", status),
	)
	if err != nil {
		return 0, err
	}
	changed, err := s.deliberate(ctx, organizerID, eventSlug, proposalIDs, status)
	end(ctx, span, err)
	return changed, err
}

func (s *Service) deliberate(ctx context.Context, organizerID string, eventSlug string, proposalIDs []string, status string) (int, error) {
	ev, err := s.authorizer.RequireTeamRole(ctx, organizerID, eventSlug, event.OrganizerRoles)
	if err != nil {
		return 0, err
	}
	decision, ok := proposal.ParseDeliberationStatus(status)
	if !ok {
		return 0, proposal.ErrInvalidDeliberation
	}

	changed := 0
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		for _, id := range trimAll(proposalIDs) {
			p, err := s.proposals.GetProposal(txCtx, ev.ID, id)
			if err != nil {
				return err
			}
			next, err := proposal.Deliberate(p, decision, s.timestamp())
			if err != nil {
				return err
			}
			if next.Deliberation == p.Deliberation {
				continue
			}
			if err := s.proposals.UpdateProposal(txCtx, p.ID, ports.ProposalPatch{
				Deliberation: &next.Deliberation,
				Publication:  &next.Publication,
				Confirmation: &next.Confirmation,
				UpdatedAt:    next.UpdatedAt,
			}); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logging.Info(ctx, "proposals deliberated", slog.Int("changed", changed))
	return changed, nil
}

// Publish makes the decision on one proposal visible to its speakers.
func (s *Service) Publish(ctx context.Context, organizerID string, eventSlug string, proposalID string) (proposal.Proposal, error) {
	ctx, span, err := s.begin(ctx, "publish",
		slog.String("event_slug", eventSlug),
		slog.String("proposal_id", proposalID),
		slog.String("user_id", organizerID),
	)
	if err != nil {
		return proposal.Proposal{}, err
	}

	var published proposal.Proposal
	err = func() error {
		ev, err := s.authorizer.RequireTeamRole(ctx, organizerID, eventSlug, event.OrganizerRoles)
		if err != nil {
			return err
		}
		return s.uow.WithTx(ctx, func(txCtx context.Context) error {
			p, err := s.proposals.GetProposal(txCtx, ev.ID, proposalID)
			if err != nil {
				return err
			}
			next, err := proposal.Publish(p, s.timestamp())
			if err != nil {
				return err
			}
			if next.Publication != p.Publication {
				if err := s.proposals.UpdateProposal(txCtx, p.ID, ports.ProposalPatch{
					Publication: &next.Publication,
					UpdatedAt:   next.UpdatedAt,
				}); err != nil {
					return err
				}
			}
			published = next
			return nil
		})
	}()
	end(ctx, span, err)
	if err != nil {
		return proposal.Proposal{}, err
	}
	return published, nil
}

// Confirm records the speaker's answer to an accepted and published proposal.
func (s *Service) Confirm(ctx context.Context, speakerID string, proposalID string, confirmed bool) (SpeakerProposal, error) {
	ctx, span, err := s.begin(ctx, "confirm",
		slog.String("proposal_id", proposalID),
		slog.String("user_id", speakerID),
		slog.Bool("confirmed", confirmed),
	)
	if err != nil {
		return SpeakerProposal{}, err
	}

	var answered SpeakerProposal
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		p, ev, err := s.speakerProposal(txCtx, speakerID, proposalID)
		if err != nil {
			return err
		}
		now := s.timestamp()
		next, err := proposal.Answer(p, confirmed, now)
		if err != nil {
			return err
		}
		if err := s.proposals.UpdateProposal(txCtx, p.ID, ports.ProposalPatch{
			Confirmation: &next.Confirmation,
			UpdatedAt:    next.UpdatedAt,
		}); err != nil {
			return err
		}
		answered = SpeakerProposal{
			Proposal: next,
			Status:   proposal.DeriveSpeakerStatus(next, ev.IsCfpOpen(now)),
		}
		return nil
	})
	end(ctx, span, err)
	if err != nil {
		return SpeakerProposal{}, err
	}
	return answered, nil
}
