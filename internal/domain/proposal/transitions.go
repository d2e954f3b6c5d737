package proposal

import (
	"time"

	"conferencehall/internal/errs"
)

// Submit moves a draft to submitted. number is the freshly allocated sequence
// number; it is only set when the proposal has none.
func Submit(p Proposal, cfpOpen bool, number int64, now time.Time) (Proposal, error) {
	if !p.IsDraft {
		return p, ErrAlreadySubmitted
	}
	if !cfpOpen {
		return p, errs.ErrCfpClosed
	}
	if p.Number != nil {
		return p, ErrAlreadyNumbered
	}

	submittedAt := now.UTC()
	p.Number = &number
	p.SubmittedAt = &submittedAt
	p.IsDraft = false
	p.UpdatedAt = submittedAt
	return p, nil
}

// CanEdit reports whether a speaker may still change the proposal content.
func CanEdit(p Proposal, cfpOpen bool) error {
	if !cfpOpen {
		return errs.ErrCfpClosed
	}
	if p.Deliberation != DeliberationPending || p.Publication == PublicationPublished {
		return ErrNotEditable
	}
	return nil
}

// Deliberate records the organizers' decision. Changing the decision
// withdraws any publication and speaker answer so confirmation never
// outlives the decision it answered.
func Deliberate(p Proposal, status DeliberationStatus, now time.Time) (Proposal, error) {
	if _, ok := ParseDeliberationStatus(string(status)); !ok {
		return p, ErrInvalidDeliberation
	}
	if p.IsDraft {
		return p, ErrNotSubmitted
	}
	if p.Deliberation == status {
		return p, nil
	}

	p.Deliberation = status
	p.Publication = PublicationNotPublished
	p.Confirmation = ConfirmationPending
	p.UpdatedAt = now.UTC()
	return p, nil
}

// Publish makes the deliberation decision visible to speakers.
func Publish(p Proposal, now time.Time) (Proposal, error) {
	if p.IsDraft {
		return p, ErrNotSubmitted
	}
	if p.Deliberation == DeliberationPending {
		return p, ErrNotDeliberated
	}
	if p.Publication == PublicationPublished {
		return p, nil
	}

	p.Publication = PublicationPublished
	p.UpdatedAt = now.UTC()
	return p, nil
}

// Answer records the speaker's confirmation or decline.
func Answer(p Proposal, confirmed bool, now time.Time) (Proposal, error) {
	if p.Deliberation != DeliberationAccepted || p.Publication != PublicationPublished {
		return p, ErrConfirmationLocked
	}
	if p.Confirmation != ConfirmationPending {
		return p, ErrAlreadyAnswered
	}

	p.Confirmation = ConfirmationDeclined
	if confirmed {
		p.Confirmation = ConfirmationConfirmed
	}
	p.UpdatedAt = now.UTC()
	return p, nil
}
