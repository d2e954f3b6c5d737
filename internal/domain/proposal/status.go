package proposal

// SpeakerStatus is the status a speaker sees for their proposal.
type SpeakerStatus string

const (
	SpeakerDraft                SpeakerStatus = "Draft"
	SpeakerNotSubmitted         SpeakerStatus = "NotSubmitted"
	SpeakerDeliberationPending  SpeakerStatus = "DeliberationPending"
	SpeakerSubmitted            SpeakerStatus = "Submitted"
	SpeakerAcceptedByOrganizers SpeakerStatus = "AcceptedByOrganizers"
	SpeakerRejectedByOrganizers SpeakerStatus = "RejectedByOrganizers"
	SpeakerConfirmedBySpeaker   SpeakerStatus = "ConfirmedBySpeaker"
	SpeakerDeclinedBySpeaker    SpeakerStatus = "DeclinedBySpeaker"
)

// OrganizerStatus is the status organizers see and filter on.
type OrganizerStatus string

const (
	OrganizerPending     OrganizerStatus = "pending"
	OrganizerAccepted    OrganizerStatus = "accepted"
	OrganizerRejected    OrganizerStatus = "rejected"
	OrganizerNotAnswered OrganizerStatus = "not-answered"
	OrganizerConfirmed   OrganizerStatus = "confirmed"
	OrganizerDeclined    OrganizerStatus = "declined"
)

// OrganizerStatuses lists every organizer status in display order.
var OrganizerStatuses = []OrganizerStatus{
	OrganizerPending,
	OrganizerAccepted,
	OrganizerRejected,
	OrganizerNotAnswered,
	OrganizerConfirmed,
	OrganizerDeclined,
}

func ParseOrganizerStatus(raw string) (OrganizerStatus, bool) {
	for _, status := range OrganizerStatuses {
		if string(status) == raw {
			return status, true
		}
	}
	return "", false
}

type speakerRule struct {
	status  SpeakerStatus
	matches func(p Proposal, cfpOpen bool) bool
}

// Evaluated in order, first match wins. A draft never reaches the submitted
// rules. Submitted only holds while no decision has been published, so a
// published decision on an event whose CFP is still open is visible.
var speakerRules = []speakerRule{
	{SpeakerDraft, func(p Proposal, cfpOpen bool) bool {
		return p.IsDraft && cfpOpen
	}},
	{SpeakerNotSubmitted, func(p Proposal, cfpOpen bool) bool {
		return p.IsDraft && !cfpOpen
	}},
	{SpeakerDeliberationPending, func(p Proposal, cfpOpen bool) bool {
		return !cfpOpen && p.Deliberation == DeliberationPending
	}},
	{SpeakerSubmitted, func(p Proposal, cfpOpen bool) bool {
		return cfpOpen && p.Publication != PublicationPublished
	}},
	{SpeakerAcceptedByOrganizers, func(p Proposal, _ bool) bool {
		return p.Deliberation == DeliberationAccepted &&
			p.Publication == PublicationPublished &&
			p.Confirmation == ConfirmationPending
	}},
	{SpeakerRejectedByOrganizers, func(p Proposal, _ bool) bool {
		return p.Deliberation == DeliberationRejected && p.Publication == PublicationPublished
	}},
	{SpeakerConfirmedBySpeaker, func(p Proposal, _ bool) bool {
		return p.Confirmation == ConfirmationConfirmed
	}},
	{SpeakerDeclinedBySpeaker, func(p Proposal, _ bool) bool {
		return p.Confirmation == ConfirmationDeclined
	}},
}

// DeriveSpeakerStatus maps the stored flags and the CFP state to exactly one
// speaker status. Flag combinations no rule matches (an unpublished decision
// after the CFP closed) read as pending deliberation, or submitted while the
// CFP is open.
func DeriveSpeakerStatus(p Proposal, cfpOpen bool) SpeakerStatus {
	for _, rule := range speakerRules {
		if rule.matches(p, cfpOpen) {
			return rule.status
		}
	}
	if cfpOpen {
		return SpeakerSubmitted
	}
	return SpeakerDeliberationPending
}

// DeriveOrganizerStatus maps the stored flags to the organizer status.
func DeriveOrganizerStatus(p Proposal) OrganizerStatus {
	switch {
	case p.Confirmation == ConfirmationConfirmed:
		return OrganizerConfirmed
	case p.Confirmation == ConfirmationDeclined:
		return OrganizerDeclined
	case p.Deliberation == DeliberationAccepted && p.Publication == PublicationPublished:
		return OrganizerNotAnswered
	case p.Deliberation == DeliberationAccepted:
		return OrganizerAccepted
	case p.Deliberation == DeliberationRejected:
		return OrganizerRejected
	default:
		return OrganizerPending
	}
}
