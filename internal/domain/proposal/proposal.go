package proposal

import (
	"strings"
	"time"
)

type DeliberationStatus string

const (
	DeliberationPending  DeliberationStatus = "PENDING"
	DeliberationAccepted DeliberationStatus = "ACCEPTED"
	DeliberationRejected DeliberationStatus = "REJECTED"
)

type PublicationStatus string

const (
	PublicationNotPublished PublicationStatus = "NOT_PUBLISHED"
	PublicationPublished    PublicationStatus = "PUBLISHED"
)

type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "PENDING"
	ConfirmationConfirmed ConfirmationStatus = "CONFIRMED"
	ConfirmationDeclined  ConfirmationStatus = "DECLINED"
)

type Level string

const (
	LevelBeginner     Level = "BEGINNER"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

// Proposal is one speaker submission to one event.
type Proposal struct {
	ID             string
	EventID        string
	Number         *int64
	Title          string
	Abstract       string
	References     string
	Level          Level
	Languages      []string
	IsDraft        bool
	SubmittedAt    *time.Time
	Deliberation   DeliberationStatus
	Publication    PublicationStatus
	Confirmation   ConfirmationStatus
	AvgRateForSort *float64
	FormatIDs      []string
	CategoryIDs    []string
	Speakers       []Speaker
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Speaker is a person attached to a proposal, in invitation order.
type Speaker struct {
	ID      string
	UserID  string
	Name    string
	Company string
}

// IsSubmitted reports whether the proposal left the draft state.
func (p Proposal) IsSubmitted() bool {
	return !p.IsDraft
}

// HasSpeaker reports whether userID is one of the proposal speakers.
func (p Proposal) HasSpeaker(userID string) bool {
	for _, speaker := range p.Speakers {
		if speaker.UserID != "" && speaker.UserID == userID {
			return true
		}
	}
	return false
}

// SpeakerNames lists speaker names in invitation order.
func (p Proposal) SpeakerNames() []string {
	names := make([]string, 0, len(p.Speakers))
	for _, speaker := range p.Speakers {
		if name := strings.TrimSpace(speaker.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func ParseDeliberationStatus(raw string) (DeliberationStatus, bool) {
	status := DeliberationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case DeliberationPending, DeliberationAccepted, DeliberationRejected:
		return status, true
	}
	return "", false
}

func ParseLevel(raw string) (Level, bool) {
	level := Level(strings.ToUpper(strings.TrimSpace(raw)))
	switch level {
	case "":
		return "", true
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return level, true
	}
	return "", false
}
