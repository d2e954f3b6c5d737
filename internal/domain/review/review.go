package review

import (
	"fmt"
	"strings"
	"time"

	"conferencehall/internal/errs"
)

type Feeling string

const (
	FeelingNegative  Feeling = "NEGATIVE"
	FeelingNeutral   Feeling = "NEUTRAL"
	FeelingPositive  Feeling = "POSITIVE"
	FeelingNoOpinion Feeling = "NO_OPINION"
)

const (
	MinNote = 0
	MaxNote = 5
)

var (
	ErrInvalidFeeling = fmt.Errorf("%w: invalid feeling", errs.ErrInvalidArgument)
	ErrInvalidNote    = fmt.Errorf("%w: note must be between %d and %d", errs.ErrInvalidArgument, MinNote, MaxNote)
	ErrNoteRequired   = fmt.Errorf("%w: note is required unless feeling is NO_OPINION", errs.ErrInvalidArgument)
)

// Review is one reviewer's rating of one proposal.
type Review struct {
	ID         string
	ProposalID string
	ReviewerID string
	Feeling    Feeling
	Note       *int
	Comment    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func ParseFeeling(raw string) (Feeling, error) {
	feeling := Feeling(strings.ToUpper(strings.TrimSpace(raw)))
	switch feeling {
	case FeelingNegative, FeelingNeutral, FeelingPositive, FeelingNoOpinion:
		return feeling, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFeeling, raw)
}

// Normalize validates a rating and returns the note to store. NO_OPINION
// never carries a note.
func Normalize(feeling Feeling, note *int) (*int, error) {
	if _, err := ParseFeeling(string(feeling)); err != nil {
		return nil, err
	}
	if feeling == FeelingNoOpinion {
		return nil, nil
	}
	if note == nil {
		return nil, ErrNoteRequired
	}
	if *note < MinNote || *note > MaxNote {
		return nil, ErrInvalidNote
	}
	value := *note
	return &value, nil
}

// counts reports whether the review contributes a note to averages.
func (r Review) counts() bool {
	return r.Feeling != FeelingNoOpinion && r.Note != nil
}
