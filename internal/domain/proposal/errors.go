package proposal

import (
	"fmt"

	"conferencehall/internal/errs"
)

var (
	ErrAlreadySubmitted   = fmt.Errorf("%w: proposal is already submitted", errs.ErrInvalidTransition)
	ErrNotSubmitted       = fmt.Errorf("%w: proposal is not submitted", errs.ErrInvalidTransition)
	ErrAlreadyNumbered    = fmt.Errorf("%w: proposal already has a number", errs.ErrInvalidTransition)
	ErrNotDeliberated     = fmt.Errorf("%w: proposal has no deliberation decision to publish", errs.ErrInvalidTransition)
	ErrConfirmationLocked = fmt.Errorf("%w: confirmation requires an accepted and published proposal", errs.ErrInvalidTransition)
	ErrAlreadyAnswered    = fmt.Errorf("%w: speaker already answered", errs.ErrInvalidTransition)
	ErrNotEditable        = fmt.Errorf("%w: proposal can no longer be edited", errs.ErrInvalidTransition)

	ErrTitleRequired       = fmt.Errorf("%w: title is required", errs.ErrInvalidArgument)
	ErrInvalidLevel        = fmt.Errorf("%w: invalid level", errs.ErrInvalidArgument)
	ErrInvalidDeliberation = fmt.Errorf("%w: invalid deliberation status", errs.ErrInvalidArgument)
)
