package ports

import (
	"context"

	"conferencehall/internal/domain/event"
)

// EventReader exposes the read-only event settings.
type EventReader interface {
	GetEventBySlug(ctx context.Context, slug string) (event.Event, error)
	GetEventByID(ctx context.Context, eventID string) (event.Event, error)
}

// Authorizer resolves an event for a team member holding one of roles.
// It returns errs.ErrForbiddenOperation when the caller holds none of them,
// including when the event does not exist.
type Authorizer interface {
	RequireTeamRole(ctx context.Context, userID string, eventSlug string, roles []event.TeamRole) (event.Event, error)
}
