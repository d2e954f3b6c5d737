package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"conferencehall/internal/domain/event"
	"conferencehall/internal/errs"
	"conferencehall/internal/infrastructure/persistence/sqlite/model"
	"conferencehall/internal/ports"
)

// EventRepository reads event settings and team membership.
type EventRepository struct {
	db *gorm.DB
}

var (
	_ ports.EventReader = (*EventRepository)(nil)
	_ ports.Authorizer  = (*EventRepository)(nil)
)

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetEventBySlug(ctx context.Context, slug string) (event.Event, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return event.Event{}, err
	}
	return findEvent(db, "slug = ?", strings.TrimSpace(slug))
}

func (r *EventRepository) GetEventByID(ctx context.Context, eventID string) (event.Event, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return event.Event{}, err
	}
	return findEvent(db, "id = ?", eventID)
}

// RequireTeamRole resolves the event and checks the caller's role on the
// event's team. A missing event is reported as forbidden so callers cannot
// check which slugs exist.
func (r *EventRepository) RequireTeamRole(ctx context.Context, userID string, eventSlug string, roles []event.TeamRole) (event.Event, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return event.Event{}, err
	}

	userID = strings.TrimSpace(userID)
	if userID == "" || len(roles) == 0 {
		return event.Event{}, errs.ErrForbiddenOperation
	}

	ev, err := findEvent(db, "slug = ?", strings.TrimSpace(eventSlug))
	if err != nil {
		if errors.Is(err, errs.ErrEventNotFound) {
			return event.Event{}, errs.ErrForbiddenOperation
		}
		return event.Event{}, err
	}

	allowed := make([]string, 0, len(roles))
	for _, role := range roles {
		allowed = append(allowed, string(role))
	}

	var count int64
	if err := db.Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND role IN ?", ev.TeamID, userID, allowed).
		Count(&count).Error; err != nil {
		return event.Event{}, errs.Wrap(err, "query team member role")
	}
	if count == 0 {
		return event.Event{}, errs.ErrForbiddenOperation
	}
	return ev, nil
}

func findEvent(db *gorm.DB, where string, arg any) (event.Event, error) {
	var row model.Event
	if err := db.Where(where, arg).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return event.Event{}, errs.ErrEventNotFound
		}
		return event.Event{}, errs.Wrap(err, "query event")
	}
	return mapEvent(row), nil
}

func mapEvent(row model.Event) event.Event {
	return event.Event{
		ID:                       row.ID,
		Slug:                     row.Slug,
		TeamID:                   row.TeamID,
		Name:                     row.Name,
		Type:                     event.Type(row.Type),
		CfpStart:                 row.CfpStart,
		CfpEnd:                   row.CfpEnd,
		ReviewEnabled:            row.ReviewEnabled,
		DisplayProposalsSpeakers: row.DisplayProposalsSpeakers,
		DisplayProposalsRatings:  row.DisplayProposalsRatings,
	}
}
