package repository

import (
	"context"
	"errors"
	"testing"

	"conferencehall/internal/domain/event"
	"conferencehall/internal/errs"
)

func TestRequireTeamRole(t *testing.T) {
	f := newFixture(t)
	seedEvent(t, f.db, "devfest", map[string]string{
		"owner":    "OWNER",
		"member":   "MEMBER",
		"reviewer": "REVIEWER",
	})
	seedEvent(t, f.db, "other", map[string]string{"stranger": "OWNER"})

	tests := []struct {
		name    string
		userID  string
		slug    string
		roles   []event.TeamRole
		wantErr bool
	}{
		{name: "reviewer may review", userID: "reviewer", slug: "devfest", roles: event.ReviewerRoles},
		{name: "reviewer cannot organize", userID: "reviewer", slug: "devfest", roles: event.OrganizerRoles, wantErr: true},
		{name: "member organizes", userID: "member", slug: "devfest", roles: event.OrganizerRoles},
		{name: "other team owner", userID: "stranger", slug: "devfest", roles: event.ReviewerRoles, wantErr: true},
		{name: "unknown event", userID: "owner", slug: "missing", roles: event.ReviewerRoles, wantErr: true},
		{name: "anonymous", userID: "", slug: "devfest", roles: event.ReviewerRoles, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := f.events.RequireTeamRole(context.Background(), tt.userID, tt.slug, tt.roles)
			if tt.wantErr {
				if !errors.Is(err, errs.ErrForbiddenOperation) {
					t.Fatalf("RequireTeamRole() error = %v, want forbidden", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("RequireTeamRole() error = %v", err)
			}
			if ev.Slug != tt.slug {
				t.Fatalf("RequireTeamRole() slug = %q, want %q", ev.Slug, tt.slug)
			}
		})
	}
}

func TestGetEventBySlugMapsSettings(t *testing.T) {
	f := newFixture(t)
	seedEvent(t, f.db, "devfest", nil)
	if err := f.db.Exec("UPDATE events SET display_proposals_ratings = ? WHERE slug = ?", false, "devfest").Error; err != nil {
		t.Fatalf("update event: %v", err)
	}

	ev, err := f.events.GetEventBySlug(context.Background(), "devfest")
	if err != nil {
		t.Fatalf("GetEventBySlug() error = %v", err)
	}
	if ev.Type != event.TypeConference || !ev.ReviewEnabled || !ev.DisplayProposalsSpeakers || ev.DisplayProposalsRatings {
		t.Fatalf("GetEventBySlug() = %+v", ev)
	}

	if _, err := f.events.GetEventBySlug(context.Background(), "missing"); !errors.Is(err, errs.ErrEventNotFound) {
		t.Fatalf("GetEventBySlug(missing) error = %v", err)
	}
}
