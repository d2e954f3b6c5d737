package event

import (
	"strings"
	"time"
)

type Type string

const (
	TypeConference Type = "CONFERENCE"
	TypeMeetup     Type = "MEETUP"
)

type TeamRole string

const (
	RoleOwner    TeamRole = "OWNER"
	RoleMember   TeamRole = "MEMBER"
	RoleReviewer TeamRole = "REVIEWER"
)

// Event is the read-only view of an event the engine needs.
type Event struct {
	ID                       string
	Slug                     string
	TeamID                   string
	Name                     string
	Type                     Type
	CfpStart                 *time.Time
	CfpEnd                   *time.Time
	ReviewEnabled            bool
	DisplayProposalsSpeakers bool
	DisplayProposalsRatings  bool
}

// IsCfpOpen reports whether the event accepts proposals at now.
// Conferences need both bounds; meetups open at CfpStart and stay open until
// CfpEnd when one is set.
func (e Event) IsCfpOpen(now time.Time) bool {
	if e.CfpStart == nil || now.Before(*e.CfpStart) {
		return false
	}
	switch e.Type {
	case TypeMeetup:
		return e.CfpEnd == nil || !now.After(*e.CfpEnd)
	default:
		return e.CfpEnd != nil && !now.After(*e.CfpEnd)
	}
}

// ParseTeamRole normalizes a role name.
func ParseTeamRole(raw string) (TeamRole, bool) {
	role := TeamRole(strings.ToUpper(strings.TrimSpace(raw)))
	switch role {
	case RoleOwner, RoleMember, RoleReviewer:
		return role, true
	}
	return "", false
}

var (
	OrganizerRoles = []TeamRole{RoleOwner, RoleMember}
	ReviewerRoles  = []TeamRole{RoleOwner, RoleMember, RoleReviewer}
)
