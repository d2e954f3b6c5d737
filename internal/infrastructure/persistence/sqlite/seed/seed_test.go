package seed

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"conferencehall/internal/errs"
	"conferencehall/internal/infrastructure/persistence/sqlite/model"
	"conferencehall/internal/infrastructure/persistence/sqlite/repository"
)

const fixtureTOML = `
[[users]]
id = "user-owner"
name = "Ada"
email = "ada@example.com"

[[users]]
id = "user-reviewer"
name = "Grace"
email = "grace@example.com"

[[teams]]
id = "team-1"
slug = "gdg"
name = "GDG"
members = [
  { user_id = "user-owner", role = "owner" },
  { user_id = "user-reviewer", role = "REVIEWER" },
]

[[events]]
id = "event-1"
slug = "devfest"
team_id = "team-1"
name = "DevFest"
type = "conference"
cfp_start = 2026-03-01T00:00:00Z
cfp_end = 2026-03-31T23:59:59Z
review_enabled = true
display_proposals_speakers = false
display_proposals_ratings = true
formats = [{ id = "fmt-talk", name = "Talk" }, { id = "fmt-workshop", name = "Workshop" }]
categories = [{ id = "cat-web", name = "Web" }]
`

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "seed.sqlite") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func TestParseFixture(t *testing.T) {
	f, err := Parse([]byte(fixtureTOML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(f.Users) != 2 || len(f.Teams) != 1 || len(f.Events) != 1 {
		t.Fatalf("Parse() = %d users, %d teams, %d events", len(f.Users), len(f.Teams), len(f.Events))
	}
	ev := f.Events[0]
	if ev.CfpStart == nil || ev.CfpStart.Day() != 1 || ev.CfpEnd == nil || ev.CfpEnd.Day() != 31 {
		t.Fatalf("cfp window = %v..%v", ev.CfpStart, ev.CfpEnd)
	}
	if len(ev.Formats) != 2 || ev.Formats[1].ID != "fmt-workshop" {
		t.Fatalf("formats = %+v", ev.Formats)
	}
}

func TestParseRejectsInvalidFixtures(t *testing.T) {
	cases := map[string]string{
		"syntax":       "[[users]\nid = 1",
		"role":         "[[teams]]\nid = \"t\"\nslug = \"t\"\nmembers = [{ user_id = \"u\", role = \"speaker\" }]",
		"unknown team": "[[events]]\nid = \"e\"\nslug = \"e\"\nteam_id = \"missing\"\ntype = \"MEETUP\"",
		"event type":   "[[teams]]\nid = \"t\"\nslug = \"t\"\n[[events]]\nid = \"e\"\nslug = \"e\"\nteam_id = \"t\"\ntype = \"webinar\"",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(raw)); err == nil {
				t.Fatalf("Parse() error = nil")
			}
		})
	}

	_, err := Parse([]byte(cases["role"]))
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("Parse(role) error = %v, want invalid argument", err)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	f, err := Parse([]byte(fixtureTOML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		counts, err := Apply(ctx, db, f, "fixtures/devfest.toml")
		if err != nil {
			t.Fatalf("Apply() #%d error = %v", i+1, err)
		}
		if counts.Users != 2 || counts.Members != 2 || counts.Formats != 2 || counts.Categories != 1 {
			t.Fatalf("Apply() counts = %+v", counts)
		}
	}

	var members int64
	if err := db.Model(&model.TeamMember{}).Count(&members).Error; err != nil {
		t.Fatalf("count members: %v", err)
	}
	if members != 2 {
		t.Fatalf("team members = %d, want 2", members)
	}

	var role string
	if err := db.Model(&model.TeamMember{}).Where("user_id = ?", "user-owner").Pluck("role", &role).Error; err != nil {
		t.Fatalf("query role: %v", err)
	}
	if role != "OWNER" {
		t.Fatalf("owner role = %q, want OWNER", role)
	}

	events := repository.NewEventRepository(db)
	ev, err := events.GetEventBySlug(ctx, "devfest")
	if err != nil {
		t.Fatalf("GetEventBySlug() error = %v", err)
	}
	if ev.DisplayProposalsSpeakers || !ev.DisplayProposalsRatings || !ev.ReviewEnabled {
		t.Fatalf("event flags = %+v", ev)
	}

	source, ok, err := repository.NewMetaRepository(db).Get(ctx, model.MetaSeedSource)
	if err != nil || !ok || source != "fixtures/devfest.toml" {
		t.Fatalf("seed source = %q, %v, %v", source, ok, err)
	}
}
