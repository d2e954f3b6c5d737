package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"conferencehall/internal/domain/proposal"
	"conferencehall/internal/infrastructure/persistence/sqlite/model"
	"conferencehall/internal/infrastructure/persistence/sqlite/uow"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "conferencehall.sqlite") + "?_pragma=busy_timeout(5000)"
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

type fixture struct {
	db        *gorm.DB
	uow       *uow.UnitOfWork
	proposals *ProposalRepository
	reviews   *ReviewRepository
	events    *EventRepository
	sequence  *SequenceRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := setupDB(t)
	return fixture{
		db:        db,
		uow:       uow.NewUnitOfWork(db),
		proposals: NewProposalRepository(db),
		reviews:   NewReviewRepository(db),
		events:    NewEventRepository(db),
		sequence:  NewSequenceRepository(),
	}
}

// seedEvent creates a team owning an event, with one member per role.
func seedEvent(t *testing.T, db *gorm.DB, slug string, members map[string]string) model.Event {
	t.Helper()

	team := model.Team{ID: "team-" + slug, Slug: "team-" + slug, Name: "Team " + slug}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("create team: %v", err)
	}
	for userID, role := range members {
		if err := db.Create(&model.TeamMember{TeamID: team.ID, UserID: userID, Role: role}).Error; err != nil {
			t.Fatalf("create team member: %v", err)
		}
	}

	ev := model.Event{
		ID:                       "event-" + slug,
		Slug:                     slug,
		TeamID:                   team.ID,
		Name:                     "Event " + slug,
		Type:                     "CONFERENCE",
		ReviewEnabled:            true,
		DisplayProposalsSpeakers: true,
		DisplayProposalsRatings:  true,
	}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	return ev
}

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func createSubmitted(t *testing.T, f fixture, p proposal.Proposal, minute int) proposal.Proposal {
	t.Helper()

	p.CreatedAt = baseTime.Add(time.Duration(minute) * time.Minute)
	created, err := f.proposals.CreateProposal(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateProposal() error = %v", err)
	}
	return created
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
