package cfp

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"conferencehall/internal/domain/proposal"
	"conferencehall/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "conferencehall/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "conferencehall/internal/infrastructure/persistence/sqlite/uow"
	"conferencehall/internal/ports"
)

type testCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newTestCache() *testCache {
	return &testCache{
		data: make(map[string]string),
	}
}

func (c *testCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *testCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *testCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func (c *testCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) tick() { c.now = c.now.Add(time.Minute) }

type harness struct {
	svc   *Service
	db    *gorm.DB
	cache *testCache
	clock *testClock
	deps  Dependencies
}

const eventSlug = "devfest"

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "cfp.sqlite") + "?_pragma=busy_timeout(5000)"
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

// setupService seeds the devfest conference with an open CFP, reviews
// enabled, and speakers and ratings displayed.
func setupService(t *testing.T, opts ...Option) harness {
	t.Helper()
	return setupServiceOn(t, setupDB(t), opts...)
}

// setupServiceOn seeds the devfest conference into db.
func setupServiceOn(t *testing.T, db *gorm.DB, opts ...Option) harness {
	t.Helper()

	clock := &testClock{now: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)}

	team := model.Team{ID: "team-1", Slug: "gdg", Name: "GDG"}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("create team: %v", err)
	}
	for userID, role := range map[string]string{"owner": "OWNER", "member": "MEMBER", "reviewer": "REVIEWER"} {
		if err := db.Create(&model.TeamMember{TeamID: team.ID, UserID: userID, Role: role}).Error; err != nil {
			t.Fatalf("create team member: %v", err)
		}
	}
	cfpStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cfpEnd := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	ev := model.Event{
		ID:                       "event-1",
		Slug:                     eventSlug,
		TeamID:                   team.ID,
		Name:                     "Devfest",
		Type:                     "CONFERENCE",
		CfpStart:                 &cfpStart,
		CfpEnd:                   &cfpEnd,
		ReviewEnabled:            true,
		DisplayProposalsSpeakers: true,
		DisplayProposalsRatings:  true,
	}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}

	events := sqliterepo.NewEventRepository(db)
	cache := newTestCache()
	deps := Dependencies{
		Proposals:  sqliterepo.NewProposalRepository(db),
		Reviews:    sqliterepo.NewReviewRepository(db),
		Sequence:   sqliterepo.NewSequenceRepository(),
		Events:     events,
		Authorizer: events,
		UoW:        sqliteuow.NewUnitOfWork(db),
		Cache:      cache,
	}
	svc := NewService(deps, append([]Option{WithClock(clock.Now)}, opts...)...)
	return harness{svc: svc, db: db, cache: cache, clock: clock, deps: deps}
}

func (h harness) updateEvent(t *testing.T, column string, value any) {
	t.Helper()
	if err := h.db.Model(&model.Event{}).Where("slug = ?", eventSlug).Update(column, value).Error; err != nil {
		t.Fatalf("update event %s: %v", column, err)
	}
}

func (h harness) closeCfp(t *testing.T) {
	t.Helper()
	closedAt := h.clock.now.Add(-time.Hour)
	h.updateEvent(t, "cfp_end", closedAt)
}

func (h harness) draft(t *testing.T, speakerID string, input ProposalInput) proposal.Proposal {
	t.Helper()
	h.clock.tick()
	created, err := h.svc.CreateDraft(context.Background(), speakerID, eventSlug, input)
	if err != nil {
		t.Fatalf("CreateDraft() error = %v", err)
	}
	return created
}

func (h harness) submitted(t *testing.T, speakerID string, input ProposalInput) proposal.Proposal {
	t.Helper()
	created := h.draft(t, speakerID, input)
	submitted, err := h.svc.SubmitProposal(context.Background(), speakerID, eventSlug, created.ID)
	if err != nil {
		t.Fatalf("SubmitProposal() error = %v", err)
	}
	return submitted
}

func (h harness) stored(t *testing.T, proposalID string) proposal.Proposal {
	t.Helper()
	p, err := h.deps.Proposals.GetProposalByID(context.Background(), proposalID)
	if err != nil {
		t.Fatalf("GetProposalByID() error = %v", err)
	}
	return p
}

var _ ports.Cache = (*testCache)(nil)

func intPtr(v int) *int { return &v }
