package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	cacheinfra "conferencehall/internal/infrastructure/cache"
	"conferencehall/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "conferencehall/internal/infrastructure/persistence/sqlite/repository"
	"conferencehall/internal/infrastructure/persistence/sqlite/seed"
	sqliteuow "conferencehall/internal/infrastructure/persistence/sqlite/uow"
	"conferencehall/internal/usecase/cfp"
)

const commandFixture = `
[[teams]]
id = "team-1"
slug = "gdg"
name = "GDG"
members = [
  { user_id = "owner", role = "OWNER" },
  { user_id = "reviewer", role = "REVIEWER" },
]

[[events]]
id = "event-1"
slug = "devfest"
team_id = "team-1"
name = "DevFest"
type = "CONFERENCE"
cfp_start = 2026-03-01T00:00:00Z
cfp_end = 2026-03-31T00:00:00Z
review_enabled = true
display_proposals_speakers = true
display_proposals_ratings = true
formats = [{ id = "fmt-talk", name = "Talk" }]
`

func newTestService(t *testing.T) *cfp.Service {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "cmd.sqlite") + "?_pragma=busy_timeout(5000)"
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

	fixture, err := seed.Parse([]byte(commandFixture))
	if err != nil {
		t.Fatalf("seed.Parse() error = %v", err)
	}
	if _, err := seed.Apply(context.Background(), db, fixture, "inline"); err != nil {
		t.Fatalf("seed.Apply() error = %v", err)
	}

	events := sqliterepo.NewEventRepository(db)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	return cfp.NewService(cfp.Dependencies{
		Proposals:  sqliterepo.NewProposalRepository(db),
		Reviews:    sqliterepo.NewReviewRepository(db),
		Sequence:   sqliterepo.NewSequenceRepository(),
		Events:     events,
		Authorizer: events,
		UoW:        sqliteuow.NewUnitOfWork(db),
		Cache:      cacheinfra.NoopCache{},
	}, cfp.WithClock(func() time.Time { return now }))
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%s %v error = %v\n%s", cmd.Name(), args, err, out.String())
	}
	return out.String()
}

func TestProposalLifecycleCommands(t *testing.T) {
	svc := newTestService(t)

	out := runCommand(t, newProposalsCmd(svc), "draft",
		"--user", "speaker-1", "--event", "devfest",
		"--title", "Go generics in practice", "--level", "intermediate",
		"--format", "fmt-talk", "--speaker-name", "Alice",
	)
	if !strings.HasPrefix(out, "created draft: ") {
		t.Fatalf("draft output = %q", out)
	}
	proposalID := strings.TrimSpace(strings.TrimPrefix(out, "created draft: "))

	out = runCommand(t, newProposalsCmd(svc), "submit", "--user", "speaker-1", "--event", "devfest", "--proposal", proposalID)
	if !strings.Contains(out, "number=1") {
		t.Fatalf("submit output = %q, want number=1", out)
	}

	out = runCommand(t, newReviewsCmd(svc), "rate",
		"--user", "reviewer", "--event", "devfest", "--proposal", proposalID,
		"--feeling", "positive", "--note", "4",
	)
	if !strings.Contains(out, "feeling=POSITIVE") || !strings.Contains(out, "average=4.0") {
		t.Fatalf("rate output = %q", out)
	}

	out = runCommand(t, newProposalsCmd(svc), "search", "--user", "owner", "--event", "devfest", "--query", "alice")
	if !strings.Contains(out, "Go generics in practice") || !strings.Contains(out, "pending=1") {
		t.Fatalf("search output = %q", out)
	}

	out = runCommand(t, newProposalsCmd(svc), "deliberate",
		"--user", "owner", "--event", "devfest", "--proposal", proposalID, "--status", "ACCEPTED",
	)
	if !strings.Contains(out, "changed=1") {
		t.Fatalf("deliberate output = %q", out)
	}

	out = runCommand(t, newProposalsCmd(svc), "publish", "--user", "owner", "--event", "devfest", "--proposal", proposalID)
	if !strings.Contains(out, "status=not-answered") {
		t.Fatalf("publish output = %q", out)
	}

	out = runCommand(t, newProposalsCmd(svc), "confirm", "--user", "speaker-1", "--proposal", proposalID)
	if !strings.Contains(out, "ConfirmedBySpeaker") {
		t.Fatalf("confirm output = %q", out)
	}

	out = runCommand(t, newReviewsCmd(svc), "leaderboard", "--user", "owner", "--event", "devfest")
	if !strings.Contains(out, "reviewer") || !strings.Contains(out, "100%") {
		t.Fatalf("leaderboard output = %q", out)
	}
}

func TestProposalsCommandRequiresUser(t *testing.T) {
	svc := newTestService(t)

	cmd := newProposalsCmd(svc)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"search", "--event", "devfest"})
	if err := cmd.ExecuteContext(context.Background()); err == nil || !strings.Contains(err.Error(), "--user is required") {
		t.Fatalf("search without user error = %v", err)
	}
}

func TestSearchFlagsBuildFilters(t *testing.T) {
	t.Parallel()

	cmd := newProposalsSearchCmd(nil)
	if err := cmd.ParseFlags([]string{
		"--query", " rust ",
		"--status", "accepted,declined",
		"--format", "fmt-talk",
		"--ratings", "not-rated-by-me",
		"--email-accepted", "sent",
		"--sort", "highest",
		"--page", "3",
	}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	filters := searchFiltersFromFlags(cmd)
	if filters.Query != "rust" {
		t.Fatalf("query = %q, want rust", filters.Query)
	}
	if len(filters.Statuses) != 2 || filters.Statuses[1] != "declined" {
		t.Fatalf("statuses = %v", filters.Statuses)
	}
	if filters.Ratings != "not-rated-by-me" || filters.EmailAcceptedStatus != "sent" || filters.Sort != "highest" {
		t.Fatalf("filters = %+v", filters)
	}

	page, _ := cmd.Flags().GetInt("page")
	if page != 3 {
		t.Fatalf("page = %d, want 3", page)
	}
}
