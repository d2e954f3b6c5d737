// Package seed loads reference data (users, teams, events, formats,
// categories) from a TOML fixture into the database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"conferencehall/internal/bootstrap/logging"
	"conferencehall/internal/domain/event"
	"conferencehall/internal/errs"
	"conferencehall/internal/infrastructure/persistence/sqlite/model"
	"conferencehall/internal/infrastructure/persistence/sqlite/repository"
	"conferencehall/internal/infrastructure/persistence/sqlite/uow"
	"conferencehall/internal/ports"
)

type Fixture struct {
	Users  []User  `toml:"users"`
	Teams  []Team  `toml:"teams"`
	Events []Event `toml:"events"`
}

type User struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

type Team struct {
	ID      string   `toml:"id"`
	Slug    string   `toml:"slug"`
	Name    string   `toml:"name"`
	Members []Member `toml:"members"`
}

type Member struct {
	UserID string `toml:"user_id"`
	Role   string `toml:"role"`
}

type Event struct {
	ID                       string     `toml:"id"`
	Slug                     string     `toml:"slug"`
	TeamID                   string     `toml:"team_id"`
	Name                     string     `toml:"name"`
	Type                     string     `toml:"type"`
	CfpStart                 *time.Time `toml:"cfp_start"`
	CfpEnd                   *time.Time `toml:"cfp_end"`
	ReviewEnabled            bool       `toml:"review_enabled"`
	DisplayProposalsSpeakers bool       `toml:"display_proposals_speakers"`
	DisplayProposalsRatings  bool       `toml:"display_proposals_ratings"`
	Formats                  []Option   `toml:"formats"`
	Categories               []Option   `toml:"categories"`
}

// Option is a named format or category of an event.
type Option struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Counts reports how many rows of each kind a fixture wrote.
type Counts struct {
	Users      int
	Teams      int
	Members    int
	Events     int
	Formats    int
	Categories int
}

func Parse(data []byte) (Fixture, error) {
	var f Fixture
	if err := toml.Unmarshal(data, &f); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return Fixture{}, errs.Wrapf(errs.ErrInvalidArgument, "parse seed fixture at %d:%d: %s", row, col, decodeErr.Error())
		}
		return Fixture{}, errs.Wrap(err, "parse seed fixture")
	}
	if err := f.Validate(); err != nil {
		return Fixture{}, err
	}
	return f, nil
}

func LoadFile(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, errs.Wrap(err, "read seed fixture")
	}
	return Parse(data)
}

// Validate checks identifiers and enums before anything is written.
func (f Fixture) Validate() error {
	teams := make(map[string]struct{}, len(f.Teams))
	for _, t := range f.Teams {
		if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Slug) == "" {
			return fmt.Errorf("%w: team id and slug are required", errs.ErrInvalidArgument)
		}
		teams[t.ID] = struct{}{}
		for _, m := range t.Members {
			if _, ok := event.ParseTeamRole(m.Role); !ok {
				return fmt.Errorf("%w: team %s member %s has role %q", errs.ErrInvalidArgument, t.Slug, m.UserID, m.Role)
			}
		}
	}
	for _, u := range f.Users {
		if strings.TrimSpace(u.ID) == "" || strings.TrimSpace(u.Email) == "" {
			return fmt.Errorf("%w: user id and email are required", errs.ErrInvalidArgument)
		}
	}
	for _, e := range f.Events {
		if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.Slug) == "" {
			return fmt.Errorf("%w: event id and slug are required", errs.ErrInvalidArgument)
		}
		if _, ok := teams[e.TeamID]; !ok {
			return fmt.Errorf("%w: event %s references unknown team %q", errs.ErrInvalidArgument, e.Slug, e.TeamID)
		}
		switch event.Type(strings.ToUpper(e.Type)) {
		case event.TypeConference, event.TypeMeetup:
		default:
			return fmt.Errorf("%w: event %s has type %q", errs.ErrInvalidArgument, e.Slug, e.Type)
		}
	}
	return nil
}

// Apply upserts every fixture row in one transaction and records source in
// app_meta. Re-applying the same fixture is idempotent.
func Apply(ctx context.Context, db *gorm.DB, f Fixture, source string) (Counts, error) {
	if db == nil {
		return Counts{}, errors.New("seed requires a database")
	}
	if err := f.Validate(); err != nil {
		return Counts{}, err
	}

	var counts Counts
	err := uow.NewUnitOfWork(db).WithTx(ctx, func(txCtx context.Context) error {
		tx, ok := ports.TxFromContext(txCtx).(*gorm.DB)
		if !ok {
			return ports.ErrNoTransaction
		}
		tx = tx.WithContext(txCtx)

		for _, u := range f.Users {
			row := model.User{ID: u.ID, Name: u.Name, Email: u.Email}
			if err := upsert(tx, &row); err != nil {
				return errs.Wrapf(err, "seed user %s", u.ID)
			}
			counts.Users++
		}
		for _, t := range f.Teams {
			if err := upsert(tx, &model.Team{ID: t.ID, Slug: t.Slug, Name: t.Name}); err != nil {
				return errs.Wrapf(err, "seed team %s", t.Slug)
			}
			counts.Teams++
			for _, m := range t.Members {
				role, _ := event.ParseTeamRole(m.Role)
				if err := upsert(tx, &model.TeamMember{TeamID: t.ID, UserID: m.UserID, Role: string(role)}); err != nil {
					return errs.Wrapf(err, "seed team member %s", m.UserID)
				}
				counts.Members++
			}
		}
		for _, e := range f.Events {
			row := model.Event{
				ID:                       e.ID,
				Slug:                     e.Slug,
				TeamID:                   e.TeamID,
				Name:                     e.Name,
				Type:                     strings.ToUpper(e.Type),
				CfpStart:                 utc(e.CfpStart),
				CfpEnd:                   utc(e.CfpEnd),
				ReviewEnabled:            e.ReviewEnabled,
				DisplayProposalsSpeakers: e.DisplayProposalsSpeakers,
				DisplayProposalsRatings:  e.DisplayProposalsRatings,
			}
			if err := upsert(tx, &row); err != nil {
				return errs.Wrapf(err, "seed event %s", e.Slug)
			}
			counts.Events++
			for _, o := range e.Formats {
				if err := upsert(tx, &model.Format{ID: o.ID, EventID: e.ID, Name: o.Name}); err != nil {
					return errs.Wrapf(err, "seed format %s", o.ID)
				}
				counts.Formats++
			}
			for _, o := range e.Categories {
				if err := upsert(tx, &model.Category{ID: o.ID, EventID: e.ID, Name: o.Name}); err != nil {
					return errs.Wrapf(err, "seed category %s", o.ID)
				}
				counts.Categories++
			}
		}
		if source == "" {
			return nil
		}
		return repository.NewMetaRepository(db).Set(txCtx, model.MetaSeedSource, source)
	})
	if err != nil {
		return Counts{}, err
	}

	logging.Info(ctx, "seed fixture applied",
		slog.Int("users", counts.Users),
		slog.Int("teams", counts.Teams),
		slog.Int("events", counts.Events),
		slog.String("source", source),
	)
	return counts, nil
}

func upsert(tx *gorm.DB, row any) error {
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
