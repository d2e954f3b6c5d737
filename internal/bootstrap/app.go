package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"conferencehall/internal/bootstrap/config"
	"conferencehall/internal/bootstrap/database"
	"conferencehall/internal/bootstrap/logging"
	"conferencehall/internal/errs"
	"conferencehall/internal/infrastructure/persistence/sqlite/model"
	"conferencehall/internal/infrastructure/persistence/sqlite/repository"
)

type App struct {
	Config config.Config
	DB     *gorm.DB
}

func New(ctx context.Context, configFile string) (*App, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "loading application config", slog.String("config_file", configFile))

	cfg, err := config.Load(logCtx, configFile)
	if err != nil {
		return nil, errs.Wrap(err, "load config")
	}

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, errs.Wrap(err, "open database")
	}

	logging.Info(logCtx, "application bootstrap completed", slog.String("database_driver", cfg.Database.Driver))

	return &App{
		Config: cfg,
		DB:     db,
	}, nil
}

func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration")

	tables := model.All()
	if err := a.DB.WithContext(ctx).AutoMigrate(tables...); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}

	filled, err := repository.BackfillSearchKeys(ctx, a.DB)
	if err != nil {
		return errs.Wrap(err, "backfill search keys")
	}
	if filled > 0 {
		logging.Info(logCtx, "search keys backfilled", slog.Int("rows", filled))
	}

	migratedAt := time.Now().UTC().Format(time.RFC3339)
	if err := repository.NewMetaRepository(a.DB).Set(ctx, model.MetaSchemaMigratedAt, migratedAt); err != nil {
		return errs.Wrap(err, "record schema migration")
	}

	logging.Info(logCtx, "schema migration completed", slog.Int("tables", len(tables)))
	return nil
}

func (a *App) Close(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	sqlDB, err := a.DB.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}

	if err := sqlDB.Close(); err != nil {
		return errs.Wrap(err, "close sql db")
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "bootstrap.app")), "database connection closed")
	return nil
}
