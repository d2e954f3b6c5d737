package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"conferencehall/internal/bootstrap/config"
	"conferencehall/internal/bootstrap/database"
	"conferencehall/internal/bootstrap/logging"
	"conferencehall/internal/bootstrap/telemetry"
	"conferencehall/internal/errs"
	cacheinfra "conferencehall/internal/infrastructure/cache"
	sqliterepo "conferencehall/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "conferencehall/internal/infrastructure/persistence/sqlite/uow"
	"conferencehall/internal/ports"
	"conferencehall/internal/usecase/cfp"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewProposalRepository,
			fx.As(new(ports.ProposalRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewReviewRepository,
			fx.As(new(ports.ReviewRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewSequenceRepository,
			fx.As(new(ports.SequenceAllocator)),
		),
	),
	fx.Provide(sqliterepo.NewEventRepository),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(provideCache),
	fx.Provide(provideService),
	fx.Invoke(registerTelemetry),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

// provideCache selects the cache backend from config.
func provideCache(lc fx.Lifecycle, ctx context.Context, cfg config.Config, db *gorm.DB) ports.Cache {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"), slog.String("cache_backend", cfg.Cache.Backend))

	switch strings.ToLower(strings.TrimSpace(cfg.Cache.Backend)) {
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		})
		lc.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				if err := client.Ping(startCtx).Err(); err != nil {
					logging.Warn(logCtx, "redis unreachable, cache reads will miss", slog.Any("err", errs.Loggable(err)))
				}
				return nil
			},
			OnStop: func(_ context.Context) error {
				return client.Close()
			},
		})
		return cacheinfra.NewRedisCache(client)
	case config.CacheBackendNone:
		return cacheinfra.NoopCache{}
	default:
		return cacheinfra.NewSQLiteCache(db)
	}
}

type serviceParams struct {
	fx.In

	Config    config.Config
	Proposals ports.ProposalRepository
	Reviews   ports.ReviewRepository
	Sequence  ports.SequenceAllocator
	Events    *sqliterepo.EventRepository
	UoW       ports.UnitOfWork
	Cache     ports.Cache
}

func provideService(p serviceParams) *cfp.Service {
	return cfp.NewService(
		cfp.Dependencies{
			Proposals:  p.Proposals,
			Reviews:    p.Reviews,
			Sequence:   p.Sequence,
			Events:     p.Events,
			Authorizer: p.Events,
			UoW:        p.UoW,
			Cache:      p.Cache,
		},
		cfp.WithPageSize(p.Config.Search.PageSize),
		cfp.WithLeaderboardTTL(p.Config.Cache.TTL),
	)
}

func registerTelemetry(lc fx.Lifecycle, ctx context.Context, cfg config.Config) error {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	shutdown, err := telemetry.Setup(logCtx, cfg.Telemetry)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: shutdown,
	})
	return nil
}
