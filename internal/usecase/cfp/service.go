package cfp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"conferencehall/internal/bootstrap/logging"
	"conferencehall/internal/domain/search"
	"conferencehall/internal/errs"
	"conferencehall/internal/ports"
)

const (
	tracerName            = "conferencehall/usecase/cfp"
	defaultLeaderboardTTL = 5 * time.Minute
)

// Dependencies are the collaborators the engine runs against.
type Dependencies struct {
	Proposals  ports.ProposalRepository
	Reviews    ports.ReviewRepository
	Sequence   ports.SequenceAllocator
	Events     ports.EventReader
	Authorizer ports.Authorizer
	UoW        ports.UnitOfWork
	Cache      ports.Cache
}

type Service struct {
	proposals  ports.ProposalRepository
	reviews    ports.ReviewRepository
	sequence   ports.SequenceAllocator
	events     ports.EventReader
	authorizer ports.Authorizer
	uow        ports.UnitOfWork
	cache      ports.Cache

	pageSize       int
	leaderboardTTL time.Duration
	sanitizer      *bluemonday.Policy
	tracer         trace.Tracer
	now            func() time.Time
}

type Option func(*Service)

// WithPageSize sets the fixed search page size.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithLeaderboardTTL sets how long a computed reviewer leaderboard is cached.
func WithLeaderboardTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.leaderboardTTL = ttl
		}
	}
}

// WithClock replaces time.Now, used for CFP windows and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// NewService wires the CFP usecases. Cache is optional.
func NewService(deps Dependencies, opts ...Option) *Service {
	s := &Service{
		proposals:      deps.Proposals,
		reviews:        deps.Reviews,
		sequence:       deps.Sequence,
		events:         deps.Events,
		authorizer:     deps.Authorizer,
		uow:            deps.UoW,
		cache:          deps.Cache,
		pageSize:       search.DefaultPageSize,
		leaderboardTTL: defaultLeaderboardTTL,
		sanitizer:      bluemonday.UGCPolicy(),
		tracer:         otel.Tracer(tracerName),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// begin checks the context and collaborators, opens the operation span, and
// returns a context carrying the span and the operation's log attributes.
func (s *Service) begin(ctx context.Context, op string, attrs ...slog.Attr) (context.Context, trace.Span, error) {
	if ctx == nil {
		return nil, nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, errs.Wrap(err, "check context")
	}
	if s.proposals == nil || s.reviews == nil || s.uow == nil || s.authorizer == nil || s.events == nil {
		return nil, nil, errors.New("cfp service is not fully wired")
	}

	spanAttrs := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		spanAttrs = append(spanAttrs, attribute.String(attr.Key, attr.Value.String()))
	}
	ctx, span := s.tracer.Start(ctx, "cfp."+op, trace.WithAttributes(spanAttrs...))

	ctx = logging.WithAttrs(ctx, append([]slog.Attr{
		slog.String("component", "usecase.cfp"),
		slog.String("operation", op),
	}, attrs...)...)
	return logging.WithSpan(ctx), span, nil
}

// end records err on the span, logs it, and closes the span.
func end(ctx context.Context, span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errs.IsAuthorization(err) {
			logging.Warn(ctx, "cfp operation denied", slog.String("code", string(errs.CodeOf(err))))
		} else {
			logging.Error(ctx, "cfp operation failed", slog.Any("err", errs.Loggable(err)))
		}
	}
	span.End()
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Service) setCacheBestEffort(ctx context.Context, key string, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.leaderboardTTL); err != nil {
		logging.Warn(ctx, "cache set failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}

func (s *Service) deleteCacheBestEffort(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		logging.Warn(ctx, "cache delete failed", slog.String("key", key), slog.Any("err", errs.Loggable(err)))
	}
}

func leaderboardCacheKey(eventID string) string {
	return "leaderboard:" + eventID
}
