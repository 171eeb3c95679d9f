package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"courierflow/internal/config"
	"courierflow/internal/gateway/notify"
	"courierflow/internal/http/handlers"
	"courierflow/internal/http/pprofserver"
	"courierflow/internal/http/router"
	"courierflow/internal/logx"
	"courierflow/internal/repository"
	"courierflow/internal/service/assignment"
	"courierflow/internal/service/lifecycle"
	"courierflow/internal/service/matching"
	"courierflow/internal/service/policy"
	"courierflow/internal/service/tracking"
	"courierflow/internal/transport/kafka"
	"courierflow/internal/types"
)

// expireInterval is how often the housekeeping loop sweeps overdue requests.
type expireInterval time.Duration

type dbConnectFunc func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect dbConnectFunc
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns the dig container for the HTTP service
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds and returns the dig container for the
// announcements worker
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	b := NewContainerBuilder()
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		config.Load,
		func(cfg *config.Config) expireInterval {
			return expireInterval(cfg.Worker.ExpireInterval)
		},
	)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, logger logx.Logger, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type notifierIn struct {
	dig.In

	Logger   logx.Logger
	Producer *kafka.Producer
	Retries  prometheus.Counter `name:"notify_retries_total"`
}

type assignmentIn struct {
	dig.In

	Repo      *repository.EngineRepo
	Notifier  *notify.RetryingPublisher
	Timeout   time.Duration
	Logger    logx.Logger
	Claims    prometheus.Counter `name:"claims_total"`
	Conflicts prometheus.Counter `name:"claim_conflicts_total"`
}

type lifecycleIn struct {
	dig.In

	Repo        *repository.EngineRepo
	Notifier    *notify.RetryingPublisher
	Schedule    policy.Schedule
	Timeout     time.Duration
	Logger      logx.Logger
	Transitions prometheus.Counter `name:"delivery_transitions_total"`
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		provideMetrics,
		repository.NewEngineRepo,
		func() time.Duration { return 3 * time.Second },
		func(cfg *config.Config) policy.Schedule {
			return policy.Schedule{
				LateThreshold:    cfg.Cancellation.LateThreshold,
				EarlyFeePct:      cfg.Cancellation.EarlyFeePct,
				LateFeePct:       cfg.Cancellation.LateFeePct,
				InProgressFeePct: cfg.Cancellation.InProgressFeePct,
			}
		},
		func(logger logx.Logger, cfg *config.Config) (*kafka.Producer, error) {
			return kafka.NewProducer(logger, cfg.Kafka.Brokers, cfg.Kafka.NotificationsTopic)
		},
		func(in notifierIn) *notify.RetryingPublisher {
			return notify.NewRetryingPublisher(in.Producer, in.Logger, in.Retries, notify.RetryConfig{
				MaxAttempts: 3,
				BaseDelay:   100 * time.Millisecond,
				MaxDelay:    2 * time.Second,
			})
		},
		func(in assignmentIn) *assignment.Service {
			return assignment.NewService(in.Repo, in.Notifier, in.Timeout, in.Logger).
				WithCounters(in.Claims, in.Conflicts)
		},
		func(in lifecycleIn) *lifecycle.Service {
			return lifecycle.NewService(in.Repo, in.Notifier, in.Schedule, in.Timeout, in.Logger).
				WithCounter(in.Transitions)
		},
		func(repo *repository.EngineRepo, cfg *config.Config, timeout time.Duration, logger logx.Logger) *matching.Service {
			weights := matching.Weights{
				Distance:     cfg.Matching.DistanceWeight,
				Price:        cfg.Matching.PriceWeight,
				PriceCeiling: types.Money(cfg.Matching.PriceCeilingCents),
			}
			return matching.NewService(repo, weights, cfg.Matching.MaxDistanceKm, timeout, logger)
		},
		func(repo *repository.EngineRepo, timeout time.Duration, logger logx.Logger) *tracking.Service {
			return tracking.NewService(repo, timeout, logger)
		},
	)
}

type routerIn struct {
	dig.In

	Logger      logx.Logger
	Base        *handlers.Handlers
	Match       *handlers.MatchHandler
	Claim       *handlers.ClaimHandler
	Transitions *handlers.TransitionHandler
	Tracking    *handlers.TrackingHandler
	RateLimit   rateLimitMiddleware
}

type httpServersOut struct {
	dig.Out

	Main  *http.Server
	Pprof *http.Server `name:"pprof_server"`
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) httpServersOut {
		out := httpServersOut{
			Main: &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Port),
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      15 * time.Second,
				IdleTimeout:       60 * time.Second,
			},
		}
		if cfg.Pprof.Enabled {
			out.Pprof = &http.Server{
				Addr:              cfg.Pprof.Addr,
				Handler:           pprofserver.Handler(pprofserver.Config{User: cfg.Pprof.User, Pass: cfg.Pprof.Pass}),
				ReadHeaderTimeout: 5 * time.Second,
			}
		}
		return out
	}
	routerProvider := func(in routerIn) http.Handler {
		return router.New(router.Deps{
			Logger:      in.Logger,
			Base:        in.Base,
			Match:       in.Match,
			Claim:       in.Claim,
			Transitions: in.Transitions,
			Tracking:    in.Tracking,
			RateLimit:   in.RateLimit,
		})
	}
	return provideAll(container,
		handlers.New,
		handlers.NewMatchUsecase,
		handlers.NewMatchHandler,
		handlers.NewClaimUsecase,
		handlers.NewClaimHandler,
		handlers.NewTransitionUsecase,
		handlers.NewTransitionHandler,
		handlers.NewTrackingUsecase,
		handlers.NewTrackingHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		routerProvider,
		serverProvider,
	)
}
