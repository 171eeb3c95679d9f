package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"courierflow/internal/logx"
	"courierflow/internal/transport/kafka"
)

// Runner runs the HTTP service
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the HTTP server using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := loggerFrom(container)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Info("startup aborted: startup timeout exceeded")
	default:
		log.Fatalf("run error: %v", err)
	}
}

func loggerFrom(container *dig.Container) logx.Logger {
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })
	return logger
}

type runIn struct {
	dig.In

	Ctx      context.Context
	Logger   logx.Logger
	Pool     *pgxpool.Pool
	Server   *http.Server
	Pprof    *http.Server `name:"pprof_server" optional:"true"`
	Producer *kafka.Producer
}

func run(container *dig.Container) error {
	return container.Invoke(func(in runIn) error {
		startServer(in.Server, "service-delivery", in.Logger)
		if in.Pprof != nil {
			startServer(in.Pprof, "pprof", in.Logger)
		}
		waitForShutdown(in.Ctx, in.Logger)
		gracefulShutdown(in.Server, in.Logger, 15*time.Second)
		if in.Pprof != nil {
			gracefulShutdown(in.Pprof, in.Logger, time.Second)
		}
		closeResources(in.Pool, in.Server, in.Producer, in.Logger)
		return in.Ctx.Err()
	})
}

func startServer(server *http.Server, name string, logger logx.Logger) {
	go func() {
		logger.Info(name+" listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()
}

func waitForShutdown(ctx context.Context, logger logx.Logger) {
	<-ctx.Done()
	logger.Info("shutting down service-delivery...")
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(pool *pgxpool.Pool, server *http.Server, producer *kafka.Producer, logger logx.Logger) {
	if err := server.Close(); err != nil {
		logger.Warn("server close error", logx.Err(err))
	}
	if err := producer.Close(); err != nil {
		logger.Warn("kafka producer close error", logx.Err(err))
	}
	if pool != nil {
		pool.Close()
	}
}
