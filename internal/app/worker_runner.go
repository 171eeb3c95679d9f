package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"courierflow/internal/logx"
	"courierflow/internal/transport/kafka"
)

// WorkerRunner runs the announcements consumer and the expiry sweep
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the worker using the provided DI container
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(func(in workerIn) error {
		return workerRun(in.Ctx, in.Pool, in.Logger, in.Consumer, in.Sweeper, in.Interval)
	})
}

type workerIn struct {
	dig.In

	Ctx      context.Context
	Logger   logx.Logger
	Pool     *pgxpool.Pool
	Consumer *kafka.Consumer
	Sweeper  *expirySweeper
	Interval expireInterval
}

func workerRun(
	ctx context.Context,
	pool *pgxpool.Pool,
	logger logx.Logger,
	consumer *kafka.Consumer,
	sweeper *expirySweeper,
	interval expireInterval,
) error {
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: worker container misconfigured")
	}
	defer closeWorker(pool, logger, consumer)

	startExpiryLoop(ctx, logger, sweeper, time.Duration(interval))

	logger.Info("delivery worker started")
	return consumer.Run(ctx)
}

func startExpiryLoop(ctx context.Context, logger logx.Logger, sweeper *expirySweeper, interval time.Duration) {
	if sweeper == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := sweeper.Sweep(ctx); err != nil {
					logger.Warn("expiry sweep failed", logx.Err(err))
				}
			}
		}
	}()
}

func closeWorker(pool *pgxpool.Pool, logger logx.Logger, kafkaConsumer *kafka.Consumer) {
	if kafkaConsumer != nil {
		if err := kafkaConsumer.Close(); err != nil {
			logger.Error("kafka close error", logx.Err(err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}
