package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"courierflow/internal/config"
	"courierflow/internal/logx"
	"courierflow/internal/metrics"
	"courierflow/internal/repository"
	"courierflow/internal/service/announce"
	"courierflow/internal/transport/kafka"
)

// expiryStore is the slice of the repository the sweep needs.
type expiryStore interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// expirySweeper marks overdue open requests expired on a timer.
type expirySweeper struct {
	store   expiryStore
	logger  logx.Logger
	expired prometheus.Counter
	now     func() time.Time
}

func newExpirySweeper(store expiryStore, logger logx.Logger, expired prometheus.Counter) *expirySweeper {
	return &expirySweeper{
		store:   store,
		logger:  logger,
		expired: expired,
		now:     time.Now,
	}
}

func (s *expirySweeper) Sweep(ctx context.Context) error {
	n, err := s.store.ExpireOverdue(ctx, s.now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		s.expired.Add(float64(n))
		s.logger.Info("expired overdue requests", logx.Int64("count", n))
	}
	return nil
}

func makeAnnounceHandler(p *announce.Processor) kafka.HandleFunc {
	return func(ctx context.Context, event announce.Event) error {
		hCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return p.Handle(hCtx, event)
	}
}

type sweeperIn struct {
	dig.In

	Repo    *repository.EngineRepo
	Logger  logx.Logger
	Expired prometheus.Counter `name:"requests_expired_total"`
}

type workerMetricsOut struct {
	dig.Out

	RequestsExpiredTotal prometheus.Counter `name:"requests_expired_total"`
}

func provideWorkerMetrics() (workerMetricsOut, error) {
	expired, err := registerCounter(metrics.NewRequestsExpiredTotal())
	if err != nil {
		return workerMetricsOut{}, err
	}
	return workerMetricsOut{RequestsExpiredTotal: expired}, nil
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		provideWorkerMetrics,
		repository.NewEngineRepo,
		func(repo *repository.EngineRepo) announce.RequestStore { return repo },
		announce.NewProcessor,
		makeAnnounceHandler,
		func(logger logx.Logger, cfg *config.Config, h kafka.HandleFunc) (*kafka.Consumer, error) {
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.AnnouncementsTopic, h)
		},
		func(in sweeperIn) *expirySweeper {
			return newExpirySweeper(in.Repo, in.Logger, in.Expired)
		},
	)
}
