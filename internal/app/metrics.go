package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"courierflow/internal/metrics"
)

type metricsOut struct {
	dig.Out

	ClaimsTotal            prometheus.Counter `name:"claims_total"`
	ClaimConflictsTotal    prometheus.Counter `name:"claim_conflicts_total"`
	TransitionsTotal       prometheus.Counter `name:"delivery_transitions_total"`
	NotifyRetriesTotal     prometheus.Counter `name:"notify_retries_total"`
	RateLimitExceededTotal prometheus.Counter `name:"rate_limit_exceeded_total"`
}

// provideMetrics registers the service counters on the default registerer.
// Counters that are already registered (container rebuilt within one process,
// typically in tests) are reused instead of failing the build.
func provideMetrics() (metricsOut, error) {
	out := metricsOut{}

	var err error
	if out.ClaimsTotal, err = registerCounter(metrics.NewClaimsTotal()); err != nil {
		return metricsOut{}, fmt.Errorf("register claims_total: %w", err)
	}
	if out.ClaimConflictsTotal, err = registerCounter(metrics.NewClaimConflictsTotal()); err != nil {
		return metricsOut{}, fmt.Errorf("register claim_conflicts_total: %w", err)
	}
	if out.TransitionsTotal, err = registerCounter(metrics.NewTransitionsTotal()); err != nil {
		return metricsOut{}, fmt.Errorf("register delivery_transitions_total: %w", err)
	}
	if out.NotifyRetriesTotal, err = registerCounter(metrics.NewNotifyRetriesTotal()); err != nil {
		return metricsOut{}, fmt.Errorf("register notify_retries_total: %w", err)
	}
	if out.RateLimitExceededTotal, err = registerCounter(metrics.NewRateLimitExceededTotal()); err != nil {
		return metricsOut{}, fmt.Errorf("register rate_limit_exceeded_total: %w", err)
	}
	return out, nil
}

func registerCounter(c prometheus.Counter) (prometheus.Counter, error) {
	err := prometheus.DefaultRegisterer.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(prometheus.Counter); ok {
			return existing, nil
		}
	}
	return nil, err
}
