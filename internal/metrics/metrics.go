package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewClaimsTotal returns a Prometheus counter for successful claims.
func NewClaimsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "claims_total",
		Help: "Total number of successful delivery request claims",
	})
}

// NewClaimConflictsTotal returns a Prometheus counter for claims lost to
// another courier.
func NewClaimConflictsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "claim_conflicts_total",
		Help: "Total number of claim attempts rejected because the request was already claimed",
	})
}

// NewTransitionsTotal returns a Prometheus counter for successful lifecycle
// transitions.
func NewTransitionsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_transitions_total",
		Help: "Total number of successful delivery lifecycle transitions",
	})
}

// NewRequestsExpiredTotal returns a Prometheus counter for requests expired by
// the housekeeping loop.
func NewRequestsExpiredTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "requests_expired_total",
		Help: "Total number of delivery requests marked expired",
	})
}

// NewNotifyRetriesTotal returns a Prometheus counter for retry attempts
// performed by the notification publisher.
func NewNotifyRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_retries_total",
		Help: "Total number of retry attempts performed by the notification publisher",
	})
}

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}
