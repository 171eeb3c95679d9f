package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"courierflow/internal/config"
	"courierflow/internal/http/middleware/ratelimit"
	"courierflow/internal/logx"
)

// rateLimitMiddleware is the router-facing shape of the rate limiter. A nil
// value means rate limiting is disabled and the router mounts nothing.
type rateLimitMiddleware func(http.Handler) http.Handler

func newRateLimiter(cfg *config.Config, clock ratelimit.Clock) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	return ratelimit.NewTokenBucketLimiter(clock, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}

func newRateLimitClock() ratelimit.Clock {
	return ratelimit.RealClock{}
}

type rateLimitIn struct {
	dig.In

	Config  *config.Config
	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) rateLimitMiddleware {
	if !in.Config.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(in.Logger, in.Counter, in.Limiter).Handler()
}
