package ratelimit

import "time"

// Limiter decides whether a request keyed by client identity may proceed.
type Limiter interface {
	Allow(key string) bool
}

// NopLimiter admits everything. Used when limiting is disabled.
type NopLimiter struct{}

// Allow always reports true.
func (NopLimiter) Allow(string) bool { return true }

// Clock abstracts time for deterministic limiter tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

// Now returns the current wall-clock time.
func (RealClock) Now() time.Time { return time.Now() }
