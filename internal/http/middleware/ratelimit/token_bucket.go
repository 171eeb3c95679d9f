package ratelimit

import (
	"sync"
	"time"
)

// Config tunes the token-bucket limiter.
type Config struct {
	// Rate is the steady-state refill in tokens per second.
	Rate float64
	// Burst caps how many tokens a bucket can hold.
	Burst int
	// TTL evicts buckets idle longer than this. Zero keeps them forever.
	TTL time.Duration
	// MaxBuckets bounds the number of tracked keys. Zero means unbounded.
	// When the table is full, unseen keys are rejected rather than grown.
	MaxBuckets int
}

// TokenBucketLimiter keeps one token bucket per client key.
type TokenBucketLimiter struct {
	cfg   Config
	clock Clock

	mu        sync.RWMutex
	buckets   map[string]*tokenBucket
	lastSweep time.Time
}

type tokenBucket struct {
	mu       sync.Mutex
	tokens   float64
	refillAt time.Time
	touched  time.Time
}

// NewTokenBucketLimiter builds a limiter from cfg. Non-positive Rate and
// Burst fall back to 1 so a zero config still limits instead of blocking
// everything.
func NewTokenBucketLimiter(clock Clock, cfg Config) *TokenBucketLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &TokenBucketLimiter{
		cfg:     cfg,
		clock:   clock,
		buckets: make(map[string]*tokenBucket),
	}
}

// Allow takes one token from the key's bucket, reporting false when the
// bucket is empty or the key table is full.
func (l *TokenBucketLimiter) Allow(key string) bool {
	now := l.clock.Now()
	l.sweepIdle(now)

	b := l.bucketFor(key, now)
	if b == nil {
		return false
	}
	return b.take(now, l.cfg.Rate, float64(l.cfg.Burst))
}

func (l *TokenBucketLimiter) bucketFor(key string, now time.Time) *tokenBucket {
	l.mu.RLock()
	b := l.buckets[key]
	l.mu.RUnlock()
	if b != nil {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if b = l.buckets[key]; b != nil {
		return b
	}
	if l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets {
		return nil
	}

	b = &tokenBucket{
		tokens:   float64(l.cfg.Burst),
		refillAt: now,
		touched:  now,
	}
	l.buckets[key] = b
	return b
}

func (b *tokenBucket) take(now time.Time, rate, burst float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dt := now.Sub(b.refillAt); dt > 0 {
		b.tokens = min(b.tokens+dt.Seconds()*rate, burst)
		b.refillAt = now
	}
	b.touched = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweepIdle drops buckets unseen for longer than TTL. Runs at most once per
// minute (or TTL/2 when that is longer) so hot paths pay nothing most calls.
func (l *TokenBucketLimiter) sweepIdle(now time.Time) {
	if l.cfg.TTL <= 0 {
		return
	}

	interval := time.Minute
	if half := l.cfg.TTL / 2; half > interval {
		interval = half
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.lastSweep.IsZero() && now.Sub(l.lastSweep) < interval {
		return
	}
	l.lastSweep = now

	for k, b := range l.buckets {
		b.mu.Lock()
		idle := now.Sub(b.touched) > l.cfg.TTL
		b.mu.Unlock()
		if idle {
			delete(l.buckets, k)
		}
	}
}
