package notify

import (
	"context"
	"errors"
	"time"

	"courierflow/internal/domain"
	"courierflow/internal/logx"
	"courierflow/internal/transport/kafka"
)

type publisher interface {
	PublishTrackingEvent(context.Context, domain.TrackingEvent) error
}

type counter interface {
	Inc()
}

// RetryConfig describes the RetryingPublisher backoff behaviour.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingPublisher wraps a tracking-event publisher with bounded
// exponential-backoff retries. Broker hiccups are absorbed here so the
// services behind it stay fire-and-forget.
type RetryingPublisher struct {
	next    publisher
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	sleep   func(time.Duration)
}

// NewRetryingPublisher returns nil when next is nil, so an unconfigured
// broker disables publishing end to end.
func NewRetryingPublisher(next publisher, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingPublisher {
	if next == nil || isNilPublisher(next) {
		return nil
	}
	return &RetryingPublisher{next: next, logger: logger, retries: retries, cfg: cfg, sleep: time.Sleep}
}

// PublishTrackingEvent delivers one event, retrying transient failures.
func (p *RetryingPublisher) PublishTrackingEvent(ctx context.Context, ev domain.TrackingEvent) error {
	if p == nil {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		err := p.next.PublishTrackingEvent(ctx, ev)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == p.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(p.cfg.BaseDelay, p.cfg.MaxDelay, attempt)
		if p.retries != nil {
			p.retries.Inc()
		}
		p.logger.Warn("notify publish retry",
			logx.String("delivery_id", ev.DeliveryID),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, p.sleep, delay) {
			break
		}
	}
	return lastErr
}

// isNilPublisher catches a typed-nil *kafka.Producer hiding behind the
// interface.
func isNilPublisher(next publisher) bool {
	kp, ok := next.(*kafka.Producer)
	return ok && kp == nil
}

func isRetryable(err error) bool {
	var perm kafka.PermanentError
	if errors.As(err, &perm) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, sleep func(time.Duration), d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
