package scorer

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig tunes the retry decorator.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig is a sensible production default.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    8 * time.Second,
	}
}

// RetryScorer is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryScorer struct {
	inner  Scorer
	config RetryConfig
}

// WithRetry wraps a Scorer with retry logic.
func WithRetry(s Scorer, cfg RetryConfig) Scorer {
	return &RetryScorer{inner: s, config: cfg}
}

func (r *RetryScorer) Score(ctx context.Context, req Request) (*Result, error) {
	var lastErr error
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		res, err := r.inner.Score(ctx, req)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !retryable(err) {
			return nil, err
		}
		// Last attempt — don't sleep, just return the error.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}
	return nil, lastErr
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrRateLimited)
}

// backoff computes the wait before the next attempt: exponential growth
// capped at MaxDelay, with up to 25% jitter.
func (r *RetryScorer) backoff(attempt int) time.Duration {
	wait := time.Duration(float64(r.config.BaseDelay) * math.Pow(2, float64(attempt)))
	if wait > r.config.MaxDelay {
		wait = r.config.MaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(wait)/4 + 1))
	return wait + jitter
}
