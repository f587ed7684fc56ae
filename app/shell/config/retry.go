package config

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

const (
	defaultConnectAttempts  = 5
	defaultConnectBaseDelay = 100 * time.Millisecond
	defaultJitterFactor     = 0.3

	logMsgConnectRetry   = "storage backend not reachable, retrying"
	logAttrAttempt       = "attempt"
	logAttrBackoffMillis = "backoff_ms"
	logAttrError         = "error"
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")
)

// RetryableFunc is a connectivity check that may succeed on a later attempt.
type RetryableFunc func(ctx context.Context) error

// RetryOption configures RetryWithExponentialBackoff.
type RetryOption func(*retryConfig) error

type retryConfig struct {
	maxAttempts int
	baseDelay   time.Duration
	onRetry     func(attempt int, delay time.Duration, err error)
}

// RetryWithExponentialBackoff calls fn until it succeeds, the attempts are used up,
// or ctx is done. Delays double from the base delay and carry up to 30% jitter.
// Context errors returned by fn are not retried.
func RetryWithExponentialBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) error {
	config := &retryConfig{
		maxAttempts: defaultConnectAttempts,
		baseDelay:   defaultConnectBaseDelay,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return err
		}
	}

	err := fn(ctx)

	for attempt := 1; attempt < config.maxAttempts && err != nil && !isContextError(err); attempt++ {
		delay := config.backoff(attempt)
		if config.onRetry != nil {
			config.onRetry(attempt, delay, err)
		}

		if waitErr := sleep(ctx, delay); waitErr != nil {
			return errors.Join(waitErr, err)
		}

		err = fn(ctx)
	}

	return err
}

// backoff is the delay before the given attempt, counted from zero.
func (c *retryConfig) backoff(attempt int) time.Duration {
	delay := c.baseDelay << (attempt - 1)
	jitter := time.Duration(rand.Float64() * defaultJitterFactor * float64(delay)) //nolint:gosec // jitter only

	return delay + jitter
}

func sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// WithMaxAttempts sets how often fn is called at most.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the delay before the second attempt.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithOnRetry registers a callback invoked before every repeated attempt.
func WithOnRetry(onRetry func(attempt int, delay time.Duration, err error)) RetryOption {
	return func(config *retryConfig) error {
		config.onRetry = onRetry
		return nil
	}
}

// pingWithRetry retries ping as often as cfg allows and logs every retry.
func pingWithRetry(ctx context.Context, cfg Config, logger recordstore.Logger, ping RetryableFunc) error {
	return RetryWithExponentialBackoff(ctx, ping,
		WithMaxAttempts(cfg.connectAttempts()),
		WithOnRetry(func(attempt int, delay time.Duration, err error) {
			if logger != nil {
				logger.Warn(logMsgConnectRetry,
					logAttrAttempt, attempt+1,
					logAttrBackoffMillis, delay.Milliseconds(),
					logAttrError, err.Error(),
				)
			}
		}),
	)
}
