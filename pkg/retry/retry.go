package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
	ErrContextCanceled    = errors.New("context canceled during retry")
)

// Config contains retry configuration
type Config struct {
	// MaxRetries is the number of retries after the first attempt (0 = single attempt)
	MaxRetries int
	// InitialInterval is the backoff before the first retry
	InitialInterval time.Duration
	// MaxInterval caps the backoff
	MaxInterval time.Duration
	// Multiplier grows the interval after each retry
	Multiplier float64
	// JitterFactor in [0, 1]; 0.2 means ±20%
	JitterFactor float64
}

// DefaultConfig is tuned for short optimistic-concurrency retries: 10ms, 20ms, 40ms...
func DefaultConfig() Config {
	return Config{
		MaxRetries:      5,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     200 * time.Millisecond,
		Multiplier:      2.0,
		JitterFactor:    0.2,
	}
}

// Operation is the function to be retried
type Operation func(ctx context.Context) error

// RetryableError marks an error as worth another attempt.
// Errors that are not wrapped with Retryable stop the loop immediately.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Retryable marks an error as retryable
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// RetryCallback is called before each retry with the attempt number (1-based)
type RetryCallback func(attempt int, err error, nextInterval time.Duration)

// Retrier handles retry logic with exponential backoff
type Retrier struct {
	config   Config
	callback RetryCallback
}

// New creates a Retrier, filling zero values from DefaultConfig
func New(config Config) *Retrier {
	def := DefaultConfig()
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = def.InitialInterval
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = def.MaxInterval
	}
	if config.MaxInterval < config.InitialInterval {
		config.MaxInterval = config.InitialInterval
	}
	if config.Multiplier < 1 {
		config.Multiplier = def.Multiplier
	}
	if config.JitterFactor < 0 {
		config.JitterFactor = 0
	}
	if config.JitterFactor > 1 {
		config.JitterFactor = 1
	}

	return &Retrier{config: config}
}

// WithCallback returns a copy of the Retrier that reports each retry
func (r *Retrier) WithCallback(callback RetryCallback) *Retrier {
	return &Retrier{config: r.config, callback: callback}
}

// Do executes op until it succeeds, returns a non-retryable error or
// exhausts MaxRetries. The returned error keeps the original error in its chain.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return joinCanceled(err, lastErr)
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		var retryable *RetryableError
		if !errors.As(err, &retryable) {
			return err
		}
		lastErr = retryable.Err

		if attempt == r.config.MaxRetries {
			break
		}

		interval := r.interval(attempt)
		if r.callback != nil {
			r.callback(attempt+1, lastErr, interval)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return joinCanceled(ctx.Err(), lastErr)
		case <-timer.C:
		}
	}

	return fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, lastErr)
}

func (r *Retrier) interval(attempt int) time.Duration {
	interval := float64(r.config.InitialInterval)
	for i := 0; i < attempt; i++ {
		interval *= r.config.Multiplier
		if interval >= float64(r.config.MaxInterval) {
			interval = float64(r.config.MaxInterval)
			break
		}
	}

	if r.config.JitterFactor > 0 {
		delta := interval * r.config.JitterFactor
		interval += delta * (2*rand.Float64() - 1)
	}
	return time.Duration(interval)
}

func joinCanceled(ctxErr, lastErr error) error {
	if lastErr == nil {
		return fmt.Errorf("%w: %w", ErrContextCanceled, ctxErr)
	}
	return fmt.Errorf("%w: %w: %w", ErrContextCanceled, ctxErr, lastErr)
}
