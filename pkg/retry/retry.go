package retry

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	mathrand "math/rand"
	"time"

	"github.com/trigg3rX/keybrowser/pkg/logging"
)

// RetryConfig holds the configuration for retry operations
type RetryConfig struct {
	MaxRetries      int           // Maximum number of attempts
	InitialDelay    time.Duration // Delay after the first failure
	MaxDelay        time.Duration // Upper bound for any delay
	BackoffFactor   float64       // Multiplier applied to the delay after each failure
	JitterFactor    float64       // Extra random delay as a fraction of the current delay
	LogRetryAttempt bool
	// ShouldRetry decides whether err from the given 1-based attempt is worth
	// another try. Nil retries every error.
	ShouldRetry func(err error, attempt int) bool
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:      5,
		InitialDelay:    time.Second,
		MaxDelay:        30 * time.Second,
		BackoffFactor:   2.0,
		JitterFactor:    0.2,
		LogRetryAttempt: true,
	}
}

func (c *RetryConfig) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("MaxRetries must be >= 0")
	}
	if c.InitialDelay <= 0 {
		return errors.New("InitialDelay must be positive")
	}
	if c.MaxDelay <= 0 {
		return errors.New("MaxDelay must be positive")
	}
	if c.BackoffFactor < 1.0 {
		return errors.New("BackoffFactor must be >= 1.0")
	}
	if c.JitterFactor < 0 || c.JitterFactor > 1.0 {
		return errors.New("JitterFactor must be between 0.0 and 1.0")
	}
	return nil
}

// SecureFloat64 returns a random float64 in [0.0,1.0)
func SecureFloat64() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return mathrand.Float64()
	}
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}

// CalculateDelayWithJitter adds up to jitterFactor*baseDelay of random delay.
func CalculateDelayWithJitter(baseDelay time.Duration, jitterFactor float64) time.Duration {
	if jitterFactor <= 0 {
		return baseDelay
	}
	return baseDelay + time.Duration(jitterFactor*float64(baseDelay)*SecureFloat64())
}

// CalculateNextDelay applies exponential backoff capped at maxDelay.
func CalculateNextDelay(currentDelay time.Duration, backoffFactor float64, maxDelay time.Duration) time.Duration {
	next := time.Duration(float64(currentDelay) * backoffFactor)
	if next > maxDelay {
		return maxDelay
	}
	return next
}

// Retry runs operation until it succeeds, ShouldRetry rejects the error, the
// attempts are used up or ctx is done.
func Retry[T any](ctx context.Context, operation func() (T, error), config *RetryConfig, logger logging.Logger) (T, error) {
	var zero T

	if config == nil {
		config = DefaultRetryConfig()
	} else if err := config.Validate(); err != nil {
		return zero, fmt.Errorf("invalid retry config: %w", err)
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	attempts := max(config.MaxRetries, 1)
	var lastErr error
	delay := config.InitialDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := operation()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if config.ShouldRetry != nil && !config.ShouldRetry(err, attempt) {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		sleep := CalculateDelayWithJitter(delay, config.JitterFactor)
		if config.LogRetryAttempt {
			logger.Warnf("Attempt %d/%d failed: %v. Retrying in %v...", attempt, attempts, err, sleep)
		}

		timer := time.NewTimer(sleep)
		select {
		case <-timer.C:
			delay = CalculateNextDelay(delay, config.BackoffFactor, config.MaxDelay)
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		}
	}

	return zero, fmt.Errorf("operation failed after %d attempts: %w", attempts, lastErr)
}

// RetryFunc is Retry for operations that only return an error.
func RetryFunc(ctx context.Context, operation func() error, config *RetryConfig, logger logging.Logger) error {
	_, err := Retry(ctx, func() (struct{}, error) {
		return struct{}{}, operation()
	}, config, logger)
	return err
}
