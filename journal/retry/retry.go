// Package retry wraps journal append calls with exponential backoff and
// jitter for transient backend failures, adapted from the teacher's
// persistence-layer retry helper. It has exactly one legitimate caller
// in this codebase: the relational and wide-column journal backends,
// retrying their own write RPCs. Aggregate command handling is
// synchronous and pure and must never retry — retrying a handle() call
// would double-apply a command — so nothing in domain/order or service
// imports this package.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Config controls backoff shape and which error classes are retried.
type Config struct {
	Enabled         bool
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	JitterEnabled   bool
	RetryOnDeadlock bool
	RetryOnTimeout  bool
}

// DefaultConfig is a conservative three-attempt exponential backoff with
// jitter, retrying deadlocks and lock-wait timeouts.
var DefaultConfig = Config{
	Enabled:         true,
	MaxAttempts:     3,
	InitialDelay:    100 * time.Millisecond,
	MaxDelay:        2 * time.Second,
	BackoffFactor:   2.0,
	JitterEnabled:   true,
	RetryOnDeadlock: true,
	RetryOnTimeout:  true,
}

// backoff computes the delay before the given attempt (1-indexed),
// applying exponential growth capped at MaxDelay and +/-20% jitter.
func backoff(attempt int, cfg Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if cfg.JitterEnabled {
		delay *= 0.8 + rand.Float64()*0.4
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// isRetryable reports whether err is a transient backend failure worth
// retrying: MySQL deadlocks (1213) and lock-wait timeouts (1205), or a
// lost/invalid connection. A unique-key violation is never retryable —
// it will fail identically on every attempt.
func isRetryable(err error, cfg Config) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false
	}

	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1213:
			return cfg.RetryOnDeadlock
		case 1205:
			return cfg.RetryOnTimeout
		}
	}

	errStr := err.Error()
	if cfg.RetryOnDeadlock && (strings.Contains(errStr, "deadlock") || strings.Contains(errStr, "lock wait timeout")) {
		return true
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) {
		return true
	}
	if strings.Contains(errStr, "connection") && strings.Contains(errStr, "lost") {
		return true
	}
	return false
}

// Execute runs fn, retrying with backoff while the error is transient
// and attempts remain, or fn succeeds, or ctx is cancelled.
func Execute(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	if !cfg.Enabled || cfg.MaxAttempts <= 0 {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err, cfg) || attempt == cfg.MaxAttempts {
			break
		}

		delay := backoff(attempt, cfg)
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}
	return lastErr
}
