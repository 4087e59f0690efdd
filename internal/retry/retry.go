// Package retry holds the timing primitives for bounded polling loops.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Config controls a bounded polling loop: at most MaxAttempts tries,
// separated by a fixed Delay.
type Config struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultConfig returns the default polling configuration: 60 attempts,
// 5 seconds apart.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 60,
		Delay:       5 * time.Second,
	}
}

// Validate reports whether the configuration can drive a loop.
func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("retry: max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.Delay < 0 {
		return fmt.Errorf("retry: delay must not be negative, got %s", c.Delay)
	}
	return nil
}

// Budget is the longest a loop with this configuration can wait between
// its first and last attempt.
func (c Config) Budget() time.Duration {
	if c.MaxAttempts <= 1 {
		return 0
	}
	return time.Duration(c.MaxAttempts-1) * c.Delay
}

// SleepFunc blocks for d, returning early with the context error if ctx is
// done first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the wall-clock SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
