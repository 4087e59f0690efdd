package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxAttempts != 60 {
		t.Errorf("MaxAttempts = %d, want 60", cfg.MaxAttempts)
	}
	if cfg.Delay != 5*time.Second {
		t.Errorf("Delay = %s, want 5s", cfg.Delay)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero attempts", Config{MaxAttempts: 0, Delay: time.Second}},
		{"negative attempts", Config{MaxAttempts: -3, Delay: time.Second}},
		{"negative delay", Config{MaxAttempts: 3, Delay: -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Errorf("expected error for %+v", tt.cfg)
			}
		})
	}
}

func TestBudget(t *testing.T) {
	if got := (Config{MaxAttempts: 1, Delay: time.Minute}).Budget(); got != 0 {
		t.Errorf("single attempt budget = %s, want 0", got)
	}
	if got := (Config{MaxAttempts: 60, Delay: 5 * time.Second}).Budget(); got != 295*time.Second {
		t.Errorf("budget = %s, want 4m55s", got)
	}
}

func TestSleep_Elapses(t *testing.T) {
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestSleep_ZeroDelay(t *testing.T) {
	if err := Sleep(context.Background(), 0); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestSleep_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Sleep(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
