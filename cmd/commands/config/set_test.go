package config

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/reseed/internal/config"
	"nathanbeddoewebdev/reseed/internal/domain"
	"nathanbeddoewebdev/reseed/internal/providers"
	"nathanbeddoewebdev/reseed/internal/services/auth"
)

// setupTestConfig points the config package at a temp file.
func setupTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)
	return path
}

// registerTestProvider registers a mock provider in the global registry.
func registerTestProvider(t *testing.T, name string) {
	t.Helper()
	providers.Reset()
	t.Cleanup(providers.Reset)
	providers.Register(name, func(context.Context, auth.Store, providers.Options) (domain.Provider, error) {
		return &providers.MockProvider{}, nil
	})
}

// execConfig creates the config command, wires up output buffers, runs with the
// given args, and returns what was written to stdout and stderr.
func execConfig(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	_ = cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestSet_DefaultProvider(t *testing.T) {
	setupTestConfig(t)
	registerTestProvider(t, "aws")

	stdout, stderr := execConfig(t, "set", "default-provider", "aws")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"aws"`) {
		t.Errorf("expected confirmation with provider name, got: %s", stdout)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DefaultProvider != "aws" {
		t.Errorf("expected DefaultProvider %q, got %q", "aws", cfg.DefaultProvider)
	}
}

func TestSet_DefaultProvider_UnknownProvider(t *testing.T) {
	setupTestConfig(t)
	registerTestProvider(t, "aws")

	_, stderr := execConfig(t, "set", "default-provider", "nonexistent")

	if !strings.Contains(stderr, "unknown provider") {
		t.Errorf("expected 'unknown provider' error, got: %s", stderr)
	}
}

func TestSet_DefaultProvider_CaseInsensitive(t *testing.T) {
	setupTestConfig(t)
	registerTestProvider(t, "aws")

	stdout, stderr := execConfig(t, "set", "default-provider", "AWS")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"aws"`) {
		t.Errorf("expected normalized provider name, got: %s", stdout)
	}
}

func TestSet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "bogus-key", "value")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}

func TestSet_ValidatesValue(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"region", "Mars-1"},
		{"image", "img-123"},
		{"tag-key", "aws:reserved"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			setupTestConfig(t)

			_, stderr := execConfig(t, "set", tt.key, tt.value)

			if !strings.Contains(stderr, "invalid value for "+tt.key) {
				t.Errorf("expected validation error, got: %s", stderr)
			}
			cfg, _ := config.Load()
			if got := config.Lookup(tt.key).Get(cfg); got != "" {
				t.Errorf("invalid value was saved: %q", got)
			}
		})
	}
}

func TestSet_TagAndRegion(t *testing.T) {
	setupTestConfig(t)

	for _, args := range [][]string{
		{"set", "region", "eu-west-1"},
		{"set", "tag-key", "team"},
		{"set", "tag-value", "infra"},
	} {
		if _, stderr := execConfig(t, args...); stderr != "" {
			t.Fatalf("%v: unexpected stderr: %s", args, stderr)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	want := config.Config{Region: "eu-west-1", TagKey: "team", TagValue: "infra"}
	if *cfg != want {
		t.Errorf("config = %+v, want %+v", *cfg, want)
	}
}

func TestSet_EmptyValueClears(t *testing.T) {
	path := setupTestConfig(t)
	if err := (&config.Config{Image: "ami-123"}).SaveTo(path); err != nil {
		t.Fatal(err)
	}

	stdout, stderr := execConfig(t, "set", "image", "")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "image cleared") {
		t.Errorf("expected cleared message, got: %s", stdout)
	}
	cfg, _ := config.Load()
	if cfg.Image != "" {
		t.Errorf("image = %q, want empty", cfg.Image)
	}
}
