package config

import (
	"strings"
	"testing"

	"nathanbeddoewebdev/reseed/internal/config"
)

func TestGet_DefaultProvider_NotSet(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "get", "default-provider")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "not set") {
		t.Errorf("expected 'not set', got: %s", stdout)
	}
}

func TestGet_Region_Set(t *testing.T) {
	path := setupTestConfig(t)

	cfg := &config.Config{Region: "eu-central-1"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, stderr := execConfig(t, "get", "REGION")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if strings.TrimSpace(stdout) != "eu-central-1" {
		t.Errorf("expected 'eu-central-1', got: %s", stdout)
	}
}

func TestGet_All(t *testing.T) {
	path := setupTestConfig(t)
	if err := (&config.Config{TagKey: "team"}).SaveTo(path); err != nil {
		t.Fatal(err)
	}

	stdout, _ := execConfig(t, "get")

	for _, name := range config.KeyNames() {
		if !strings.Contains(stdout, name+":") {
			t.Errorf("expected %s in listing:\n%s", name, stdout)
		}
	}
	if !strings.Contains(stdout, "tag-key: team") {
		t.Errorf("expected tag-key value in listing:\n%s", stdout)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "get", "bogus-key")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}
