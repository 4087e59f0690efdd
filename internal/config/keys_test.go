package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookup_Exists(t *testing.T) {
	for _, name := range []string{"default-provider", " Region ", "IMAGE", "tag-key", "tag-value"} {
		if spec := Lookup(name); spec == nil {
			t.Errorf("expected to find key %q, got nil", name)
		}
	}
}

func TestLookup_Unknown(t *testing.T) {
	if spec := Lookup("dns-provider"); spec != nil {
		t.Errorf("expected nil for unknown key, got %+v", spec)
	}
}

func TestKeyNames(t *testing.T) {
	want := []string{"default-provider", "region", "image", "tag-key", "tag-value"}
	if diff := cmp.Diff(want, KeyNames()); diff != "" {
		t.Errorf("key names mismatch (-want +got):\n%s", diff)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr string
		check   func(*Config) string
		want    string
	}{
		{key: "region", value: "eu-central-1", check: func(c *Config) string { return c.Region }, want: "eu-central-1"},
		{key: "region", value: "mars", wantErr: "not a valid region"},
		{key: "image", value: "ami-abc", check: func(c *Config) string { return c.Image }, want: "ami-abc"},
		{key: "image", value: "ubuntu", wantErr: "does not look like an image ID"},
		{key: "tag-key", value: "aws:name", wantErr: "reserved"},
		{key: "tag-value", value: "  prod ", check: func(c *Config) string { return c.TagValue }, want: "prod"},
		{key: "default-provider", value: "AWS", check: func(c *Config) string { return c.DefaultProvider }, want: "aws"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := Lookup(tt.key).Apply(cfg, tt.value)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Apply error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := tt.check(cfg); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApply_EmptyClears(t *testing.T) {
	cfg := &Config{Region: "us-east-2"}
	if err := Lookup("region").Apply(cfg, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Region != "" {
		t.Errorf("Region = %q, want cleared", cfg.Region)
	}
}

func TestKeysHelp(t *testing.T) {
	help := KeysHelp()
	if !strings.HasPrefix(help, "Available keys:\n") {
		t.Errorf("unexpected help header:\n%s", help)
	}
	for _, name := range KeyNames() {
		if !strings.Contains(help, name) {
			t.Errorf("help missing key %q", name)
		}
	}
}
