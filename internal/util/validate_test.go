package util

import (
	"strings"
	"testing"
)

func TestValidateRegion_Valid(t *testing.T) {
	valid := []string{
		"us-east-2",
		"eu-west-1",
		"ap-southeast-2",
		"us-gov-west-1",
		"me-central-1",
	}
	for _, region := range valid {
		t.Run(region, func(t *testing.T) {
			if err := ValidateRegion(region); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", region, err)
			}
		})
	}
}

func TestValidateRegion_Invalid(t *testing.T) {
	tests := []struct {
		region  string
		wantMsg string
	}{
		{"", "cannot be empty"},
		{"US-EAST-2", "not a valid region"},
		{"us-east", "not a valid region"},
		{"useast2", "not a valid region"},
		{"us east 2", "not a valid region"},
	}
	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			err := ValidateRegion(tt.region)
			if err == nil {
				t.Fatalf("expected %q to be invalid, got nil", tt.region)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestValidateTagKey(t *testing.T) {
	tests := []struct {
		key     string
		wantMsg string
	}{
		{"reseed:owner", ""},
		{"foo", ""},
		{"", "cannot be empty"},
		{"   ", "cannot be empty"},
		{"aws:cloudformation", "reserved"},
		{"AWS:thing", "reserved"},
		{strings.Repeat("k", 129), "at most 128"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateTagKey(tt.key)
			if tt.wantMsg == "" {
				if err != nil {
					t.Errorf("expected %q to be valid, got %v", tt.key, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("ValidateTagKey(%q) = %v, want error containing %q", tt.key, err, tt.wantMsg)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("  AWS "); got != "aws" {
		t.Errorf("NormalizeKey = %q, want %q", got, "aws")
	}
}
