package auth

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"nathanbeddoewebdev/reseed/internal/platform/providers"
	"nathanbeddoewebdev/reseed/internal/services/auth"
)

func useStore(t *testing.T, interactive bool) *auth.MockStore {
	t.Helper()
	store := auth.NewMockStore()

	origStore, origInteractive := newStore, isInteractive
	newStore = func() auth.Store { return store }
	isInteractive = func() bool { return interactive }
	t.Cleanup(func() {
		newStore = origStore
		isInteractive = origInteractive
	})
	return store
}

func execAuth(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLogin_StoresFlagValues(t *testing.T) {
	store := useStore(t, false)

	out, err := execAuth(t, "login", "AWS", "--access-key-id", " AKIAEXAMPLE ", "--secret-access-key", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Saved credentials for AWS") {
		t.Errorf("unexpected output: %q", out)
	}

	for key, want := range map[string]string{
		"aws-access-key-id":     "AKIAEXAMPLE",
		"aws-secret-access-key": "s3cret",
	} {
		got, err := store.GetToken(key)
		if err != nil {
			t.Fatalf("GetToken(%q): %v", key, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestLogin_MissingFlagNonInteractive(t *testing.T) {
	store := useStore(t, false)

	_, err := execAuth(t, "login", "aws", "--access-key-id", "AKIAEXAMPLE")
	if err == nil || !strings.Contains(err.Error(), "--secret-access-key is required") {
		t.Fatalf("expected missing flag error, got %v", err)
	}
	if _, err := store.GetToken("aws-access-key-id"); err == nil {
		t.Error("nothing should be stored when a key is missing")
	}
}

func TestLogin_PromptsForMissingValues(t *testing.T) {
	store := useStore(t, true)

	orig := promptCredential
	var prompted []string
	promptCredential = func(_ context.Context, key providers.CredentialKey) (string, error) {
		prompted = append(prompted, key.Key)
		return "prompted-" + key.Key, nil
	}
	t.Cleanup(func() { promptCredential = orig })

	if _, err := execAuth(t, "login", "aws", "--access-key-id", "AKIAEXAMPLE"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prompted) != 1 || prompted[0] != "secret-access-key" {
		t.Errorf("prompted = %v, want [secret-access-key]", prompted)
	}
	got, _ := store.GetToken("aws-secret-access-key")
	if got != "prompted-secret-access-key" {
		t.Errorf("secret = %q", got)
	}
}

func TestLogin_UnknownProvider(t *testing.T) {
	useStore(t, false)

	_, err := execAuth(t, "login", "gcp")
	if err == nil || !strings.Contains(err.Error(), `unknown provider "gcp"`) {
		t.Fatalf("expected unknown provider error, got %v", err)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		stored map[string]string
		want   string
	}{
		{name: "none", want: "not logged in"},
		{
			name:   "partial",
			stored: map[string]string{"aws-access-key-id": "AKIA"},
			want:   "incomplete (1 of 2 keys stored)",
		},
		{
			name:   "complete",
			stored: map[string]string{"aws-access-key-id": "AKIA", "aws-secret-access-key": "s"},
			want:   "logged in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := useStore(t, false)
			for k, v := range tt.stored {
				_ = store.SetToken(k, v)
			}

			out, err := execAuth(t, "status")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, "aws: ") || !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	store := useStore(t, false)
	_ = store.SetToken("aws-access-key-id", "AKIA")
	_ = store.SetToken("aws-secret-access-key", "s")

	out, err := execAuth(t, "logout", "aws")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Removed credentials for AWS") {
		t.Errorf("unexpected output: %q", out)
	}
	if _, err := store.GetToken("aws-access-key-id"); err == nil {
		t.Error("access key should be removed")
	}

	out, err = execAuth(t, "logout", "aws")
	if err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if !strings.Contains(out, "No stored credentials") {
		t.Errorf("unexpected output: %q", out)
	}
}
