package providers

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookup_AWS(t *testing.T) {
	spec := Lookup("  AWS ")
	if spec == nil {
		t.Fatal("expected aws spec, got nil")
	}

	var keys []string
	for _, k := range spec.Keys {
		keys = append(keys, spec.KeychainKey(k))
	}
	want := []string{"aws-access-key-id", "aws-secret-access-key"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("keychain keys mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup_Unknown(t *testing.T) {
	if spec := Lookup("hetzner"); spec != nil {
		t.Errorf("expected nil for unknown provider, got %+v", spec)
	}
}

func TestKeychainKey_EmptySuffix(t *testing.T) {
	spec := CredentialSpec{Provider: "gcp"}
	if got := spec.KeychainKey(CredentialKey{}); got != "gcp" {
		t.Errorf("KeychainKey = %q, want %q", got, "gcp")
	}
}
