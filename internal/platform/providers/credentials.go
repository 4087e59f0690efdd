// Package providers holds provider credential metadata shared between the
// compute providers and the auth commands.
package providers

import "nathanbeddoewebdev/reseed/internal/util"

// CredentialKey describes a single credential field for a provider.
type CredentialKey struct {
	// Key is the suffix appended to the provider name to form the keychain key.
	Key string

	// Prompt is the human-readable label shown when prompting the user.
	Prompt string

	// Secret controls whether the input should be masked.
	Secret bool
}

// CredentialSpec describes the complete credential scheme for a provider.
type CredentialSpec struct {
	Provider    string
	DisplayName string
	Keys        []CredentialKey
}

// KeychainKey returns "<provider>-<key>", or just the provider name when
// the key has no suffix.
func (s CredentialSpec) KeychainKey(k CredentialKey) string {
	if k.Key == "" {
		return s.Provider
	}
	return s.Provider + "-" + k.Key
}

var knownSpecs = []CredentialSpec{
	{
		Provider:    "aws",
		DisplayName: "AWS",
		Keys: []CredentialKey{
			{Key: "access-key-id", Prompt: "Access Key ID", Secret: false},
			{Key: "secret-access-key", Prompt: "Secret Access Key", Secret: true},
		},
	},
}

// Lookup returns the CredentialSpec for the given provider name,
// or nil if no spec is registered for that provider.
func Lookup(providerName string) *CredentialSpec {
	normalized := util.NormalizeKey(providerName)
	for i := range knownSpecs {
		if knownSpecs[i].Provider == normalized {
			return &knownSpecs[i]
		}
	}
	return nil
}

// All returns a copy of all registered credential specs.
func All() []CredentialSpec {
	out := make([]CredentialSpec, len(knownSpecs))
	copy(out, knownSpecs)
	return out
}
