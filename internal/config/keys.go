package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/reseed/internal/util"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "default-provider"). It doubles
	// as the flag name whose default it supplies.
	Name string

	Description string

	Get func(cfg *Config) string
	Set func(cfg *Config, value string)

	// Validate, when set, rejects malformed values before they are saved.
	// An empty value always clears the key and is not validated.
	Validate func(value string) error
}

// Keys is the authoritative list of all supported configuration keys.
var Keys = []KeySpec{
	{
		Name:        "default-provider",
		Description: "Compute provider used when --provider is not specified",
		Get:         func(cfg *Config) string { return cfg.DefaultProvider },
		Set:         func(cfg *Config, v string) { cfg.DefaultProvider = util.NormalizeKey(v) },
	},
	{
		Name:        "region",
		Description: "Region used when --region is not specified",
		Get:         func(cfg *Config) string { return cfg.Region },
		Set:         func(cfg *Config, v string) { cfg.Region = v },
		Validate:    util.ValidateRegion,
	},
	{
		Name:        "image",
		Description: "Image ID used when neither the server file nor --image names one",
		Get:         func(cfg *Config) string { return cfg.Image },
		Set:         func(cfg *Config, v string) { cfg.Image = v },
		Validate: func(v string) error {
			if !strings.HasPrefix(v, "ami-") {
				return fmt.Errorf("image %q does not look like an image ID (expected ami-...)", v)
			}
			return nil
		},
	},
	{
		Name:        "tag-key",
		Description: "Key of the tag marking instances owned by reseed",
		Get:         func(cfg *Config) string { return cfg.TagKey },
		Set:         func(cfg *Config, v string) { cfg.TagKey = v },
		Validate:    util.ValidateTagKey,
	},
	{
		Name:        "tag-value",
		Description: "Value of the tag marking instances owned by reseed",
		Get:         func(cfg *Config) string { return cfg.TagValue },
		Set:         func(cfg *Config, v string) { cfg.TagValue = v },
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := util.NormalizeKey(name)
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// Apply validates value and stores it under the key. An empty value clears
// the key.
func (k *KeySpec) Apply(cfg *Config, value string) error {
	value = strings.TrimSpace(value)
	if value != "" && k.Validate != nil {
		if err := k.Validate(value); err != nil {
			return err
		}
	}
	k.Set(cfg, value)
	return nil
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
