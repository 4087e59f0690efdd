// Package settings resolves the per-run options shared by the commands that
// talk to a provider. Each option is read, highest precedence first, from
// its flag, a RESEED_* environment variable, the saved user preference and
// finally the built-in default.
package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"nathanbeddoewebdev/reseed/internal/config"
	"nathanbeddoewebdev/reseed/internal/domain"
	"nathanbeddoewebdev/reseed/internal/retry"
	"nathanbeddoewebdev/reseed/internal/util"
)

// EnvNamePrefix prefixes every environment variable, e.g. RESEED_REGION.
const EnvNamePrefix = "RESEED"

// Built-in defaults.
const (
	DefaultProvider = "aws"
	DefaultRegion   = "us-east-2"
	DefaultImage    = "ami-0603cbe34fd08cb81"
	DefaultTagKey   = "reseed:owner"
	DefaultTagValue = "reseed"
)

// Settings are the resolved options for one run.
type Settings struct {
	Provider string
	Region   string
	Image    string
	TagKey   string
	TagValue string
	Attempts int
	Delay    time.Duration
	Yes      bool
	DryRun   bool
}

// Tag returns the ownership tag.
func (s *Settings) Tag() domain.Tag {
	return domain.Tag{Key: s.TagKey, Value: s.TagValue}
}

// Retry returns the termination wait budget.
func (s *Settings) Retry() retry.Config {
	return retry.Config{MaxAttempts: s.Attempts, Delay: s.Delay}
}

// AddProviderFlags registers the flags selecting the provider, region,
// image and ownership tag.
func AddProviderFlags(fs *pflag.FlagSet) {
	fs.String("provider", "", "Compute provider (default \""+DefaultProvider+"\")")
	fs.String("region", "", "Provider region (default \""+DefaultRegion+"\")")
	fs.String("image", "", "Image ID used when the server file has no image_id (default \""+DefaultImage+"\")")
	fs.String("tag-key", "", "Key of the tag marking owned instances (default \""+DefaultTagKey+"\")")
	fs.String("tag-value", "", "Value of the tag marking owned instances (default \""+DefaultTagValue+"\")")
}

// AddRunFlags registers the flags controlling a provisioning run.
func AddRunFlags(fs *pflag.FlagSet) {
	def := retry.DefaultConfig()
	fs.Int("attempts", def.MaxAttempts, "Maximum termination requests before giving up")
	fs.Duration("delay", def.Delay, "Pause between termination requests")
	fs.BoolP("yes", "y", false, "Do not ask before terminating previous instances")
	fs.Bool("dry-run", false, "Validate and print the plan without terminating or launching anything")
}

// Load resolves settings for the flags registered on fs, layering prefs
// between the environment and the built-in defaults.
func Load(fs *pflag.FlagSet, prefs *config.Config) (*Settings, error) {
	// Ensure keys with `-` use `_` for env keys else Viper won't match them.
	vpr := viper.NewWithOptions(viper.EnvKeyReplacer(strings.NewReplacer("-", "_")))
	vpr.SetEnvPrefix(EnvNamePrefix)

	vpr.SetDefault("provider", DefaultProvider)
	vpr.SetDefault("region", DefaultRegion)
	vpr.SetDefault("image", DefaultImage)
	vpr.SetDefault("tag-key", DefaultTagKey)
	vpr.SetDefault("tag-value", DefaultTagValue)
	vpr.SetDefault("attempts", retry.DefaultConfig().MaxAttempts)
	vpr.SetDefault("delay", retry.DefaultConfig().Delay)

	if prefs != nil {
		if err := vpr.MergeConfigMap(preferenceMap(prefs)); err != nil {
			return nil, fmt.Errorf("settings: apply preferences: %w", err)
		}
	}

	if err := vpr.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("settings: bind flags: %w", err)
	}
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = vpr.BindEnv(f.Name)
	})
	if err != nil {
		return nil, fmt.Errorf("settings: bind env: %w", err)
	}

	// Empty string flags must not shadow lower layers.
	s := &Settings{
		Provider: util.NormalizeKey(nonEmpty(vpr, "provider", DefaultProvider)),
		Region:   nonEmpty(vpr, "region", DefaultRegion),
		Image:    nonEmpty(vpr, "image", DefaultImage),
		TagKey:   nonEmpty(vpr, "tag-key", DefaultTagKey),
		TagValue: nonEmpty(vpr, "tag-value", DefaultTagValue),
		Attempts: vpr.GetInt("attempts"),
		Delay:    vpr.GetDuration("delay"),
		Yes:      vpr.GetBool("yes"),
		DryRun:   vpr.GetBool("dry-run"),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the resolved values.
func (s *Settings) Validate() error {
	if err := util.ValidateRegion(s.Region); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	if err := util.ValidateTagKey(s.TagKey); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	if err := s.Retry().Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return nil
}

func nonEmpty(vpr *viper.Viper, key, fallback string) string {
	if v := strings.TrimSpace(vpr.GetString(key)); v != "" {
		return v
	}
	return fallback
}

func preferenceMap(prefs *config.Config) map[string]any {
	m := map[string]any{}
	set := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	set("provider", prefs.DefaultProvider)
	set("region", prefs.Region)
	set("image", prefs.Image)
	set("tag-key", prefs.TagKey)
	set("tag-value", prefs.TagValue)
	return m
}
