package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"nathanbeddoewebdev/reseed/internal/auditlog"
	"nathanbeddoewebdev/reseed/internal/platform/providers"
)

// promptCredential asks for a single credential value.
var promptCredential = func(ctx context.Context, key providers.CredentialKey) (string, error) {
	var value string
	input := huh.NewInput().
		Title(key.Prompt).
		Value(&value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s cannot be empty", key.Prompt)
			}
			return nil
		})
	if key.Secret {
		input = input.EchoMode(huh.EchoModePassword)
	}
	err := huh.NewForm(huh.NewGroup(input)).RunWithContext(ctx)
	return value, err
}

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <provider>",
		Short: "Store credentials for a provider",
		Long: `Store credentials for a provider in the local keychain.

Values not passed as flags are prompted for when running in a terminal.

Example:
  reseed auth login aws
  reseed auth login aws --access-key-id AKIA... --secret-access-key ...`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		Annotations:  map[string]string{auditlog.Annotation: "true"},
		RunE:         runLogin,
	}

	for _, spec := range providers.All() {
		for _, k := range spec.Keys {
			if cmd.Flags().Lookup(k.Key) == nil {
				cmd.Flags().String(k.Key, "", k.Prompt+" (optional, overrides prompt)")
			}
		}
	}

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	spec := providers.Lookup(name)
	if spec == nil {
		return fmt.Errorf("unknown provider %q", name)
	}
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Provider: spec.Provider}))

	values := make(map[string]string, len(spec.Keys))
	for _, k := range spec.Keys {
		value, _ := cmd.Flags().GetString(k.Key)
		value = strings.TrimSpace(value)
		if value == "" {
			if !isInteractive() {
				return fmt.Errorf("--%s is required when not running in a terminal", k.Key)
			}
			prompted, err := promptCredential(cmd.Context(), k)
			if err != nil {
				return err
			}
			value = strings.TrimSpace(prompted)
		}
		if value == "" {
			return fmt.Errorf("%s cannot be empty", k.Prompt)
		}
		values[k.Key] = value
	}

	store := newStore()
	for _, k := range spec.Keys {
		if err := store.SetToken(spec.KeychainKey(k), values[k.Key]); err != nil {
			return fmt.Errorf("failed to store %s: %w", k.Prompt, err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved credentials for %s\n", spec.DisplayName)
	return nil
}
