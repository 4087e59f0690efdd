package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nathanbeddoewebdev/reseed/internal/auditlog"
	"nathanbeddoewebdev/reseed/internal/platform/providers"
	"nathanbeddoewebdev/reseed/internal/services/auth"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout <provider>",
		Short: "Remove stored credentials for a provider",
		Long: `Remove the credentials stored for a provider from the keychain.

Example:
  reseed auth logout aws`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		Annotations:  map[string]string{auditlog.Annotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			spec := providers.Lookup(name)
			if spec == nil {
				return fmt.Errorf("unknown provider %q", name)
			}
			cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Provider: spec.Provider}))

			store := newStore()
			removed := 0
			for _, k := range spec.Keys {
				err := store.DeleteToken(spec.KeychainKey(k))
				switch {
				case err == nil:
					removed++
				case errors.Is(err, auth.ErrTokenNotFound):
				default:
					return fmt.Errorf("failed to remove %s: %w", k.Prompt, err)
				}
			}

			if removed == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No stored credentials for %s\n", spec.DisplayName)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed credentials for %s\n", spec.DisplayName)
			return nil
		},
	}

	return cmd
}
