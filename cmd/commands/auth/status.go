package auth

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"nathanbeddoewebdev/reseed/internal/platform/providers"
	"nathanbeddoewebdev/reseed/internal/services/auth"
	"nathanbeddoewebdev/reseed/internal/tui/styles"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which providers have stored credentials",
		Long: `Show which providers have credentials stored in the keychain.

Example:
  reseed auth status`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := newStore()
			out := cmd.OutOrStdout()

			for _, spec := range providers.All() {
				status, err := credentialStatus(store, spec)
				if err != nil {
					fmt.Fprintf(out, "%s: %s (%v)\n", spec.Provider, styles.ErrorText.Render("error"), err)
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", spec.Provider, status)
			}
			return nil
		},
	}

	return cmd
}

// credentialStatus describes whether every key of spec is stored.
func credentialStatus(store auth.Store, spec providers.CredentialSpec) (string, error) {
	found := 0
	for _, k := range spec.Keys {
		_, err := store.GetToken(spec.KeychainKey(k))
		switch {
		case err == nil:
			found++
		case errors.Is(err, auth.ErrTokenNotFound):
		default:
			return "", err
		}
	}

	switch found {
	case len(spec.Keys):
		return styles.SuccessText.Render("logged in"), nil
	case 0:
		return styles.MutedText.Render("not logged in (using the SDK default credential chain)"), nil
	default:
		return styles.WarningText.Render(fmt.Sprintf("incomplete (%d of %d keys stored)", found, len(spec.Keys))), nil
	}
}
