package auth

import (
	"os"

	"golang.org/x/term"

	"github.com/spf13/cobra"

	"nathanbeddoewebdev/reseed/internal/services/auth"
)

// newStore and isInteractive are replaced in tests.
var (
	newStore      = auth.DefaultStore
	isInteractive = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
	}
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider credentials",
		Long: `Manage provider credentials stored in the local keychain.

Stored credentials take precedence over the provider SDK's default chain
(environment variables, shared config files, instance roles).`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(StatusCommand())
	cmd.AddCommand(LogoutCommand())

	return cmd
}
