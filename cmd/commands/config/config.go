package config

import (
	"nathanbeddoewebdev/reseed/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage reseed preferences",
		Long: "View and modify persistent reseed preferences.\n\n" +
			"Preferences are stored at ~/.config/reseed/config.json and supply\n" +
			"defaults for the matching flags. Flags and RESEED_* environment\n" +
			"variables take precedence.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
