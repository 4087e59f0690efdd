package bootscript

import (
	"fmt"

	"github.com/spf13/cobra"

	"nathanbeddoewebdev/reseed/internal/bootscript"
	"nathanbeddoewebdev/reseed/internal/manifest"
)

// NewCommand returns the "bootscript" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootscript [config.yaml]",
		Short: "Print the boot script for a server file",
		Long: `Print the cloud-init document that provision would attach to the new
instance. Nothing is sent to the provider.

Examples:
  reseed bootscript
  reseed bootscript servers/web.yaml > user-data.yaml`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := manifest.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}

			cfg, err := manifest.Load(path)
			if err != nil {
				return err
			}

			script, err := bootscript.Render(cfg.Users, cfg.Volumes)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), script)
			return nil
		},
	}

	return cmd
}
