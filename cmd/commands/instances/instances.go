package instances

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nathanbeddoewebdev/reseed/internal/config"
	"nathanbeddoewebdev/reseed/internal/domain"
	"nathanbeddoewebdev/reseed/internal/providers"
	"nathanbeddoewebdev/reseed/internal/services/auth"
	provisionsvc "nathanbeddoewebdev/reseed/internal/services/provision"
	"nathanbeddoewebdev/reseed/internal/settings"
	"nathanbeddoewebdev/reseed/internal/tui/styles"
)

// NewCommand returns the "instances" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instances",
		Short: "List instances carrying the ownership tag",
		Long: `List the instances that provision would treat as previous instances.

Examples:
  reseed instances
  reseed instances --region eu-west-1 -o json`,
		Args:         cobra.NoArgs,
		RunE:         runInstances,
		SilenceUsage: true,
	}

	settings.AddProviderFlags(cmd.Flags())
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runInstances(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	output, _ := cmd.Flags().GetString("output")
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	prefs, err := config.Load()
	if err != nil {
		return err
	}
	s, err := settings.Load(cmd.Flags(), prefs)
	if err != nil {
		return err
	}

	provider, err := providers.Get(ctx, s.Provider, auth.DefaultStore(), providers.Options{Region: s.Region})
	if err != nil {
		return err
	}

	owned, err := provisionsvc.ListOwned(ctx, provider, s.Tag())
	if err != nil {
		return err
	}
	if owned == nil {
		owned = []domain.Instance{}
	}

	if output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(owned)
	}

	if len(owned) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No instances tagged %s in %s.\n", s.Tag(), provider.GetDisplayName())
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE")
	for _, inst := range owned {
		fmt.Fprintf(w, "%s\t%s\n", inst.ID, styles.StatusIndicator(inst.State))
	}
	return w.Flush()
}
