package config

import (
	"fmt"
	"slices"
	"strings"

	"nathanbeddoewebdev/reseed/internal/config"
	"nathanbeddoewebdev/reseed/internal/providers"
	"nathanbeddoewebdev/reseed/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference value",
		Long: "Set a persistent preference value. An empty value clears the key.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  reseed config set region eu-west-1\n" +
			"  reseed config set tag-key team\n" +
			"  reseed config set image \"\"",
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmd
}

// validators holds checks that depend on runtime state rather than the
// value alone.
var validators = map[string]func(value string) error{
	"default-provider": validateProvider,
}

func runSet(cmd *cobra.Command, args []string) error {
	spec := config.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}
	value := strings.TrimSpace(args[1])

	if validate, ok := validators[spec.Name]; ok && value != "" {
		if err := validate(value); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := spec.Apply(cfg, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", spec.Name, err)
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	if stored := spec.Get(cfg); stored != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, stored)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s cleared\n", spec.Name)
	}
	return nil
}

// validateProvider checks that the given name is a registered provider.
func validateProvider(name string) error {
	known := providers.List()
	if slices.Contains(known, util.NormalizeKey(name)) {
		return nil
	}
	return fmt.Errorf("unknown provider %q (registered: %s)", name, strings.Join(known, ", "))
}
