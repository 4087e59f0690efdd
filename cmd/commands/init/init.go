// Package initcmd implements "reseed init".
package initcmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"nathanbeddoewebdev/reseed/internal/domain"
	"nathanbeddoewebdev/reseed/internal/manifest"
	"nathanbeddoewebdev/reseed/internal/sshkeys"
)

// NewCommand returns the "init" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write an example server file",
		Long: `Write an example server file describing one instance.

The example account uses your login name and, when one is found, your
public key from ~/.ssh (id_ed25519, id_rsa, id_ecdsa, in that order).

Examples:
  reseed init
  reseed init servers/web.yaml --ssh-key ~/.ssh/deploy.pub --login deploy
  reseed init --force`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runInit,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	cmd.Flags().String("ssh-key", "", "Public key file for the example account")
	cmd.Flags().String("login", "", "Login name for the example account (default: $USER)")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	log := clog.FromContext(cmd.Context())

	path := manifest.DefaultPath
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	keyPath, _ := cmd.Flags().GetString("ssh-key")
	login, _ := cmd.Flags().GetString("login")

	user := domain.UserSpec{Login: strings.TrimSpace(login)}
	if user.Login == "" {
		user.Login = os.Getenv("USER")
	}
	if strings.ContainsAny(user.Login, " \t:") {
		log.Warn("ignoring login name that is not valid in a server file", "login", user.Login)
		user.Login = ""
	}

	if keyPath != "" {
		key, err := sshkeys.ReadAndValidatePublicKey(keyPath)
		if err != nil {
			return err
		}
		user.SSHKey = key
	} else if found, key := sshkeys.FindDefault(); found != "" {
		log.Info("using public key", "path", found)
		user.SSHKey = key
	} else {
		log.Debug("no public key found, keeping placeholder")
	}

	if err := manifest.WriteExampleFor(path, force, user); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	if user.SSHKey == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Replace the placeholder ssh_key before provisioning.")
	}
	return nil
}
