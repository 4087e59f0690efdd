package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"nathanbeddoewebdev/reseed/cmd/commands/audit"
	"nathanbeddoewebdev/reseed/cmd/commands/auth"
	"nathanbeddoewebdev/reseed/cmd/commands/bootscript"
	cfgcmd "nathanbeddoewebdev/reseed/cmd/commands/config"
	initcmd "nathanbeddoewebdev/reseed/cmd/commands/init"
	"nathanbeddoewebdev/reseed/cmd/commands/instances"
	"nathanbeddoewebdev/reseed/cmd/commands/provision"
	"nathanbeddoewebdev/reseed/internal/auditlog"
	"nathanbeddoewebdev/reseed/internal/providers"
	"nathanbeddoewebdev/reseed/internal/tui/styles"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "reseed",
		Short: "Replace a tagged cloud instance with a freshly provisioned one",
		Long: `reseed keeps exactly one instance of a declared server alive. Each run
terminates every instance carrying the ownership tag, waits until they are
gone, and launches a replacement whose first boot creates the declared
users and formats and mounts the declared data volumes.

Supported providers: AWS EC2.

Quick start:
  reseed init                      # Write an example reseed.yaml
  reseed auth login aws            # Store AWS credentials (optional)
  reseed provision --dry-run       # Show what would happen
  reseed provision                 # Replace the instance`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogging,
	}

	cmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().String("log-format", "text", "Log format: text, json or logfmt")

	cmd.AddCommand(provision.NewCommand())
	cmd.AddCommand(initcmd.NewCommand())
	cmd.AddCommand(bootscript.NewCommand())
	cmd.AddCommand(instances.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(audit.NewCommand())

	return cmd
}

// setupLogging installs a clog logger backed by charmbracelet/log on the
// command context. Logs go to stderr so stdout stays parseable.
func setupLogging(cmd *cobra.Command, _ []string) error {
	levelRaw, _ := cmd.Flags().GetString("log-level")
	formatRaw, _ := cmd.Flags().GetString("log-format")

	level, err := charmlog.ParseLevel(levelRaw)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q", levelRaw)
	}

	var formatter charmlog.Formatter
	switch strings.ToLower(strings.TrimSpace(formatRaw)) {
	case "", "text":
		formatter = charmlog.TextFormatter
	case "json":
		formatter = charmlog.JSONFormatter
	case "logfmt":
		formatter = charmlog.LogfmtFormatter
	default:
		return fmt.Errorf("invalid --log-format %q (use text, json or logfmt)", formatRaw)
	}

	handler := charmlog.NewWithOptions(cmd.ErrOrStderr(), charmlog.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(clog.WithLogger(ctx, clog.New(handler)))
	return nil
}

// Execute adds all child commands to the root command and runs it. This is
// called by main.main().
func Execute() {
	providers.RegisterAWS()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := rootCmd()
	start := time.Now()
	executed, err := root.ExecuteContextC(ctx)
	recordAudit(executed, os.Args[1:], err, start)

	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), styles.ErrorText.Render("Error:"), err)
		cancel()
		os.Exit(1)
	}
}

// recordAudit writes a best-effort audit entry for annotated commands.
// Failures are logged and never change the command's outcome.
func recordAudit(cmd *cobra.Command, args []string, runErr error, start time.Time) {
	if cmd == nil || cmd.Annotations[auditlog.Annotation] == "" {
		return
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := clog.FromContext(ctx)

	// Use a fresh context so an interrupted run is still recorded.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	repo, err := auditlog.Open(writeCtx)
	if err != nil {
		log.Warn("audit log unavailable", "error", err)
		return
	}
	defer repo.Close()

	entry := auditlog.NewEntry(cmd.CommandPath(), args, auditlog.MetadataFromContext(ctx), runErr, start)
	if err := repo.Save(writeCtx, entry); err != nil {
		log.Warn("failed to write audit entry", "error", err)
	}
}
