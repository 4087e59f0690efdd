package provision

import (
	"errors"
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"nathanbeddoewebdev/reseed/internal/auditlog"
	"nathanbeddoewebdev/reseed/internal/cache"
	"nathanbeddoewebdev/reseed/internal/config"
	"nathanbeddoewebdev/reseed/internal/domain"
	"nathanbeddoewebdev/reseed/internal/manifest"
	"nathanbeddoewebdev/reseed/internal/providers"
	"nathanbeddoewebdev/reseed/internal/services/auth"
	provisionsvc "nathanbeddoewebdev/reseed/internal/services/provision"
	"nathanbeddoewebdev/reseed/internal/settings"
)

// NewCommand returns the "provision" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision [config.yaml]",
		Short: "Replace the tagged instance with a new one",
		Long: `Replace the instance owned by reseed with a freshly launched one.

Steps, in order:
  1. check that exactly one volume is mounted at "/" and that its device
     matches the image's root device
  2. find every instance carrying the ownership tag
  3. terminate them and wait until the provider reports them terminated
  4. build the cloud-init boot script for the declared users and volumes
  5. launch one new instance carrying the ownership tag

Any failure stops the run. If no path is given and ` + manifest.DefaultPath + ` does not
exist, an example is written there and nothing else happens.

Every flag can also be set with a RESEED_* environment variable
(e.g. RESEED_REGION, RESEED_TAG_KEY) or a saved preference (reseed config set).

Examples:
  reseed provision
  reseed provision servers/web.yaml --region eu-west-1
  reseed provision --dry-run
  reseed provision --yes --attempts 120 --delay 10s`,
		Args:        cobra.MaximumNArgs(1),
		RunE:        runProvision,
		Annotations: map[string]string{auditlog.Annotation: "true"},
	}

	settings.AddProviderFlags(cmd.Flags())
	settings.AddRunFlags(cmd.Flags())
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	cmd.Flags().Bool("no-cache", false, "Look up the image root device again and replace the cached answer")

	return cmd
}

func runProvision(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := clog.FromContext(ctx)

	output, _ := cmd.Flags().GetString("output")
	if output != "text" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	path := manifest.DefaultPath
	if len(args) == 1 {
		path = args[0]
	}

	cfg, err := manifest.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && len(args) == 0 {
			if err := manifest.WriteExample(path, false); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "No %s found, so an example was written to it.\n", path)
			fmt.Fprintln(cmd.OutOrStdout(), "Edit it to describe your server, then run reseed provision again.")
			return nil
		}
		err = &domain.StepError{Step: provisionsvc.StepLoad, Err: err}
		cmd.SetContext(auditlog.WithMetadata(ctx, auditlog.Metadata{FailedStep: provisionsvc.StepLoad}))
		printFailure(cmd, nil, &provisionsvc.Result{}, err)
		return err
	}

	prefs, err := config.Load()
	if err != nil {
		return err
	}
	s, err := settings.Load(cmd.Flags(), prefs)
	if err != nil {
		return err
	}

	image := cfg.ImageID
	if image == "" {
		image = s.Image
	}
	ctx = auditlog.WithMetadata(ctx, auditlog.Metadata{Provider: s.Provider, Region: s.Region, Image: image})
	cmd.SetContext(ctx)

	provider, err := providers.Get(ctx, s.Provider, auth.DefaultStore(), providers.Options{Region: s.Region})
	if err != nil {
		return err
	}
	var cacheOpts []providers.ImageCacheOption
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cacheOpts = append(cacheOpts, providers.RefreshImageCache())
	}
	provider = providers.WithImageCache(provider, cache.NewDefault(), s.Region, cacheOpts...)
	log.Debug("using provider", "provider", provider.GetDisplayName(), "tag", s.Tag().String())

	svc := provisionsvc.NewService(provider, provisionsvc.Options{
		ImageID: s.Image,
		Tag:     s.Tag(),
		Retry:   s.Retry(),
		Confirm: confirmFunc(cmd, s),
	})

	if s.DryRun {
		res, err := svc.Plan(ctx, cfg)
		if err != nil {
			return err
		}
		cmd.SetContext(auditlog.WithMetadata(ctx, auditlog.Metadata{Outcome: auditlog.OutcomeDryRun}))
		if output == "json" {
			return printJSON(cmd, res)
		}
		printPlan(cmd, provider, s, res)
		return nil
	}

	res, err := svc.Run(ctx, cfg)
	cmd.SetContext(auditlog.WithMetadata(ctx, auditlog.Metadata{
		Terminated: res.Terminated,
		Launched:   res.Launched,
		FailedStep: provisionsvc.FailedStep(err),
	}))
	if err != nil {
		if errors.Is(err, domain.ErrAborted) {
			cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Outcome: auditlog.OutcomeAborted}))
			fmt.Fprintln(cmd.ErrOrStderr(), "Provisioning cancelled.")
			return nil
		}
		printFailure(cmd, s, res, err)
		return err
	}

	if output == "json" {
		return printJSON(cmd, res)
	}
	printResult(cmd, res)
	return nil
}
