package provision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nathanbeddoewebdev/reseed/internal/domain"
	provisionsvc "nathanbeddoewebdev/reseed/internal/services/provision"
	"nathanbeddoewebdev/reseed/internal/settings"
	"nathanbeddoewebdev/reseed/internal/tui/styles"
)

func printJSON(cmd *cobra.Command, res *provisionsvc.Result) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func printPlan(cmd *cobra.Command, provider domain.Provider, s *settings.Settings, res *provisionsvc.Result) {
	lines := []string{
		styles.Title.Render("Plan (dry run)"),
		styles.Field("Provider", provider.GetDisplayName()),
		styles.Field("Image", res.ImageID),
		styles.Field("Root device", res.RootDevice),
		styles.Field("Tag", s.Tag().String()),
		styles.Field("Terminate", idList(res.Discovered)),
		styles.Field("Launch", "1 instance"),
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.Card.Render(strings.Join(lines, "\n")))
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), styles.MutedText.Render("Boot script:"))
	fmt.Fprint(cmd.OutOrStdout(), res.BootScript)
}

func printResult(cmd *cobra.Command, res *provisionsvc.Result) {
	out := cmd.OutOrStdout()
	if len(res.Terminated) > 0 {
		fmt.Fprintln(out, styles.Field("Terminated", idList(res.Terminated)))
	}
	for _, id := range res.Launched {
		fmt.Fprintln(out, styles.SuccessText.Render("Launched"), id)
	}
}

// printFailure names the failed step and, for a termination timeout, the
// instances that never reached the terminated state. s may be nil when the
// run failed before settings were resolved.
func printFailure(cmd *cobra.Command, s *settings.Settings, res *provisionsvc.Result, err error) {
	w := cmd.ErrOrStderr()
	if step := provisionsvc.FailedStep(err); step != "" {
		fmt.Fprintln(w, styles.ErrorText.Render("Provisioning failed at step:"), step)
	}

	var timeout *domain.TerminationTimeoutError
	if errors.As(err, &timeout) {
		waited := fmt.Sprintf("after %d attempts", timeout.Attempts)
		if s != nil {
			waited += fmt.Sprintf(" over %s", s.Retry().Budget())
		}
		fmt.Fprintf(w, "%s %s: %s\n", styles.WarningText.Render("Still not terminated"), waited, strings.Join(timeout.Pending, ", "))
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		fmt.Fprintln(w, styles.MutedText.Render("The provider rejected the credentials. Run `reseed auth login aws` or check the AWS SDK credential chain."))
	case errors.Is(err, domain.ErrRateLimited):
		fmt.Fprintln(w, styles.MutedText.Render("The provider throttled the requests. Wait and retry, or raise --delay."))
	}

	if provisionsvc.FailedStep(err) == provisionsvc.StepLaunch && len(res.Terminated) > 0 {
		fmt.Fprintln(w, styles.WarningText.Render("Previous instances were terminated and no replacement is running."))
	}
}

func idList(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}
