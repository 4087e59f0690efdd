package provision

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	provisionsvc "nathanbeddoewebdev/reseed/internal/services/provision"
	"nathanbeddoewebdev/reseed/internal/settings"
)

// isInteractive reports whether the operator can answer a prompt.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// askConfirm shows the termination prompt. Replaced in tests.
var askConfirm = func(ctx context.Context, title, description string) (bool, error) {
	confirmed := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Terminate").
				Negative("Cancel").
				Value(&confirmed),
		),
	).RunWithContext(ctx)
	if err != nil {
		return false, err
	}
	return confirmed, nil
}

// confirmFunc returns the prompt gating termination, or nil when the run
// must not block on input.
func confirmFunc(cmd *cobra.Command, s *settings.Settings) provisionsvc.ConfirmFunc {
	if s.Yes || !isInteractive() {
		return nil
	}
	return func(ctx context.Context, ids []string) (bool, error) {
		title := fmt.Sprintf("Terminate %d instance(s) tagged %s?", len(ids), s.Tag().String())
		return askConfirm(ctx, title, strings.Join(ids, "\n"))
	}
}
