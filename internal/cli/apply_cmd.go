package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/eventpermit/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errNotInteractive = errors.New("apply needs an interactive terminal (use `eventpermit check field=value ...` for a scripted self-check)")

func newApplyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Fill in a permit application step by step",
		Long: `Open the multi-step permit form. The eligibility checklist and the
classification update as you answer, and the chosen venue and time are
checked against approved bookings on the backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errNotInteractive
			}
			layout, err := app.layout()
			if err != nil {
				return err
			}

			// Nothing may write to the terminal while the alternate screen is up.
			m := newApplyModel(layout, app.client(), nil)
			final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			if err != nil {
				return fmt.Errorf("running form: %w", err)
			}
			if done, ok := final.(*applyModel); ok && done.result != nil {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSubmitResult(done.result))
			}
			return nil
		},
	}
}
