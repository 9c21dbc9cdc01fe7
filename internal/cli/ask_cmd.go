package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/eventpermit/internal/backend"
	"github.com/spf13/cobra"
)

func newAskCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   `ask "<question>"`,
		Short: "Ask the booking assistant about event types, venues or availability",
		Example: `  eventpermit ask "which venues can I book?"
  eventpermit ask "Is Cotton Tree Park free on 2026-11-02 10:00-12:00?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := app.client().Chat(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				if errors.Is(err, backend.ErrUnavailable) {
					return fmt.Errorf("assistant unavailable: %w (is `eventpermit serve` running at %s?)", err, app.Config.BackendURL)
				}
				return fmt.Errorf("asking assistant: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}
