package cli

import (
	"fmt"

	"github.com/alexanderramin/eventpermit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List bookings from the backend calendar feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := app.client().Events(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading events: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEvents(feed))
			return nil
		},
	}
}
