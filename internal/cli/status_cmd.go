package cli

import (
	"fmt"

	"github.com/alexanderramin/eventpermit/internal/cli/formatter"
	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/spf13/cobra"
)

var statusChoices = []string{
	string(domain.StatusApproved),
	string(domain.StatusPending),
	string(domain.StatusRejected),
	string(domain.StatusCancelled),
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "status <id> <status>",
		Short:     "Set the review status of an application",
		Long:      "Set an application to Approved, Pending, Rejected or Cancelled. The id may be a unique prefix.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: statusChoices,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveApplicationID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.client().UpdateStatus(cmd.Context(), id, args[1]); err != nil {
				return fmt.Errorf("updating %s: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Application %s is now %s\n", formatter.Bold(id), formatter.StatusIndicator(args[1]))
			return nil
		},
	}
}
