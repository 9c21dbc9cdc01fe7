package cli

import (
	"fmt"

	"github.com/alexanderramin/eventpermit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newApplicationsCmd(app *App) *cobra.Command {
	var query, status string

	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "List submitted applications for review",
		Long: `List submitted applications, newest first.

--q matches applicant name, event type and event name. --status accepts a
booking status (Approved, Pending, Rejected, Cancelled) or a classification
(Self-assessable, Assessable).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apps, err := app.client().Applications(cmd.Context(), query, status)
			if err != nil {
				return fmt.Errorf("loading applications: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatApplications(apps))
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "q", "", "Search applicant, event type or event name")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status or classification")

	return cmd
}
