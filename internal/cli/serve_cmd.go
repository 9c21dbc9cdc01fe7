package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/eventpermit/internal/db"
	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/alexanderramin/eventpermit/internal/formdef"
	"github.com/alexanderramin/eventpermit/internal/repository"
	"github.com/alexanderramin/eventpermit/internal/server"
	"github.com/alexanderramin/eventpermit/internal/service"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the booking backend",
		Long: `Serve the conflict check, calendar feed, assistant, submission and
admin endpoints over a local SQLite store. Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, app, cmd.ErrOrStderr(), seed)
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Insert sample bookings when the store is empty")

	return cmd
}

func runServe(ctx context.Context, app *App, logOut io.Writer, seed bool) error {
	logger := commandLogger(logOut)

	layout, err := app.layout()
	if err != nil {
		return err
	}
	dbPath, err := app.Config.ResolveDBPath()
	if err != nil {
		return err
	}
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	logger.InfoContext(ctx, "booking store ready", "db", dbPath)

	events := repository.NewSQLiteEventRepo(database)
	if seed {
		n, err := seedSampleEvents(ctx, events, time.Now())
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "seeded sample events", "count", n)
	}

	observer := service.NewLogUseCaseObserver(logOut)
	bookings := service.NewBookingService(events, db.NewSQLiteUnitOfWork(database), observer)
	chat := service.NewChatService(events, eventTypes(layout), knownVenues(layout), observer)

	srv, err := server.New(app.Config.ListenAddr, server.NewHandler(bookings, chat, logger), logger)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

func eventTypes(l *formdef.Layout) []string {
	f, ok := l.Field(domain.FieldEventType)
	if !ok {
		return nil
	}
	return f.OptionValues()
}

func knownVenues(l *formdef.Layout) []string {
	f, ok := l.Field(domain.FieldVenue)
	if !ok {
		return nil
	}
	return f.Suggestions
}
