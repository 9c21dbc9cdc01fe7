package cli

import (
	"io"
	"log/slog"

	"github.com/alexanderramin/eventpermit/internal/backend"
	"github.com/alexanderramin/eventpermit/internal/config"
	"github.com/alexanderramin/eventpermit/internal/formdef"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds the configuration and collaborators used by CLI commands.
type App struct {
	Config config.Config

	// Backend replaces the HTTP client built from Config when set.
	Backend  backend.Client
	Observer backend.Observer

	// IsInteractive reports whether stdin is a terminal. Commands that need
	// a TUI or a prompt refuse to start without one.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "eventpermit" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "eventpermit",
		Short: "Public event permit applications and bookings",
		Long: `Fill in a public event permit application with a live eligibility
checklist and booking conflict check, or run the booking backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindGlobalFlags(root.PersistentFlags(), &app.Config)

	root.AddCommand(
		newApplyCmd(app),
		newCheckCmd(app),
		newServeCmd(app),
		newEventsCmd(app),
		newApplicationsCmd(app),
		newAskCmd(app),
		newStatusCmd(app),
	)

	return root
}

// bindGlobalFlags registers the flags that override environment settings.
// Current values in cfg become the flag defaults.
func bindGlobalFlags(fs *pflag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.BackendURL, "backend", cfg.BackendURL, "Booking backend base URL")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database file used by serve")
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "Address serve listens on")
	fs.StringVar(&cfg.LayoutPath, "layout", cfg.LayoutPath, "YAML form layout replacing the built-in one")
}

// client returns the backend client, building it from Config on first use so
// flag overrides are already applied.
func (a *App) client() backend.Client {
	if a.Backend == nil {
		a.Backend = backend.NewClient(backend.Config{
			BaseURL:    a.Config.BackendURL,
			TimeoutMs:  a.Config.TimeoutMs,
			MaxRetries: a.Config.MaxRetries,
		}, a.Observer)
	}
	return a.Backend
}

func (a *App) layout() (*formdef.Layout, error) {
	if a.Config.LayoutPath != "" {
		return formdef.Load(a.Config.LayoutPath)
	}
	return formdef.Default()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// commandLogger is the slog logger for long-running commands. Output goes to
// w in text form.
func commandLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
