package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/eventpermit/internal/backend"
	"github.com/alexanderramin/eventpermit/internal/cli"
	"github.com/alexanderramin/eventpermit/internal/config"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var observer backend.Observer = backend.NoopObserver{}
	if cfg.LogCalls {
		observer = backend.NewLogObserver(os.Stderr)
	}

	app := &cli.App{
		Config:   cfg,
		Observer: observer,
	}

	// Detect an interactive terminal for the form and prompt commands.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
