package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/alexanderramin/buildtrack/internal/api"
	"github.com/alexanderramin/buildtrack/internal/repository"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	APIURL     string
	Timeout    time.Duration
	NoStore    bool
	// TUI is set when the root command is about to launch the interface.
	TUI bool
}

// App holds the dependencies shared by CLI commands and the TUI.
type App struct {
	Client *api.Client
	Tokens repository.TokenStore
	Logger *log.Logger

	// Connect builds Client, Tokens and Logger from the resolved options.
	// It runs once before any command; tests leave it nil and set the
	// fields directly.
	Connect func(ctx context.Context, opts GlobalOptions) error

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	// RunTUI starts the interactive program. Defaults to runProgram.
	RunTUI func(ctx context.Context, app *App) error

	closers []func() error
}

// OnClose registers fn to run when Close is called, in reverse order.
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases everything registered with OnClose.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) logger() *log.Logger {
	if a.Logger == nil {
		a.Logger = log.New(io.Discard)
	}
	return a.Logger
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "buildtrack" command and registers all
// subcommands against the provided App. With no subcommand it launches the
// TUI on a terminal and prints help otherwise.
func NewRootCmd(app *App) *cobra.Command {
	var opts GlobalOptions

	root := &cobra.Command{
		Use:           "buildtrack",
		Short:         "Construction project manager client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.TUI = cmd == cmd.Root() && app.interactive()
			if app.Connect != nil && app.Client == nil {
				if err := app.Connect(cmd.Context(), opts); err != nil {
					return err
				}
			}
			if app.Client == nil {
				return errors.New("api client is not configured")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.TUI {
				return cmd.Help()
			}
			run := app.RunTUI
			if run == nil {
				run = runProgram
			}
			return run(cmd.Context(), app)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "path to config TOML (default ~/.buildtrack/config.toml)")
	flags.StringVar(&opts.APIURL, "api-url", "", "API base URL, overrides config and BUILDTRACK_API_URL")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "per-request timeout, e.g. 5s")
	flags.BoolVar(&opts.NoStore, "no-store", false, "keep the auth token in memory only")

	root.AddCommand(
		newResourceCmd(app, projectResource),
		newResourceCmd(app, materialResource),
		newResourceCmd(app, labourResource),
		newResourceCmd(app, issueResource),
		newResourceCmd(app, expenseResource),
		newDashboardCmd(app),
		newHealthCmd(app),
		newAuthCmd(app),
	)

	return root
}
