package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/buildtrack/internal/api"
	"github.com/alexanderramin/buildtrack/internal/cli"
	"github.com/alexanderramin/buildtrack/internal/config"
	"github.com/alexanderramin/buildtrack/internal/db"
	"github.com/alexanderramin/buildtrack/internal/repository"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{}
	defer app.Close()

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	app.Connect = func(_ context.Context, opts cli.GlobalOptions) error {
		return connect(app, opts)
	}

	return cli.NewRootCmd(app).Execute()
}

// connect resolves configuration and wires the logger, token store and
// API client onto app. Flags win over the environment and config file.
func connect(app *cli.App, opts cli.GlobalOptions) error {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Resolve(path, os.Getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.API.URL = opts.APIURL
	}
	if opts.Timeout > 0 {
		cfg.API.TimeoutMs = int(opts.Timeout / time.Millisecond)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	logger, err := newLogger(app, cfg.Logging, opts.TUI)
	if err != nil {
		return err
	}
	app.Logger = logger

	if opts.NoStore {
		app.Tokens = repository.NewMemoryTokenStore("")
	} else {
		conn, err := db.OpenDB(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		app.OnClose(conn.Close)
		app.Tokens = repository.NewSQLiteTokenStore(repository.NewSQLiteSettingsRepo(conn))
	}

	var observer api.Observer = api.NoopObserver{}
	if cfg.Logging.Calls {
		observer = api.NewLogObserver(logger)
	}
	client, err := api.NewClient(cfg.Client(), api.WithTokenStore(app.Tokens), api.WithObserver(observer))
	if err != nil {
		return fmt.Errorf("creating api client: %w", err)
	}
	app.OnClose(func() error {
		client.Close()
		return nil
	})
	app.Client = client

	logger.Debug("connected", "api", cfg.API.URL, "timeout_ms", cfg.API.TimeoutMs, "store", !opts.NoStore)
	return nil
}

// newLogger writes to stderr for one-shot commands. While the TUI owns the
// terminal, logs go to the configured file, or nowhere when none is set.
func newLogger(app *cli.App, lc config.LoggingConfig, tui bool) (*log.Logger, error) {
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
	}

	if !tui {
		return log.NewWithOptions(os.Stderr, log.Options{Level: level, Prefix: "buildtrack"}), nil
	}
	if lc.File == "" {
		return log.New(io.Discard), nil
	}

	if err := os.MkdirAll(filepath.Dir(lc.File), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	app.OnClose(f.Close)
	return log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	}), nil
}
