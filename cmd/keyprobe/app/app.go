// Package app provides the application context and dependency management
// for the keyprobe CLI: configuration, logging, output, and the probe run.
package app

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/keyprobe/internal/transport"
	"github.com/agentstation/keyprobe/pkg/errors"
)

// App represents the keyprobe application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config       *Config
	logger       *zerolog.Logger
	logCloser    io.Closer
	customLogger bool

	stdout    io.Writer
	transport *transport.Client
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and config files; flags are
// applied later when the command runs.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdout:  os.Stdout,
	}

	config, err := LoadConfig(nil)
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load config", err)
	}
	app.config = config

	logger, closer := NewLogger(config)
	app.logger = &logger
	app.logCloser = closer

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Shutdown releases resources held by the application: idle connections and
// the log file, if logs go to one.
func (a *App) Shutdown(_ context.Context) error {
	if a.transport != nil {
		a.transport.HTTPClient().CloseIdleConnections()
	}
	return a.closeLog()
}

func (a *App) closeLog() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		if err := a.closeLog(); err != nil {
			return err
		}
		a.logger = logger
		a.customLogger = true
		return nil
	}
}

// WithOutput redirects the probe report, which defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.stdout = w
		return nil
	}
}

// WithTransport sets the HTTP transport used for the probe (useful for testing).
func WithTransport(t *transport.Client) Option {
	return func(a *App) error {
		a.transport = t
		return nil
	}
}
