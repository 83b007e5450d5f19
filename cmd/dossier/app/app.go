// Package app provides the application context and dependency management for
// the dossier CLI. It centralizes configuration, logging, and the dossier
// client instance behind a single App type, following the dependency
// injection pattern.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/recordflow/dossier"
	"github.com/recordflow/dossier/pkg/errors"
)

// App represents the dossier application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Dossier client (lazy-initialized, singleton)
	mu      sync.RWMutex
	dossier dossier.Dossier
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

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

// Dossier returns the dossier client, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Dossier() (dossier.Dossier, error) {
	a.mu.RLock()
	if a.dossier != nil {
		d := a.dossier
		a.mu.RUnlock()
		return d, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.dossier != nil {
		return a.dossier, nil
	}

	d, err := dossier.New(a.buildDossierOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "dossier client", "", err)
	}

	a.dossier = d
	return d, nil
}

// buildDossierOptions constructs dossier options from the app configuration.
func (a *App) buildDossierOptions() []dossier.Option {
	opts := []dossier.Option{
		dossier.WithLogger(a.logger),
	}

	if a.config.StoreBaseURL != "" {
		opts = append(opts, dossier.WithBaseURL(a.config.StoreBaseURL))
	}
	if a.config.SitePath != "" {
		opts = append(opts, dossier.WithSitePath(a.config.SitePath))
	}
	if a.config.RecordsList != "" {
		opts = append(opts, dossier.WithRecordsList(a.config.RecordsList))
	}
	if a.config.ArtifactLibrary != "" {
		opts = append(opts, dossier.WithArtifactLibrary(a.config.ArtifactLibrary))
	}
	if a.config.AccessToken != "" {
		opts = append(opts, dossier.WithAccessToken(a.config.AccessToken))
	}
	if a.config.AuthHeader != "" {
		opts = append(opts, dossier.WithAuthHeader(a.config.AuthHeader))
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithDossier sets a custom dossier client (useful for testing).
func WithDossier(d dossier.Dossier) Option {
	return func(a *App) error {
		a.dossier = d
		return nil
	}
}
