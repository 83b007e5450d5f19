package dossier

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/recordflow/dossier/pkg/errors"
	"github.com/recordflow/dossier/pkg/logging"
	"github.com/recordflow/dossier/pkg/reconcile"
)

// Default store layout names, overridable per deployment.
const (
	// DefaultRecordsList is the list holding tracked records.
	DefaultRecordsList = "TrackedRecords"

	// DefaultArtifactLibrary is the document library holding per-key
	// artifact folders.
	DefaultArtifactLibrary = "Artifacts"
)

// config holds the assembled Dossier configuration.
type config struct {
	baseURL         string
	sitePath        string
	recordsList     string
	artifactLibrary string
	accessToken     string
	authHeader      string
	httpClient      *http.Client
	logger          *zerolog.Logger
	gateway         reconcile.Gateway
}

// newConfig returns a config populated with defaults.
func newConfig() *config {
	return &config{
		recordsList:     DefaultRecordsList,
		artifactLibrary: DefaultArtifactLibrary,
		logger:          logging.Default(),
	}
}

// Option is a function that configures a Dossier instance
type Option func(*config) error

// WithBaseURL sets the record store root URL. Required unless a custom
// gateway is supplied.
func WithBaseURL(baseURL string) Option {
	return func(c *config) error {
		if baseURL == "" {
			return errors.NewValidationError("base_url", baseURL, "cannot be empty")
		}
		c.baseURL = baseURL
		return nil
	}
}

// WithSitePath sets an optional path prefix joined before every store
// endpoint (e.g. "/sites/compliance").
func WithSitePath(sitePath string) Option {
	return func(c *config) error {
		c.sitePath = sitePath
		return nil
	}
}

// WithRecordsList overrides the list name holding tracked records.
func WithRecordsList(name string) Option {
	return func(c *config) error {
		if name == "" {
			return errors.NewValidationError("records_list", name, "cannot be empty")
		}
		c.recordsList = name
		return nil
	}
}

// WithArtifactLibrary overrides the document library name holding per-key
// artifact folders.
func WithArtifactLibrary(name string) Option {
	return func(c *config) error {
		if name == "" {
			return errors.NewValidationError("artifact_library", name, "cannot be empty")
		}
		c.artifactLibrary = name
		return nil
	}
}

// WithAccessToken sets the store credential, applied as a Bearer token unless
// WithAuthHeader names a custom header.
func WithAccessToken(token string) Option {
	return func(c *config) error {
		c.accessToken = token
		return nil
	}
}

// WithAuthHeader names a custom header for the access token, for stores that
// do not use the Authorization header.
func WithAuthHeader(header string) Option {
	return func(c *config) error {
		c.authHeader = header
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client for store requests. Useful for
// tests and callers that manage their own timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		if hc == nil {
			return errors.NewValidationError("http_client", nil, "cannot be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithLogger sets the logger for the pipeline and gateway.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithGateway supplies a custom record store gateway, bypassing the HTTP
// gateway construction entirely (useful for testing).
func WithGateway(gw reconcile.Gateway) Option {
	return func(c *config) error {
		if gw == nil {
			return errors.NewValidationError("gateway", nil, "cannot be nil")
		}
		c.gateway = gw
		return nil
	}
}
