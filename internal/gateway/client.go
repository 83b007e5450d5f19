// Package gateway implements the record store gateway: three read-only
// queries against the remote store's REST API. It decodes the store's loose
// JSON schema and normalizes it into the strict types the reconciliation
// engine consumes; raw remote records never leave this package.
package gateway

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/recordflow/dossier/internal/transport"
	"github.com/recordflow/dossier/pkg/errors"
	"github.com/recordflow/dossier/pkg/logging"
	"github.com/recordflow/dossier/pkg/reconcile"
	"github.com/recordflow/dossier/pkg/types"
)

// Config holds the store addressing configuration.
type Config struct {
	// BaseURL is the record store root, e.g. "https://records.example.com".
	BaseURL string

	// SitePath is an optional path prefix joined before every endpoint.
	SitePath string

	// RecordsList is the list holding tracked records and their versions.
	RecordsList string

	// ArtifactLibrary is the document library whose per-key folders hold
	// uploaded artifacts.
	ArtifactLibrary string
}

// Client queries the remote record store. It implements reconcile.Gateway.
type Client struct {
	cfg       Config
	rb        *transport.RequestBuilder
	transport *transport.Client
	logger    *zerolog.Logger
}

// New creates a gateway client for the given store configuration.
func New(cfg Config, tc *transport.Client, logger *zerolog.Logger) (*Client, error) {
	if cfg.RecordsList == "" {
		return nil, errors.NewConfigError("gateway", "records list name is required", nil)
	}
	if cfg.ArtifactLibrary == "" {
		return nil, errors.NewConfigError("gateway", "artifact library name is required", nil)
	}
	if tc == nil {
		tc = transport.New(&transport.NoAuth{}, "")
	}
	if logger == nil {
		logger = logging.Default()
	}

	rb, err := transport.NewRequestBuilder(cfg.BaseURL, cfg.SitePath)
	if err != nil {
		return nil, errors.NewConfigError("gateway", "invalid store base URL", err)
	}

	return &Client{
		cfg:       cfg,
		rb:        rb,
		transport: tc,
		logger:    logger,
	}, nil
}

// ResolveIdentifier looks up the record whose business key equals key and
// returns its internal identifier. Zero matches yields a NotFoundError, which
// is a valid terminal state, not a transport failure.
func (c *Client) ResolveIdentifier(ctx context.Context, key types.BusinessKey) (types.RecordID, error) {
	query := url.Values{}
	query.Set("filter", "BusinessKey eq '"+escapeFilterValue(key.String())+"'")
	query.Set("select", "Id")

	endpoint := c.rb.Endpoint("lists/"+c.cfg.RecordsList+"/items", query)

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return 0, errors.WrapAPI(c.rb.Host(), 0, err)
	}

	var envelope itemsEnvelope
	if err := transport.DecodeResponse(resp, c.rb.Host(), &envelope); err != nil {
		return 0, err
	}
	if envelope.Value == nil {
		return 0, errors.NewParseError("json", "record lookup response", "missing value collection", nil)
	}

	items := *envelope.Value
	if len(items) == 0 {
		return 0, errors.NewNotFoundError("record", key.String())
	}
	if len(items) > 1 {
		// Exactly one match is expected per key; first wins.
		c.logger.Warn().
			Str("business_key", key.String()).
			Int("matches", len(items)).
			Msg("business key matched multiple records, using first")
	}

	id, err := decodeRecordID(items[0])
	if err != nil {
		return 0, err
	}

	return id, nil
}

// FetchVersionHistory returns the record's version history in the store's
// order. Every entry must carry a version label; a history response with an
// unlabeled entry is malformed as a whole.
func (c *Client) FetchVersionHistory(ctx context.Context, id types.RecordID) ([]types.VersionEntry, error) {
	endpoint := c.rb.Endpoint("lists/"+c.cfg.RecordsList+"/items/"+id.String()+"/versions", nil)

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.WrapAPI(c.rb.Host(), 0, err)
	}

	var envelope versionsEnvelope
	if err := transport.DecodeResponse(resp, c.rb.Host(), &envelope); err != nil {
		return nil, err
	}
	if envelope.Value == nil {
		return nil, errors.NewParseError("json", "version history response", "missing value collection", nil)
	}

	entries := make([]types.VersionEntry, 0, len(*envelope.Value))
	for _, v := range *envelope.Value {
		entry, err := v.normalize()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// FetchArtifacts returns the artifacts filed in the key's folder, normalized
// and in the store's order. An empty folder yields zero entries; a response
// missing its collection field is a transport-class failure. Individually
// malformed entries are skipped with a warning rather than failing the fetch.
func (c *Client) FetchArtifacts(ctx context.Context, key types.BusinessKey) ([]types.ArtifactEntry, error) {
	endpoint := c.rb.Endpoint("folders/"+c.cfg.ArtifactLibrary+"/"+url.PathEscape(key.String())+"/files", nil)

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.WrapAPI(c.rb.Host(), 0, err)
	}

	var envelope filesEnvelope
	if err := transport.DecodeResponse(resp, c.rb.Host(), &envelope); err != nil {
		return nil, err
	}
	if envelope.Value == nil {
		return nil, errors.NewParseError("json", "artifact folder response", "missing value collection", nil)
	}

	artifacts := make([]types.ArtifactEntry, 0, len(*envelope.Value))
	for _, raw := range *envelope.Value {
		entry, err := c.normalizeArtifact(raw)
		if err != nil {
			// One bad record must not negate an otherwise-valid fetch.
			c.logger.Warn().
				Err(err).
				Str("business_key", key.String()).
				Msg("skipping malformed artifact entry")
			continue
		}
		artifacts = append(artifacts, entry)
	}

	return artifacts, nil
}

// escapeFilterValue doubles single quotes so a key cannot break out of the
// filter literal.
func escapeFilterValue(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Verify Client implements the engine's gateway contract.
var _ reconcile.Gateway = (*Client)(nil)
