// Package dossier provides the main entry point for the dossier record
// reconciliation system. Given a business key, it resolves the tracked
// record, fetches the record's version history and uploaded artifacts from
// the remote record store, and joins them into one ordered timeline pairing
// each version with its matching artifact link.
//
// Example usage:
//
//	d, err := dossier.New(
//	    dossier.WithBaseURL("https://records.example.com"),
//	    dossier.WithSitePath("/sites/compliance"),
//	    dossier.WithAccessToken(os.Getenv("DOSSIER_ACCESS_TOKEN")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := d.Reconcile(ctx, "NDC123")
//	switch result.Kind {
//	case reconcile.KindSuccess:
//	    for _, v := range result.Versions {
//	        fmt.Println(v.Label, v.HasAttachment())
//	    }
//	case reconcile.KindRecordNotFound:
//	    fmt.Println("no such record")
//	default:
//	    log.Fatal(result.Err)
//	}
package dossier

import (
	"context"

	"github.com/recordflow/dossier/internal/gateway"
	"github.com/recordflow/dossier/internal/transport"
	"github.com/recordflow/dossier/pkg/errors"
	"github.com/recordflow/dossier/pkg/reconcile"
	"github.com/recordflow/dossier/pkg/types"
)

// Dossier reconciles record version timelines with their uploaded artifacts.
type Dossier interface {
	// Reconcile runs the reconciliation pipeline for the given business key.
	// The result is always one coherent variant; see the reconcile package
	// for the kinds consumers must handle.
	Reconcile(ctx context.Context, key types.BusinessKey) reconcile.Result
}

// dossier is the internal implementation of the Dossier interface.
type dossier struct {
	config     *config
	reconciler reconcile.Reconciler
}

// New creates a new Dossier instance with the given options.
func New(opts ...Option) (Dossier, error) {
	d := &dossier{
		config: newConfig(),
	}

	for _, opt := range opts {
		if err := opt(d.config); err != nil {
			return nil, err
		}
	}

	gw := d.config.gateway
	if gw == nil {
		built, err := d.buildGateway()
		if err != nil {
			return nil, err
		}
		gw = built
	}

	reconciler, err := reconcile.New(
		reconcile.WithGateway(gw),
		reconcile.WithLogger(d.config.logger),
	)
	if err != nil {
		return nil, err
	}
	d.reconciler = reconciler

	return d, nil
}

// Reconcile runs the reconciliation pipeline for key.
func (d *dossier) Reconcile(ctx context.Context, key types.BusinessKey) reconcile.Result {
	return d.reconciler.Reconcile(ctx, key)
}

// buildGateway constructs the HTTP gateway from the configured store address
// and credentials.
func (d *dossier) buildGateway() (reconcile.Gateway, error) {
	if d.config.baseURL == "" {
		return nil, errors.NewConfigError("dossier", "store base URL is required", nil)
	}

	var auth transport.Authenticator = &transport.NoAuth{}
	if d.config.accessToken != "" {
		if d.config.authHeader != "" {
			auth = &transport.HeaderAuth{Header: d.config.authHeader}
		} else {
			auth = &transport.BearerAuth{}
		}
	}

	tc := transport.New(auth, d.config.accessToken)
	if d.config.httpClient != nil {
		tc = tc.WithHTTPClient(d.config.httpClient)
	}

	return gateway.New(gateway.Config{
		BaseURL:         d.config.baseURL,
		SitePath:        d.config.sitePath,
		RecordsList:     d.config.recordsList,
		ArtifactLibrary: d.config.artifactLibrary,
	}, tc, d.config.logger)
}
