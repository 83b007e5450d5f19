// Package reconcile implements the reconciliation engine: it resolves a
// business key to a record, fetches the record's version history and the
// artifacts filed under the key, and joins the two collections by version
// label into a single ordered result.
//
// The pipeline is strictly staged. Key validation happens before any remote
// call; identifier resolution gates the two fetches; the fetches run
// concurrently and are only combined once both complete. Any stage failure
// produces a single Failure result, never a partial Success.
package reconcile

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/recordflow/dossier/pkg/errors"
	"github.com/recordflow/dossier/pkg/logging"
	"github.com/recordflow/dossier/pkg/types"
)

// Gateway is the read-only boundary to the remote record store. The engine
// treats it as a black box returning decoded collections or typed failures;
// schema specifics belong to the implementation.
//
// ResolveIdentifier returns an error satisfying errors.IsNotFound when the
// key matches zero records. FetchVersionHistory preserves the store's
// ordering. FetchArtifacts returns zero entries for an empty folder and an
// error for a response missing its collection field.
type Gateway interface {
	ResolveIdentifier(ctx context.Context, key types.BusinessKey) (types.RecordID, error)
	FetchVersionHistory(ctx context.Context, id types.RecordID) ([]types.VersionEntry, error)
	FetchArtifacts(ctx context.Context, key types.BusinessKey) ([]types.ArtifactEntry, error)
}

// Reconciler produces the reconciled version timeline for a business key.
type Reconciler interface {
	// Reconcile runs the full pipeline for key. The returned Result is
	// always coherent: either Success with the ordered versions, or a
	// Failure carrying exactly one error kind.
	Reconcile(ctx context.Context, key types.BusinessKey) Result
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	gateway Gateway
	logger  *zerolog.Logger
}

// Option configures a Reconciler
type Option func(*reconciler) error

// New creates a new Reconciler with options. A gateway is required.
func New(opts ...Option) (Reconciler, error) {
	r := &reconciler{
		logger: logging.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.gateway == nil {
		return nil, errors.NewConfigError("reconciler", "gateway is required", nil)
	}

	return r, nil
}

// WithGateway sets the record store gateway
func WithGateway(gw Gateway) Option {
	return func(r *reconciler) error {
		if gw == nil {
			return errors.NewConfigError("reconciler", "gateway cannot be nil", nil)
		}
		r.gateway = gw
		return nil
	}
}

// WithLogger sets the logger used for pipeline diagnostics
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *reconciler) error {
		if logger == nil {
			return errors.NewConfigError("reconciler", "logger cannot be nil", nil)
		}
		r.logger = logger
		return nil
	}
}

// Reconcile runs the staged pipeline for key.
func (r *reconciler) Reconcile(ctx context.Context, key types.BusinessKey) Result {
	// Stage 1: validate input before touching the network.
	if key.IsEmpty() {
		return Failure(KindInvalidInput,
			errors.NewValidationError("business_key", key.String(), "cannot be empty"))
	}

	logger := r.logger.With().Str("business_key", key.String()).Logger()

	// Stage 2: resolve the key to a record identifier. Zero matches is a
	// terminal business outcome, not a fault.
	id, err := r.gateway.ResolveIdentifier(ctx, key)
	if err != nil {
		if errors.IsNotFound(err) {
			logger.Debug().Msg("business key resolved to zero records")
			return Failure(KindRecordNotFound, err)
		}
		return Failure(KindTransportError, classifyRemoteError(err))
	}

	logger.Debug().Int64("record_id", int64(id)).Msg("resolved record identifier")

	// Stage 3: fetch history and artifacts concurrently. The history fetch
	// addresses the resolved identifier; the artifact fetch addresses the
	// raw key, because the artifact store is keyed by folder name. Both must
	// succeed; there is no best-effort mode for this failure class.
	history, artifacts, err := r.fetchBoth(ctx, id, key)
	if err != nil {
		return Failure(KindTransportError, classifyRemoteError(err))
	}

	// Stages 4-5: the gateway has already normalized join keys; pair each
	// version with its first matching artifact.
	versions := join(history, artifacts)

	logger.Debug().
		Int("versions", len(versions)).
		Int("artifacts", len(artifacts)).
		Msg("reconciliation complete")

	// Stage 6: empty history is a legitimate Success, distinct from failure.
	return Success(versions)
}

// fetchBoth issues the version-history and artifact fetches concurrently and
// waits for both before returning. The first error encountered (history
// checked first for determinism) is returned; results are never combined with
// a failure.
func (r *reconciler) fetchBoth(ctx context.Context, id types.RecordID, key types.BusinessKey) ([]types.VersionEntry, []types.ArtifactEntry, error) {
	var (
		wg           sync.WaitGroup
		history      []types.VersionEntry
		artifacts    []types.ArtifactEntry
		historyErr   error
		artifactsErr error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		history, historyErr = r.gateway.FetchVersionHistory(ctx, id)
	}()

	go func() {
		defer wg.Done()
		artifacts, artifactsErr = r.gateway.FetchArtifacts(ctx, key)
	}()

	wg.Wait()

	if historyErr != nil {
		return nil, nil, historyErr
	}
	if artifactsErr != nil {
		return nil, nil, artifactsErr
	}

	return history, artifacts, nil
}

// classifyRemoteError maps context teardown onto the canceled/timeout error
// types so callers can tell their own cancellation apart from a store fault.
// Everything else passes through untouched.
func classifyRemoteError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return errors.WrapCanceled("reconcile", err)
	case errors.Is(err, context.DeadlineExceeded):
		return errors.WrapTimeout("reconcile", err)
	}
	return err
}
