package reconcile

import "github.com/recordflow/dossier/pkg/types"

// Kind discriminates the two Result variants and, for failures, the error
// class. Consumers must handle every kind.
type Kind string

const (
	// KindSuccess indicates the pipeline completed; Versions holds the
	// ordered reconciled timeline (possibly empty).
	KindSuccess Kind = "success"

	// KindInvalidInput indicates the caller supplied a missing or empty
	// business key. Not retryable; no remote calls were made.
	KindInvalidInput Kind = "invalid_input"

	// KindRecordNotFound indicates the key resolved to zero records. A valid
	// business outcome, not a fault.
	KindRecordNotFound Kind = "record_not_found"

	// KindTransportError indicates a remote call failed or returned
	// malformed data. Fatal to the request; never downgraded to an empty
	// result.
	KindTransportError Kind = "transport_error"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Result is the single output shape of the reconciliation engine. Exactly one
// variant is populated: Success results carry Versions and a nil Err; failure
// results carry Err and no Versions.
type Result struct {
	// Kind discriminates the variant.
	Kind Kind

	// Versions is the ordered reconciled timeline. Only set on success; an
	// empty slice means the record legitimately has no versions.
	Versions []types.ReconciledVersion

	// Err is the failure cause. Only set on failure.
	Err error
}

// Success creates a success Result with the given ordered versions.
func Success(versions []types.ReconciledVersion) Result {
	return Result{
		Kind:     KindSuccess,
		Versions: versions,
	}
}

// Failure creates a failure Result of the given kind. Success is not a
// permitted kind here; passing it yields a transport failure to keep the
// variant invariant intact.
func Failure(kind Kind, err error) Result {
	if kind == KindSuccess {
		kind = KindTransportError
	}
	return Result{
		Kind: kind,
		Err:  err,
	}
}

// Succeeded reports whether the result is the success variant.
func (r Result) Succeeded() bool {
	return r.Kind == KindSuccess
}

// Error returns the failure cause, or nil for success results.
func (r Result) Error() error {
	return r.Err
}
