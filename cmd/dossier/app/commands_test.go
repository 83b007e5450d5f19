package app

import (
	"context"
	"testing"

	"github.com/recordflow/dossier"
	"github.com/recordflow/dossier/pkg/errors"
	"github.com/recordflow/dossier/pkg/reconcile"
	"github.com/recordflow/dossier/pkg/types"
)

// stubDossier returns a fixed result regardless of the key.
type stubDossier struct {
	result reconcile.Result
}

func (s stubDossier) Reconcile(context.Context, types.BusinessKey) reconcile.Result {
	return s.result
}

func newTestApp(t *testing.T, d dossier.Dossier) *App {
	t.Helper()

	a, err := New("test", "none", "unknown", "tests",
		WithConfig(&Config{Output: "json", LogOutput: "discard"}),
		WithDossier(d),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestReconcileCommandSuccess(t *testing.T) {
	a := newTestApp(t, stubDossier{result: reconcile.Success([]types.ReconciledVersion{
		{Label: "1.0"},
	})})

	if err := a.Execute(context.Background(), []string{"reconcile", "NDC123"}); err != nil {
		t.Errorf("Execute() error = %v", err)
	}
}

func TestReconcileCommandNotFoundExitsCleanly(t *testing.T) {
	a := newTestApp(t, stubDossier{result: reconcile.Failure(
		reconcile.KindRecordNotFound,
		errors.NewNotFoundError("record", "UNKNOWN"),
	)})

	// A missing record is a reportable outcome, not a CLI failure.
	if err := a.Execute(context.Background(), []string{"reconcile", "UNKNOWN"}); err != nil {
		t.Errorf("Execute() error = %v", err)
	}
}

func TestReconcileCommandTransportErrorFails(t *testing.T) {
	a := newTestApp(t, stubDossier{result: reconcile.Failure(
		reconcile.KindTransportError,
		errors.NewAPIError("records.example.com", 500, "boom"),
	)})

	if err := a.Execute(context.Background(), []string{"reconcile", "NDC123"}); err == nil {
		t.Error("Execute() succeeded, want transport failure")
	}
}

func TestReconcileCommandInvalidInputFails(t *testing.T) {
	a := newTestApp(t, stubDossier{result: reconcile.Failure(
		reconcile.KindInvalidInput,
		errors.NewValidationError("business_key", " ", "cannot be empty"),
	)})

	if err := a.Execute(context.Background(), []string{"reconcile", " "}); err == nil {
		t.Error("Execute() succeeded, want validation failure")
	}
}

func TestReconcileCommandRequiresExactlyOneArg(t *testing.T) {
	a := newTestApp(t, stubDossier{result: reconcile.Success(nil)})

	if err := a.Execute(context.Background(), []string{"reconcile"}); err == nil {
		t.Error("Execute() without a key succeeded, want usage error")
	}
	if err := a.Execute(context.Background(), []string{"reconcile", "A", "B"}); err == nil {
		t.Error("Execute() with two keys succeeded, want usage error")
	}
}

func TestReconcileCommandRejectsUnknownFormat(t *testing.T) {
	a := newTestApp(t, stubDossier{result: reconcile.Success(nil)})

	err := a.Execute(context.Background(), []string{"reconcile", "NDC123", "--output", "xml"})
	if err == nil {
		t.Error("Execute() with unknown format succeeded, want error")
	}
}

func TestVersionCommand(t *testing.T) {
	a := newTestApp(t, stubDossier{result: reconcile.Success(nil)})

	if err := a.Execute(context.Background(), []string{"version"}); err != nil {
		t.Errorf("Execute() error = %v", err)
	}
}
