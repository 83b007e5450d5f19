package dossier_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dossier "github.com/recordflow/dossier"
	"github.com/recordflow/dossier/pkg/logging"
	"github.com/recordflow/dossier/pkg/reconcile"
	"github.com/recordflow/dossier/pkg/types"
)

func TestNewRequiresBaseURLOrGateway(t *testing.T) {
	_, err := dossier.New()
	require.Error(t, err)
}

func TestNewOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  dossier.Option
	}{
		{"empty base URL", dossier.WithBaseURL("")},
		{"empty records list", dossier.WithRecordsList("")},
		{"empty artifact library", dossier.WithArtifactLibrary("")},
		{"nil HTTP client", dossier.WithHTTPClient(nil)},
		{"nil logger", dossier.WithLogger(nil)},
		{"nil gateway", dossier.WithGateway(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dossier.New(tt.opt)
			assert.Error(t, err)
		})
	}
}

// stubGateway satisfies reconcile.Gateway with canned data.
type stubGateway struct{}

func (stubGateway) ResolveIdentifier(context.Context, types.BusinessKey) (types.RecordID, error) {
	return 7, nil
}

func (stubGateway) FetchVersionHistory(context.Context, types.RecordID) ([]types.VersionEntry, error) {
	return []types.VersionEntry{{Label: "1.0"}}, nil
}

func (stubGateway) FetchArtifacts(context.Context, types.BusinessKey) ([]types.ArtifactEntry, error) {
	return nil, nil
}

func TestNewWithCustomGateway(t *testing.T) {
	d, err := dossier.New(
		dossier.WithGateway(stubGateway{}),
		dossier.WithLogger(&logging.Nop),
	)
	require.NoError(t, err)

	result := d.Reconcile(context.Background(), "NDC123")

	require.Equal(t, reconcile.KindSuccess, result.Kind)
	require.Len(t, result.Versions, 1)
	assert.Equal(t, "1.0", result.Versions[0].Label)
}

func TestReconcileEndToEnd(t *testing.T) {
	var sawAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/sites/pharma/lists/TrackedRecords/items", func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"value":[{"Id":42}]}`))
	})
	mux.HandleFunc("/sites/pharma/lists/TrackedRecords/items/42/versions", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"value":[{"VersionLabel":"1.0"},{"VersionLabel":"2.0"}]}`))
	})
	mux.HandleFunc("/sites/pharma/folders/Artifacts/NDC123/files", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"value":[{"Name":"f2.pdf","ServerRelativeUrl":"/sites/pharma/Artifacts/NDC123/f2.pdf","VersionLabel":"2.0"}]}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	d, err := dossier.New(
		dossier.WithBaseURL(server.URL),
		dossier.WithSitePath("sites/pharma"),
		dossier.WithAccessToken("test-token"),
		dossier.WithLogger(&logging.Nop),
	)
	require.NoError(t, err)

	result := d.Reconcile(context.Background(), "NDC123")

	require.Equal(t, reconcile.KindSuccess, result.Kind)
	require.NoError(t, result.Err)
	require.Len(t, result.Versions, 2)

	assert.Equal(t, "1.0", result.Versions[0].Label)
	assert.Nil(t, result.Versions[0].Attachment)

	assert.Equal(t, "2.0", result.Versions[1].Label)
	require.NotNil(t, result.Versions[1].Attachment)
	assert.Equal(t, "f2.pdf", result.Versions[1].Attachment.Name)
	assert.Equal(t, server.URL+"/sites/pharma/Artifacts/NDC123/f2.pdf", result.Versions[1].Attachment.URL)

	assert.Equal(t, "Bearer test-token", sawAuth)
}

func TestReconcileEndToEndStore404IsTransportError(t *testing.T) {
	// No routes registered: every request 404s, as with a misconfigured list
	// name or site path. That must surface as a transport failure, not as a
	// clean record-not-found outcome.
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	d, err := dossier.New(
		dossier.WithBaseURL(server.URL),
		dossier.WithLogger(&logging.Nop),
	)
	require.NoError(t, err)

	result := d.Reconcile(context.Background(), "NDC123")

	assert.Equal(t, reconcile.KindTransportError, result.Kind)
	assert.Error(t, result.Err)
	assert.Empty(t, result.Versions)
}

func TestReconcileEndToEndNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/lists/TrackedRecords/items", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"value":[]}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	d, err := dossier.New(
		dossier.WithBaseURL(server.URL),
		dossier.WithLogger(&logging.Nop),
	)
	require.NoError(t, err)

	result := d.Reconcile(context.Background(), "UNKNOWN")

	assert.Equal(t, reconcile.KindRecordNotFound, result.Kind)
	assert.Error(t, result.Err)
	assert.Empty(t, result.Versions)
}
