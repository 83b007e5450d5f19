package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/agentstation/utc"

	"github.com/recordflow/dossier/pkg/errors"
	"github.com/recordflow/dossier/pkg/reconcile"
	"github.com/recordflow/dossier/pkg/types"
)

func successResult() reconcile.Result {
	created := utc.Time{Time: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	return reconcile.Success([]types.ReconciledVersion{
		{Label: "1.0", Created: created},
		{Label: "2.0", Attachment: &types.ArtifactLink{
			Name: "f2.pdf",
			URL:  "https://records.example.com/sites/pharma/Artifacts/NDC123/f2.pdf",
		}},
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"JSON", FormatJSON, false},
		{"", "", false},
		{"xml", "", true},
		{"csv", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewView(t *testing.T) {
	view := NewView(successResult())

	if view.Status != "success" {
		t.Errorf("Status = %q, want success", view.Status)
	}
	if view.Error != "" {
		t.Errorf("Error = %q, want empty", view.Error)
	}
	if len(view.Versions) != 2 {
		t.Fatalf("got %d versions, want 2", len(view.Versions))
	}
	if view.Versions[0].Created == "" {
		t.Error("Versions[0].Created not rendered")
	}
	if view.Versions[0].Attachment != nil {
		t.Error("Versions[0] unexpectedly has an attachment")
	}
	if view.Versions[1].Attachment == nil {
		t.Fatal("Versions[1] missing attachment")
	}
	if view.Versions[1].Attachment.Name != "f2.pdf" {
		t.Errorf("Attachment.Name = %q, want f2.pdf", view.Versions[1].Attachment.Name)
	}
}

func TestNewViewFailure(t *testing.T) {
	result := reconcile.Failure(reconcile.KindRecordNotFound,
		errors.NewNotFoundError("record", "UNKNOWN"))

	view := NewView(result)

	if view.Status != "record_not_found" {
		t.Errorf("Status = %q, want record_not_found", view.Status)
	}
	if view.Error == "" {
		t.Error("Error is empty for a failure result")
	}
	// Empty, not null, when serialized.
	if view.Versions == nil {
		t.Error("Versions is nil, want empty slice")
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, successResult(), FormatJSON); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var decoded View
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Status != "success" {
		t.Errorf("Status = %q, want success", decoded.Status)
	}
	if len(decoded.Versions) != 2 {
		t.Errorf("got %d versions, want 2", len(decoded.Versions))
	}
	// Unattached versions omit the field entirely rather than emitting null.
	if strings.Contains(buf.String(), `"attachment": null`) {
		t.Error("unattached version serialized as explicit null")
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, successResult(), FormatYAML); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"status: success", "label:", "f2.pdf"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, successResult(), FormatTable); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"1.0", "2.0", "f2.pdf"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableEmptyHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, reconcile.Success(nil), FormatTable); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No versions found.") {
		t.Errorf("output = %q, want empty-history message", buf.String())
	}
}

func TestRenderTableFailure(t *testing.T) {
	var buf bytes.Buffer
	result := reconcile.Failure(reconcile.KindRecordNotFound,
		errors.NewNotFoundError("record", "UNKNOWN"))

	if err := Render(&buf, result, FormatTable); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Record Not Found:") {
		t.Errorf("output = %q, want title-cased failure line", buf.String())
	}
}
