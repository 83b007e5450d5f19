// Package render is the thin presentation adapter for reconciliation
// results. It consumes a finished reconcile.Result and writes it as a table,
// JSON, or YAML; it owns no business logic and never inspects anything but
// the result.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/recordflow/dossier/pkg/reconcile"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
)

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}

	// Default to JSON for pipes/redirects
	return FormatJSON
}

// ParseFormat converts a string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, "":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected table, json, or yaml)", s)
	}
}

// View is the serialized shape of a reconciliation result.
type View struct {
	Status   string        `json:"status" yaml:"status"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Versions []VersionView `json:"versions" yaml:"versions"`
}

// VersionView is one reconciled version in the serialized view.
type VersionView struct {
	Label      string          `json:"label" yaml:"label"`
	Created    string          `json:"created,omitempty" yaml:"created,omitempty"`
	Attachment *AttachmentView `json:"attachment,omitempty" yaml:"attachment,omitempty"`
}

// AttachmentView is the attachment reference in the serialized view.
type AttachmentView struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// NewView builds the serializable view of a result.
func NewView(result reconcile.Result) View {
	view := View{
		Status:   result.Kind.String(),
		Versions: []VersionView{},
	}
	if result.Err != nil {
		view.Error = result.Err.Error()
	}

	for _, v := range result.Versions {
		vv := VersionView{Label: v.Label}
		if !v.Created.IsZero() {
			vv.Created = v.Created.Format("2006-01-02 15:04:05 MST")
		}
		if v.Attachment != nil {
			vv.Attachment = &AttachmentView{
				Name: v.Attachment.Name,
				URL:  v.Attachment.URL,
			}
		}
		view.Versions = append(view.Versions, vv)
	}

	return view
}

// Render writes the result to w in the given format.
func Render(w io.Writer, result reconcile.Result, format Format) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatYAML:
		return renderYAML(w, result)
	default:
		return renderTable(w, result)
	}
}

func renderJSON(w io.Writer, result reconcile.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewView(result))
}

func renderYAML(w io.Writer, result reconcile.Result) error {
	data, err := yaml.MarshalWithOptions(NewView(result),
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func renderTable(w io.Writer, result reconcile.Result) error {
	if !result.Succeeded() {
		_, err := fmt.Fprintf(w, "%s: %v\n", titleCase(result.Kind.String()), result.Err)
		return err
	}

	if len(result.Versions) == 0 {
		_, err := fmt.Fprintln(w, "No versions found.")
		return err
	}

	table := tablewriter.NewTable(w)
	table.Header(titleCase("version"), titleCase("created"), titleCase("attachment"), titleCase("url"))

	for _, v := range result.Versions {
		created := "-"
		if !v.Created.IsZero() {
			created = v.Created.Format("2006-01-02")
		}
		name, url := "-", "-"
		if v.Attachment != nil {
			name = v.Attachment.Name
			url = v.Attachment.URL
		}
		if err := table.Append(v.Label, created, name, url); err != nil {
			return err
		}
	}

	return table.Render()
}

// titleCase renders identifiers as human-readable titles, e.g.
// "record_not_found" becomes "Record Not Found".
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}
