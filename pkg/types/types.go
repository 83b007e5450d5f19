// Package types defines the domain entities shared across the dossier system.
// All entities are request-scoped value types: the reconciliation engine builds
// them fresh per invocation and hands them to callers read-only.
package types

import (
	"strconv"
	"strings"

	"github.com/agentstation/utc"
)

// BusinessKey is the opaque caller-supplied identifier that correlates a
// tracked record in the record store with its artifact folder (e.g. a
// product or drug code such as "NDC123").
type BusinessKey string

// String returns the string representation of the business key.
func (k BusinessKey) String() string {
	return string(k)
}

// IsEmpty reports whether the key is empty or whitespace-only.
func (k BusinessKey) IsEmpty() bool {
	return strings.TrimSpace(string(k)) == ""
}

// RecordID is the internal record-store identifier resolved from a
// BusinessKey. It addresses the record's version history; artifact lookups
// keep using the raw BusinessKey because the artifact store is addressed by
// folder name, not by item ID.
type RecordID int64

// String returns the decimal representation used in store endpoint paths.
func (id RecordID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UnknownJoinKey is the sentinel join key assigned to artifact entries whose
// version field is missing or unparseable. Version labels arrive over JSON as
// validated text, so a NUL-prefixed value can never equal a real label and an
// artifact carrying it never matches any version.
const UnknownJoinKey = "\x00unknown"

// VersionEntry is one point in a record's version history. Label is the join
// key; everything else is informational.
type VersionEntry struct {
	// Label is the version label, e.g. "3.0".
	Label string `json:"label"`

	// Created is when the version was created, if the store provided it.
	Created utc.Time `json:"created,omitempty"`
}

// ArtifactEntry is one uploaded file in the record's artifact folder,
// normalized from the store's loose schema into a strict shape. Raw remote
// records never travel past the gateway boundary.
type ArtifactEntry struct {
	// Name is the file name, e.g. "f2.pdf".
	Name string `json:"name"`

	// URL is the absolute download URL, built from the store base URL and
	// the file's server-relative path.
	URL string `json:"url"`

	// DisplayVersionLabel is the human-facing version string. Informational
	// only; never used for joining.
	DisplayVersionLabel string `json:"display_version_label,omitempty"`

	// JoinVersionLabel is compared against VersionEntry.Label. Missing or
	// unparseable version fields normalize to UnknownJoinKey, never to an
	// empty string.
	JoinVersionLabel string `json:"join_version_label"`

	// Uploaded is when the file was uploaded, if the store provided it.
	Uploaded utc.Time `json:"uploaded,omitempty"`
}

// ArtifactLink is the attachment reference carried by a reconciled version.
type ArtifactLink struct {
	// Name is the artifact file name.
	Name string `json:"name"`

	// URL is the absolute artifact URL.
	URL string `json:"url"`
}

// ReconciledVersion pairs one historical version with zero-or-one matching
// artifact. Attachment is nil when no artifact's join key equals Label; a nil
// attachment is the only "no attachment" representation, never an empty URL.
type ReconciledVersion struct {
	// Label is the version label, copied from the matching VersionEntry.
	Label string `json:"label"`

	// Created is the version creation time, if known.
	Created utc.Time `json:"created,omitempty"`

	// Attachment is the first artifact (in artifact-fetch order) whose join
	// key equals Label, or nil when none matches.
	Attachment *ArtifactLink `json:"attachment,omitempty"`
}

// HasAttachment reports whether an artifact was matched to this version.
func (v ReconciledVersion) HasAttachment() bool {
	return v.Attachment != nil
}
