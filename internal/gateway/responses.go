package gateway

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/recordflow/dossier/pkg/errors"
	"github.com/recordflow/dossier/pkg/types"
)

// Response envelopes for the record store API. Every collection endpoint
// wraps its results in a "value" field; the pointer distinguishes a missing
// collection (malformed response) from an empty one (valid, zero entries).

type itemsEnvelope struct {
	Value *[]itemResource `json:"value"`
}

type itemResource struct {
	ID *int64 `json:"Id"`
}

type versionsEnvelope struct {
	Value *[]versionResource `json:"value"`
}

type versionResource struct {
	VersionLabel *string    `json:"VersionLabel"`
	Created      *time.Time `json:"Created"`
}

type filesEnvelope struct {
	// Items stay raw so one undecodable entry can be skipped without
	// failing the whole response.
	Value *[]json.RawMessage `json:"value"`
}

type fileResource struct {
	Name              *string    `json:"Name"`
	ServerRelativeURL *string    `json:"ServerRelativeUrl"`
	VersionLabel      *string    `json:"VersionLabel"`
	DisplayVersion    *string    `json:"DisplayVersion"`
	Uploaded          *time.Time `json:"Uploaded"`
}

// decodeRecordID extracts the internal identifier from a matched record item.
func decodeRecordID(item itemResource) (types.RecordID, error) {
	if item.ID == nil {
		return 0, errors.NewParseError("json", "record lookup response", "matched item missing Id field", nil)
	}
	return types.RecordID(*item.ID), nil
}

// normalize converts a wire version entry into the strict internal shape.
// The label is the join key and is required; history with unlabeled entries
// is malformed as a whole, unlike artifacts which are skipped individually.
func (v versionResource) normalize() (types.VersionEntry, error) {
	if v.VersionLabel == nil || strings.TrimSpace(*v.VersionLabel) == "" {
		return types.VersionEntry{}, errors.NewParseError("json", "version history response", "entry missing VersionLabel", nil)
	}

	entry := types.VersionEntry{
		Label: strings.TrimSpace(*v.VersionLabel),
	}
	if v.Created != nil {
		entry.Created = utc.Time{Time: *v.Created}
	}
	return entry, nil
}

// normalizeArtifact converts one raw file entry into a strict ArtifactEntry.
// A missing or unparseable version field normalizes the join key to
// types.UnknownJoinKey so the entry can never accidentally match a version.
// Entries without a usable name or URL are malformed and reported as errors
// for the caller to skip.
func (c *Client) normalizeArtifact(raw json.RawMessage) (types.ArtifactEntry, error) {
	var file fileResource
	if err := json.Unmarshal(raw, &file); err != nil {
		return types.ArtifactEntry{}, errors.WrapParse("json", "artifact entry", err)
	}

	if file.Name == nil || strings.TrimSpace(*file.Name) == "" {
		return types.ArtifactEntry{}, errors.NewValidationError("Name", nil, "artifact entry missing file name")
	}
	if file.ServerRelativeURL == nil || strings.TrimSpace(*file.ServerRelativeURL) == "" {
		return types.ArtifactEntry{}, errors.NewValidationError("ServerRelativeUrl", nil, "artifact entry missing server-relative path")
	}

	absolute, err := c.rb.AbsoluteURL(strings.TrimSpace(*file.ServerRelativeURL))
	if err != nil {
		return types.ArtifactEntry{}, err
	}

	entry := types.ArtifactEntry{
		Name:             strings.TrimSpace(*file.Name),
		URL:              absolute,
		JoinVersionLabel: normalizeJoinKey(file.VersionLabel),
	}
	if file.DisplayVersion != nil {
		entry.DisplayVersionLabel = strings.TrimSpace(*file.DisplayVersion)
	}
	if file.Uploaded != nil {
		entry.Uploaded = utc.Time{Time: *file.Uploaded}
	}

	return entry, nil
}

// normalizeJoinKey maps a missing or blank version field to the sentinel that
// matches no real label. The result is never empty.
func normalizeJoinKey(label *string) string {
	if label == nil {
		return types.UnknownJoinKey
	}
	trimmed := strings.TrimSpace(*label)
	if trimmed == "" {
		return types.UnknownJoinKey
	}
	return trimmed
}
