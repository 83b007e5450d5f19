package reconcile

import "github.com/recordflow/dossier/pkg/types"

// join pairs each version with the first artifact (in artifact-fetch order)
// whose normalized join key equals the version's label. Comparison is exact
// string equality, case-sensitive. The output preserves history order and has
// exactly one entry per version; unmatched versions carry a nil Attachment.
//
// Artifacts normalized to types.UnknownJoinKey can never equal a real label,
// so they fall out of the join without a special case.
func join(history []types.VersionEntry, artifacts []types.ArtifactEntry) []types.ReconciledVersion {
	versions := make([]types.ReconciledVersion, 0, len(history))

	for _, entry := range history {
		reconciled := types.ReconciledVersion{
			Label:   entry.Label,
			Created: entry.Created,
		}

		for i := range artifacts {
			if artifacts[i].JoinVersionLabel == entry.Label {
				reconciled.Attachment = &types.ArtifactLink{
					Name: artifacts[i].Name,
					URL:  artifacts[i].URL,
				}
				break
			}
		}

		versions = append(versions, reconciled)
	}

	return versions
}
