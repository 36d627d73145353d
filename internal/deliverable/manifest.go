package deliverable

import (
	"path/filepath"
	"slices"
)

// FormatVersion is embedded in every manifest written by this package.
const FormatVersion = "1.0"

const (
	// ManifestFile is the package entry point written at the export root.
	ManifestFile = "metadata.json"
	assetDirName = "asset"
)

// Manifest is the content of metadata.json. Field order matches the file.
type Manifest struct {
	Version    string   `json:"version"`
	Dependency []string `json:"dependency"`
	Processor  any      `json:"processor"`
	Model      any      `json:"model"`
	Metadata   any      `json:"metadata"`
}

// Descriptor returns the descriptor stored for role.
func (m *Manifest) Descriptor(role Role) any {
	switch role {
	case RoleMetadata:
		return m.Metadata
	case RoleModel:
		return m.Model
	case RoleProcessor:
		return m.Processor
	default:
		return nil
	}
}

// ManifestPath returns the manifest location inside an export directory.
func ManifestPath(exportDir string) string {
	return filepath.Join(exportDir, ManifestFile)
}

// AssetDir returns the asset subdirectory for role inside an export directory.
func AssetDir(exportDir string, role Role) string {
	return filepath.Join(exportDir, assetDirName, string(role))
}

// mergeDependencies returns the sorted, deduplicated union of lists.
// The result is never nil so it encodes as [] rather than null.
func mergeDependencies(lists ...[]string) []string {
	merged := make([]string, 0)
	for _, l := range lists {
		merged = append(merged, l...)
	}
	slices.Sort(merged)
	return slices.Compact(merged)
}
