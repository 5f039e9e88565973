// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/jsonc"
)

// ManifestFileName is the file that marks a directory as a workspace.
const ManifestFileName = "package.json"

const (
	// ScriptPrepack runs before the archive is generated.
	ScriptPrepack = "prepack"
	// ScriptPostpack runs after the archive is generated, even on failure.
	ScriptPostpack = "postpack"
)

type (
	// Manifest holds the subset of package.json the pack command reads.
	Manifest struct {
		// Name is nil for unnamed workspaces.
		Name *Ident
		// Version is empty when the manifest does not declare one.
		Version string
		Scripts map[string]string
		// Files is the allow-list from the manifest "files" field.
		Files []string
	}

	rawManifest struct {
		Name    string            `json:"name"`
		Version string            `json:"version"`
		Scripts map[string]string `json:"scripts"`
		Files   []string          `json:"files"`
	}
)

// ParseManifest decodes package.json content. Comments and trailing commas
// are stripped before decoding.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	m := &Manifest{
		Version: raw.Version,
		Scripts: raw.Scripts,
		Files:   raw.Files,
	}
	if m.Scripts == nil {
		m.Scripts = map[string]string{}
	}

	if raw.Name != "" {
		ident, err := ParseIdent(raw.Name)
		if err != nil {
			return nil, err
		}
		m.Name = &ident
	}

	return m, nil
}

// ReadManifest reads and decodes the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// CheckVersion reports whether the declared version is valid semver.
// An absent version is not an error.
func (m *Manifest) CheckVersion() error {
	if m.Version == "" {
		return nil
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return fmt.Errorf("version %q is not valid semver: %w", m.Version, err)
	}
	return nil
}
