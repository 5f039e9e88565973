// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrWorkspaceNotFound is the sentinel error wrapped by NotFoundError.
var ErrWorkspaceNotFound = errors.New("no workspace found")

// Lockfiles are the file names that mark a project root, in lookup order.
var Lockfiles = []string{"yarn.lock", "package-lock.json", "npm-shrinkwrap.json", "pnpm-lock.yaml"}

type (
	// Workspace identifies a packable unit.
	Workspace struct {
		// Root is the absolute directory holding the manifest.
		Root string
		// ProjectRoot is the nearest ancestor (or Root itself) holding a
		// lockfile. It equals Root when no lockfile exists.
		ProjectRoot string
		// Lockfile is the absolute lockfile path, empty when none was found.
		Lockfile string
		Manifest *Manifest
	}

	// NotFoundError is returned when no manifest exists at or above a directory.
	NotFoundError struct {
		Dir string
	}
)

// Find returns the workspace owning cwd: the nearest directory at or above
// cwd holding a manifest.
func Find(cwd string) (*Workspace, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cwd, err)
	}

	for dir := abs; ; {
		if fileExists(filepath.Join(dir, ManifestFileName)) {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, &NotFoundError{Dir: abs}
		}
		dir = parent
	}
}

// Load reads the workspace rooted at dir.
func Load(dir string) (*Workspace, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	manifestPath := filepath.Join(root, ManifestFileName)
	if !fileExists(manifestPath) {
		return nil, &NotFoundError{Dir: root}
	}

	m, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{Root: root, Manifest: m}
	ws.ProjectRoot, ws.Lockfile = findProjectRoot(root)
	return ws, nil
}

// HasPackScripts reports whether the workspace declares a script that runs
// around packing.
func HasPackScripts(ws *Workspace) bool {
	return ws.HasScript(ScriptPrepack) || ws.HasScript(ScriptPostpack)
}

// HasScript reports whether the manifest declares a non-empty script.
func (w *Workspace) HasScript(name string) bool {
	return w.Script(name) != ""
}

// Script returns the script body, or "" when undeclared.
func (w *Workspace) Script(name string) string {
	if w.Manifest == nil {
		return ""
	}
	return w.Manifest.Scripts[name]
}

// DisplayName returns the package name, or the root directory name for
// unnamed workspaces.
func (w *Workspace) DisplayName() string {
	if w.Manifest != nil && w.Manifest.Name != nil {
		return w.Manifest.Name.String()
	}
	return filepath.Base(w.Root)
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found in %s or any parent directory", ManifestFileName, e.Dir)
}

// Unwrap returns ErrWorkspaceNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrWorkspaceNotFound }

func findProjectRoot(root string) (projectRoot, lockfile string) {
	for dir := root; ; {
		for _, name := range Lockfiles {
			candidate := filepath.Join(dir, name)
			if fileExists(candidate) {
				return dir, candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return root, ""
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
