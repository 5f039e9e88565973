// SPDX-License-Identifier: MPL-2.0

// Package workspacetest builds package.json workspaces on disk for tests.
// It is separate from testutil so that testutil stays free of pkg imports.
//
//	dir := workspacetest.New(t,
//	    workspacetest.WithName("@scope/foo"),
//	    workspacetest.WithVersion("1.2.3"),
//	    workspacetest.WithFile("lib/index.js", "module.exports = 1\n"),
//	)
package workspacetest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/CodeLenny/berry/internal/testutil"
	"github.com/CodeLenny/berry/pkg/workspace"
)

type (
	// Option configures a test workspace.
	Option func(*fixture)

	fixture struct {
		manifest map[string]any
		scripts  map[string]string
		files    map[string]fileSpec
	}

	fileSpec struct {
		content string
		perm    os.FileMode
	}
)

// New writes a workspace into a fresh temp directory and returns its root.
func New(t testing.TB, opts ...Option) string {
	t.Helper()
	return NewIn(t, t.TempDir(), opts...)
}

// NewIn writes a workspace into dir and returns dir.
func NewIn(t testing.TB, dir string, opts ...Option) string {
	t.Helper()

	f := &fixture{
		manifest: map[string]any{},
		scripts:  map[string]string{},
		files:    map[string]fileSpec{},
	}
	for _, opt := range opts {
		opt(f)
	}
	if len(f.scripts) > 0 {
		f.manifest["scripts"] = f.scripts
	}

	data, err := json.MarshalIndent(f.manifest, "", "  ")
	if err != nil {
		t.Fatalf("failed to encode manifest: %v", err)
	}
	testutil.MustWriteFile(t, filepath.Join(dir, workspace.ManifestFileName), string(data)+"\n", 0o644)

	for rel, spec := range f.files {
		testutil.MustWriteFile(t, filepath.Join(dir, filepath.FromSlash(rel)), spec.content, spec.perm)
	}
	return dir
}

// MustLoad writes a workspace like New and loads it.
func MustLoad(t testing.TB, opts ...Option) *workspace.Workspace {
	t.Helper()

	ws, err := workspace.Load(New(t, opts...))
	if err != nil {
		t.Fatalf("failed to load test workspace: %v", err)
	}
	return ws
}

// WithName sets the manifest name.
func WithName(name string) Option {
	return func(f *fixture) { f.manifest["name"] = name }
}

// WithVersion sets the manifest version.
func WithVersion(version string) Option {
	return func(f *fixture) { f.manifest["version"] = version }
}

// WithScript declares a manifest script.
func WithScript(name, body string) Option {
	return func(f *fixture) { f.scripts[name] = body }
}

// WithFilesField sets the manifest "files" allow-list.
func WithFilesField(patterns ...string) Option {
	return func(f *fixture) { f.manifest["files"] = patterns }
}

// WithFile writes a regular file (mode 0644) at the slash-separated path.
func WithFile(rel, content string) Option {
	return WithFileMode(rel, content, 0o644)
}

// WithFileMode writes a file with an explicit mode.
func WithFileMode(rel, content string, perm os.FileMode) Option {
	return func(f *fixture) { f.files[rel] = fileSpec{content: content, perm: perm} }
}
