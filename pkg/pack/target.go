// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"path/filepath"
	"strings"

	"github.com/CodeLenny/berry/pkg/types"
	"github.com/CodeLenny/berry/pkg/workspace"
)

const (
	// DefaultFileName is the archive name used when no template is given.
	DefaultFileName = "package.tgz"

	// PlaceholderName is replaced by the slug of the package name.
	PlaceholderName = "%s"
	// PlaceholderVersion is replaced by the package version.
	PlaceholderVersion = "%v"

	// FallbackName stands in for the name of unnamed workspaces.
	FallbackName = "package"
	// FallbackVersion stands in for a missing version.
	FallbackVersion = "unknown"
)

// RenderTarget computes the absolute archive path.
//
// Without a template the archive goes to the workspace root. A template may
// use %s and %v once each; later repeats stay literal and there is no escape
// syntax. A rendered template is resolved against cwd, the directory berry was
// invoked from, not against the workspace root.
func RenderTarget(template string, ws *workspace.Workspace, cwd string) (string, error) {
	if template == "" {
		return filepath.Join(ws.Root, DefaultFileName), nil
	}

	path := types.FilesystemPath(template)
	if err := path.Validate(); err != nil {
		return "", err
	}

	out := strings.Replace(template, PlaceholderName, nameSlug(ws), 1)
	out = strings.Replace(out, PlaceholderVersion, version(ws), 1)

	return types.FilesystemPath(out).ResolveAgainst(cwd), nil
}

func nameSlug(ws *workspace.Workspace) string {
	if ws.Manifest == nil || ws.Manifest.Name == nil {
		return FallbackName
	}
	return ws.Manifest.Name.Slug()
}

func version(ws *workspace.Workspace) string {
	if ws.Manifest == nil || ws.Manifest.Version == "" {
		return FallbackVersion
	}
	return ws.Manifest.Version
}
