// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/CodeLenny/berry/pkg/workspace"

	"golang.org/x/exp/slices"
)

const (
	// EnvLifecycleEvent names the script being run.
	EnvLifecycleEvent = "npm_lifecycle_event"
	// EnvLifecycleScript holds the script body being run.
	EnvLifecycleScript = "npm_lifecycle_script"
	// EnvPackageName holds the manifest name, when there is one.
	EnvPackageName = "npm_package_name"
	// EnvPackageVersion holds the manifest version, when there is one.
	EnvPackageVersion = "npm_package_version"
)

// buildEnv layers the script variables over the host environment and puts
// the workspace and project bin directories first on PATH.
func buildEnv(host []string, ws *workspace.Workspace, event, script string) []string {
	env := make(map[string]string, len(host)+4)
	for _, entry := range host {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = value
	}

	env[EnvLifecycleEvent] = event
	env[EnvLifecycleScript] = script
	if ws.Manifest != nil {
		if ws.Manifest.Name != nil {
			env[EnvPackageName] = ws.Manifest.Name.String()
		}
		if ws.Manifest.Version != "" {
			env[EnvPackageVersion] = ws.Manifest.Version
		}
	}

	bins := []string{filepath.Join(ws.Root, "node_modules", ".bin")}
	if ws.ProjectRoot != "" && ws.ProjectRoot != ws.Root {
		bins = append(bins, filepath.Join(ws.ProjectRoot, "node_modules", ".bin"))
	}
	if path := env["PATH"]; path != "" {
		bins = append(bins, path)
	}
	env["PATH"] = strings.Join(bins, string(os.PathListSeparator))

	return envToSlice(env)
}

// envToSlice returns KEY=VALUE pairs sorted by key.
func envToSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	slices.Sort(out)
	return out
}
