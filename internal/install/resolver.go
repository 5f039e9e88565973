// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"

	"github.com/CodeLenny/berry/internal/report"
	"github.com/CodeLenny/berry/pkg/workspace"

	"github.com/charmbracelet/log"
)

type (
	// Installer installs a workspace's dependencies from scratch.
	Installer interface {
		Install(ctx context.Context, ws *workspace.Workspace, opts InstallOptions) error
	}

	// Restorer reuses the state of a previous install.
	Restorer interface {
		RestoreInstallState(ctx context.Context, ws *workspace.Workspace) error
	}

	// EnsureOptions configures EnsureInstallable.
	EnsureOptions struct {
		// InstallIfNeeded runs a full install instead of restoring state.
		InstallIfNeeded bool
		// Report receives install progress.
		Report report.Reporter
	}

	// Resolver chooses between installing and restoring before a pack.
	Resolver struct {
		installer Installer
		restorer  Restorer
		logger    *log.Logger
	}
)

// NewResolver creates a Resolver.
func NewResolver(installer Installer, restorer Restorer, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.WithPrefix("install")
	}
	return &Resolver{installer: installer, restorer: restorer, logger: logger}
}

// EnsureInstallable makes dependencies usable for the workspace's pack
// scripts. Workspaces without prepack or postpack scripts need nothing and
// neither collaborator is called. Errors from the chosen action are returned
// as is.
func (r *Resolver) EnsureInstallable(ctx context.Context, ws *workspace.Workspace, opts EnsureOptions) error {
	if !workspace.HasPackScripts(ws) {
		r.logger.Debug("no pack scripts, skipping install", "workspace", ws.DisplayName())
		return nil
	}

	if opts.InstallIfNeeded {
		return r.installer.Install(ctx, ws, InstallOptions{Report: opts.Report})
	}
	return r.restorer.RestoreInstallState(ctx, ws)
}
