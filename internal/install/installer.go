// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"fmt"
	"time"

	"github.com/CodeLenny/berry/internal/report"
	"github.com/CodeLenny/berry/pkg/workspace"

	"github.com/charmbracelet/log"
)

// DefaultCommand is the install command used when none is configured.
const DefaultCommand = "npm install"

// eventInstall labels the install command in script errors and environment.
const eventInstall = "install"

type (
	// CommandRunner runs shell source in a directory on behalf of a workspace.
	CommandRunner interface {
		RunIn(ctx context.Context, dir string, ws *workspace.Workspace, event, source string) error
	}

	// InstallOptions configures one Install call.
	InstallOptions struct {
		// Report receives progress; nil means silent.
		Report report.Reporter
	}

	// CommandInstaller runs the install command at the project root and records the
	// resulting state.
	CommandInstaller struct {
		runner  CommandRunner
		store   *StateStore
		command string
		now     func() time.Time
		logger  *log.Logger
	}

	// CommandInstallerOption configures a CommandInstaller.
	CommandInstallerOption func(*CommandInstaller)
)

// NewCommandInstaller creates a CommandInstaller.
func NewCommandInstaller(runner CommandRunner, store *StateStore, opts ...CommandInstallerOption) *CommandInstaller {
	i := &CommandInstaller{
		runner:  runner,
		store:   store,
		command: DefaultCommand,
		now:     time.Now,
		logger:  log.WithPrefix("install"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// WithCommand sets the shell command that installs dependencies.
func WithCommand(command string) CommandInstallerOption {
	return func(i *CommandInstaller) {
		if command != "" {
			i.command = command
		}
	}
}

// WithClock sets the time source stamped into the install state.
func WithClock(now func() time.Time) CommandInstallerOption {
	return func(i *CommandInstaller) { i.now = now }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) CommandInstallerOption {
	return func(i *CommandInstaller) { i.logger = logger }
}

// Install runs the install command and persists the new state. The first
// failure aborts the install; nothing is retried.
func (i *CommandInstaller) Install(ctx context.Context, ws *workspace.Workspace, opts InstallOptions) error {
	dir := projectRoot(ws)
	if opts.Report != nil {
		opts.Report.Info(report.MessageInstall, fmt.Sprintf("Installing dependencies with %q", i.command))
	}

	i.logger.Debug("running install command", "command", i.command, "dir", dir)
	if err := i.runner.RunIn(ctx, dir, ws, eventInstall, i.command); err != nil {
		return &InstallError{Command: i.command, Err: err}
	}

	if i.store == nil {
		return nil
	}

	sum, err := Fingerprint(ws)
	if err != nil {
		return &InstallError{Command: i.command, Err: err}
	}
	if err := i.store.Save(ws, State{Fingerprint: sum, InstalledAt: i.now()}); err != nil {
		return &InstallError{Command: i.command, Err: fmt.Errorf("failed to persist install state: %w", err)}
	}
	i.logger.Debug("install state saved", "path", i.store.Path(ws))
	return nil
}
