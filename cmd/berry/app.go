// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/CodeLenny/berry/internal/config"
	"github.com/CodeLenny/berry/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the same App and reads configuration through its provider.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
		getwd  func() (string, error)

		// Persistent flag values, bound by the root command.
		configPath string
		verbose    bool
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
		// Getwd returns the invocation directory. Defaults to os.Getwd.
		Getwd func() (string, error)
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Result, error)
	}
)

// NewApp creates an App, filling unset dependencies with defaults.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		getwd:  deps.Getwd,
	}, nil
}

// loadConfig loads the effective configuration for an invocation in cwd.
func (a *App) loadConfig(ctx context.Context, cwd string) (*config.Result, error) {
	return a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.configPath),
		BaseDir:        types.FilesystemPath(cwd),
	})
}

// newLogger creates the diagnostic logger. Logs go to stderr so they never
// mix with report output.
func (a *App) newLogger(verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Level:  level,
		Prefix: "berry",
	})
}
