// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/CodeLenny/berry/internal/config"
	"github.com/CodeLenny/berry/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `berry config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage berry configuration",
		Long: `Manage berry configuration.

Settings are merged from, lowest precedence first:
  - built-in defaults
  - the user config file (~/.config/berry/config.cue, or --config)
  - the nearest .berryrc.yml at or above the current directory
  - BERRY_* environment variables (BERRY_PACK_OUT, BERRY_UI_JSON, ...)
  - command-line flags`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cwd, err := app.getwd()
			if err != nil {
				return fmt.Errorf("failed to determine current directory: %w", err)
			}
			return showConfig(cmd.Context(), app, cwd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return initConfig(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return showConfigPath(app.stdout)
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, cwd string) error {
	loaded, err := app.loadConfig(ctx, cwd)
	if err != nil {
		if page := issue.Get(issue.ConfigLoadFailedId); page != nil {
			if rendered, renderErr := page.Render("notty"); renderErr == nil {
				fmt.Fprint(app.stderr, rendered)
			}
		}
		return err
	}

	w := app.stdout
	fmt.Fprintln(w, SubtitleStyle.Render("// Sources:"))
	if len(loaded.Sources) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("//   (defaults only)"))
	}
	for _, src := range loaded.Sources {
		fmt.Fprintln(w, SubtitleStyle.Render("//   "+src))
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, config.GenerateCUE(loaded.Config))
	return nil
}

func initConfig(w io.Writer) error {
	path, created, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !created {
		fmt.Fprintf(w, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), CmdStyle.Render(path))
		return nil
	}
	fmt.Fprintf(w, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
	return nil
}

func showConfigPath(w io.Writer) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	path, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Config directory: %s\n", dir)
	fmt.Fprintf(w, "Config file: %s\n", path)
	return nil
}
