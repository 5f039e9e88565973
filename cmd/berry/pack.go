// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/CodeLenny/berry/internal/config"
	"github.com/CodeLenny/berry/internal/install"
	"github.com/CodeLenny/berry/internal/issue"
	"github.com/CodeLenny/berry/internal/lifecycle"
	"github.com/CodeLenny/berry/internal/report"
	"github.com/CodeLenny/berry/pkg/archive"
	"github.com/CodeLenny/berry/pkg/pack"
	"github.com/CodeLenny/berry/pkg/packlist"
	"github.com/CodeLenny/berry/pkg/types"
	"github.com/CodeLenny/berry/pkg/workspace"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type (
	// packFlags holds the raw pack flag values before they are merged with
	// the loaded configuration.
	packFlags struct {
		installIfNeeded bool
		dryRun          bool
		json            bool
		out             string
	}

	// packParams bundles the dependencies and settings of one pack run so that
	// runPack can be tested without a Cobra command.
	packParams struct {
		stdout io.Writer
		stderr io.Writer
		logger *log.Logger

		cwd             string
		out             string // output path template, empty for <workspace>/package.tgz
		dryRun          bool
		json            bool
		installIfNeeded bool
		installCommand  string
		stateDir        string

		verbose     bool
		styled      bool
		colorScheme config.ColorScheme
	}
)

// newPackCommand creates the `berry pack` command.
func newPackCommand(app *App) *cobra.Command {
	flags := &packFlags{}

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Generate a tarball from the active workspace",
		Long: `Generate a tarball from the active workspace.

The workspace is the nearest directory at or above the current one that
contains a package.json. If it declares prepack or postpack scripts, its
dependencies must be installed first: berry restores the state of the last
install, or runs a fresh install with --install-if-needed.

The --out template may contain %s, replaced by the package name (scoped
names become @scope-name), and %v, replaced by the version. Relative paths
are resolved against the current directory.`,
		Example: `  # Write package.tgz in the workspace root
  berry pack

  # List the files that would be packed, as NDJSON
  berry pack --dry-run --json

  # Install dependencies first and write a versioned archive
  berry pack --install-if-needed -o dist/%s-%v.tgz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			ctx := cmd.Context()
			cwd, err := app.getwd()
			if err != nil {
				return fmt.Errorf("failed to determine current directory: %w", err)
			}

			loaded, err := app.loadConfig(ctx, cwd)
			if err != nil {
				if flags.json {
					return &ExitError{Code: reportConfigError(app.stdout, err)}
				}
				fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+issue.FormatError(err, app.verbose))
				return &ExitError{Code: types.ExitFailure}
			}

			p := newPackParams(app, loaded.Config, cwd)
			flags.apply(cmd.Flags(), &p)

			if code := runPack(ctx, p); code != types.ExitSuccess {
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func (f *packFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.installIfNeeded, "install-if-needed", false, "run a dependency install if the workspace has pack scripts")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "print the file paths without actually generating the package archive")
	fs.BoolVar(&f.json, "json", false, "format the output as an NDJSON stream")
	fs.StringVarP(&f.out, "out", "o", "", "create the archive at the specified path (%s and %v are replaced)")
}

// apply overrides p with the flags set on the command line.
func (f *packFlags) apply(fs *pflag.FlagSet, p *packParams) {
	if fs.Changed("install-if-needed") {
		p.installIfNeeded = f.installIfNeeded
	}
	if fs.Changed("dry-run") {
		p.dryRun = f.dryRun
	}
	if fs.Changed("json") {
		p.json = f.json
	}
	if fs.Changed("out") {
		p.out = f.out
	}
}

// reportConfigError records a configuration failure as an NDJSON error
// record, for runs that asked for --json before any config was loaded.
func reportConfigError(w io.Writer, err error) types.ExitCode {
	return report.Start(report.Config{Stdout: w, JSON: true}, func(*report.Session) error {
		return err
	}).Close()
}

// newPackParams derives run settings from the configuration.
func newPackParams(app *App, cfg *config.Config, cwd string) packParams {
	verbose := app.verbose || cfg.UI.Verbose
	return packParams{
		stdout:          app.stdout,
		stderr:          app.stderr,
		logger:          app.newLogger(verbose),
		cwd:             cwd,
		out:             cfg.Pack.Out,
		json:            cfg.UI.JSON,
		installIfNeeded: cfg.Pack.InstallIfNeeded,
		installCommand:  cfg.Install.Command,
		stateDir:        cfg.Install.StateDir,
		verbose:         verbose,
		styled:          isTerminal(app.stdout),
		colorScheme:     cfg.UI.ColorScheme,
	}
}

// runPack packs the workspace containing p.cwd under a report session and
// returns the session's exit code. Every failure is recorded in the session
// before runPack returns.
func runPack(ctx context.Context, p packParams) types.ExitCode {
	if p.logger == nil {
		p.logger = log.New(io.Discard)
	}

	var failure error
	session := report.Start(report.Config{
		Stdout:  p.stdout,
		JSON:    p.json,
		Styled:  p.styled,
		Verbose: p.verbose,
		Logger:  p.logger.WithPrefix("report"),
	}, func(s *report.Session) error {
		failure = packWorkspace(ctx, p, s)
		return failure
	})

	code := session.Close()
	if failure != nil && p.verbose && !p.json {
		renderIssue(p.stderr, failure, p.glamourStyle())
	}
	return code
}

func packWorkspace(ctx context.Context, p packParams, s *report.Session) error {
	ws, err := workspace.Find(p.cwd)
	if err != nil {
		return classifyPackError(err, p.cwd)
	}
	if err := ws.Manifest.CheckVersion(); err != nil {
		s.Warning(report.MessageInvalidManifest, err.Error())
	}

	runner := lifecycle.NewRunner(
		lifecycle.WithOutput(p.stderr, p.stderr),
		lifecycle.WithLogger(p.logger.WithPrefix("lifecycle")),
	)
	store := install.NewStateStore(p.stateDir)
	installer := install.NewCommandInstaller(runner, store,
		install.WithCommand(p.installCommand),
		install.WithLogger(p.logger.WithPrefix("install")),
	)

	resolver := install.NewResolver(installer, store, p.logger.WithPrefix("install"))
	if err := resolver.EnsureInstallable(ctx, ws, install.EnsureOptions{
		InstallIfNeeded: p.installIfNeeded,
		Report:          s,
	}); err != nil {
		return classifyPackError(err, ws.Root)
	}

	target, err := pack.RenderTarget(p.out, ws, p.cwd)
	if err != nil {
		return classifyPackError(err, p.out)
	}

	pipeline := pack.NewPipeline(
		packlist.New(packlist.WithLogger(p.logger.WithPrefix("packlist"))),
		archive.New(archive.WithLogger(p.logger.WithPrefix("archive"))),
		lifecycle.NewPreparer(runner, p.logger.WithPrefix("lifecycle")),
		pack.WithLogger(p.logger.WithPrefix("pack")),
	)
	res, err := pipeline.Run(ctx, ws, target, pack.RunOptions{DryRun: p.dryRun, Report: s})
	if err != nil {
		return classifyPackError(err, target)
	}

	if !p.dryRun && !p.json {
		s.Info(report.MessagePackOutput, fmt.Sprintf("Archive size: %s (%d files)",
			humanize.Bytes(uint64(res.Size)), len(res.Files)))
	}
	return nil
}

// classifyPackError wraps known pack failures into actionable errors linked to
// their issue page. Unknown errors are returned unchanged.
func classifyPackError(err error, resource string) error {
	ec := issue.NewErrorContext().WithResource(resource).Wrap(err)

	switch {
	case errors.Is(err, workspace.ErrWorkspaceNotFound):
		ec.WithOperation("find workspace").
			WithIssue(issue.WorkspaceMissingId).
			WithSuggestion("Run berry from inside a directory containing a package.json")
	case errors.Is(err, install.ErrNoInstallState), errors.Is(err, install.ErrStaleInstallState):
		ec.WithOperation("restore install state").
			WithIssue(issue.InstallStateMissingId).
			WithSuggestion("Run your install command before packing").
			WithSuggestion("Or pass --install-if-needed to install as part of the pack")
	case errors.Is(err, install.ErrInstallFailed):
		ec.WithOperation("install dependencies").
			WithIssue(issue.InstallFailedId).
			WithSuggestion("Check the install command output above")
	case errors.Is(err, pack.ErrPrepareFailed):
		ec.WithOperation("run pack lifecycle scripts").
			WithIssue(issue.PrepareFailedId).
			WithSuggestion("Check the prepack and postpack scripts in package.json")
	case errors.Is(err, pack.ErrStreamFailed), errors.Is(err, pack.ErrListFailed):
		ec.WithOperation("generate archive").
			WithIssue(issue.StreamFailedId).
			WithSuggestion("Check that every packed file is readable and the output directory exists")
	case errors.Is(err, types.ErrInvalidFilesystemPath):
		ec.WithOperation("render output path").
			WithSuggestion("Pass a non-empty path to --out")
	default:
		return err
	}

	return ec.BuildError()
}

func (p packParams) glamourStyle() string {
	if !p.styled {
		return "notty"
	}
	switch p.colorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// renderIssue prints the help page linked to err, if any.
func renderIssue(w io.Writer, err error, style string) {
	page := issue.For(err)
	if page == nil {
		return
	}
	rendered, renderErr := page.Render(style)
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}
