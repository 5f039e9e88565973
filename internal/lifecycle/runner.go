// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/CodeLenny/berry/pkg/types"
	"github.com/CodeLenny/berry/pkg/workspace"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ErrScriptFailed is the sentinel error wrapped by ScriptError.
var ErrScriptFailed = errors.New("script failed")

type (
	// Runner executes shell source inside a workspace.
	Runner struct {
		stdout  io.Writer
		stderr  io.Writer
		environ func() []string
		logger  *log.Logger
	}

	// RunnerOption configures a Runner.
	RunnerOption func(*Runner)

	// ScriptError reports a script that could not run or exited non-zero.
	ScriptError struct {
		Name string
		// ExitCode is the script status, or 1 when it never started.
		ExitCode types.ExitCode
		Err      error
	}
)

// NewRunner creates a Runner writing script output to stderr by default, so
// that stdout stays reserved for the command report.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		stdout:  os.Stderr,
		stderr:  os.Stderr,
		environ: os.Environ,
		logger:  log.WithPrefix("lifecycle"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithOutput sets where script stdout and stderr go.
func WithOutput(stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithEnviron replaces the host environment source.
func WithEnviron(environ func() []string) RunnerOption {
	return func(r *Runner) { r.environ = environ }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// RunScript runs the manifest script called name. A missing script is a no-op.
func (r *Runner) RunScript(ctx context.Context, ws *workspace.Workspace, name string) error {
	script := ws.Script(name)
	if script == "" {
		return nil
	}
	return r.Run(ctx, ws, name, script)
}

// Run interprets source in the workspace root, labelled as event.
func (r *Runner) Run(ctx context.Context, ws *workspace.Workspace, event, source string) error {
	return r.RunIn(ctx, ws.Root, ws, event, source)
}

// RunIn interprets source in dir with the environment of ws.
func (r *Runner) RunIn(ctx context.Context, dir string, ws *workspace.Workspace, event, source string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(source), event)
	if err != nil {
		return &ScriptError{Name: event, ExitCode: types.ExitFailure, Err: fmt.Errorf("failed to parse script: %w", err)}
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(buildEnv(r.environ(), ws, event, source)...)),
		interp.StdIO(nil, r.stdout, r.stderr),
	)
	if err != nil {
		return &ScriptError{Name: event, ExitCode: types.ExitFailure, Err: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	r.logger.Debug("running script", "event", event, "dir", dir)
	err = runner.Run(ctx, prog)
	if err == nil {
		return nil
	}

	var status interp.ExitStatus
	if errors.As(err, &status) {
		if status == 0 {
			return nil
		}
		return &ScriptError{Name: event, ExitCode: types.ExitCode(status), Err: err}
	}
	return &ScriptError{Name: event, ExitCode: types.ExitFailure, Err: err}
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s script exited with code %s: %v", e.Name, e.ExitCode, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *ScriptError) Unwrap() []error { return []error{ErrScriptFailed, e.Err} }
