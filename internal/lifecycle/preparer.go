// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"context"
	"errors"

	"github.com/CodeLenny/berry/pkg/workspace"

	"github.com/charmbracelet/log"
)

type (
	// ScriptRunner runs a named manifest script.
	ScriptRunner interface {
		RunScript(ctx context.Context, ws *workspace.Workspace, name string) error
	}

	// Preparer wraps pack bodies with the prepack and postpack scripts.
	Preparer struct {
		scripts ScriptRunner
		logger  *log.Logger
	}
)

// NewPreparer creates a Preparer.
func NewPreparer(scripts ScriptRunner, logger *log.Logger) *Preparer {
	if logger == nil {
		logger = log.WithPrefix("lifecycle")
	}
	return &Preparer{scripts: scripts, logger: logger}
}

// PrepareForPack runs prepack, then body, then postpack. When prepack fails
// neither body nor postpack runs. Once body has started, postpack runs exactly
// once even if body fails or ctx is cancelled, and its error is joined with
// the body error.
func (p *Preparer) PrepareForPack(ctx context.Context, ws *workspace.Workspace, body func(context.Context) error) (err error) {
	if err := p.run(ctx, ws, workspace.ScriptPrepack); err != nil {
		return err
	}

	defer func() {
		teardownErr := p.run(context.WithoutCancel(ctx), ws, workspace.ScriptPostpack)
		err = errors.Join(err, teardownErr)
	}()

	return body(ctx)
}

func (p *Preparer) run(ctx context.Context, ws *workspace.Workspace, name string) error {
	if !ws.HasScript(name) {
		return nil
	}
	p.logger.Info("running lifecycle script", "script", name, "workspace", ws.DisplayName())
	return p.scripts.RunScript(ctx, ws, name)
}
