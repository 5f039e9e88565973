// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/CodeLenny/berry/internal/testutil/workspacetest"
	"github.com/CodeLenny/berry/pkg/workspace"

	"github.com/charmbracelet/log"
)

type fakeScripts struct {
	fail   map[string]error
	events []string
	// cancelled records whether ctx was already done when a script started.
	cancelled map[string]bool
}

func (f *fakeScripts) RunScript(ctx context.Context, _ *workspace.Workspace, name string) error {
	f.events = append(f.events, name)
	if f.cancelled == nil {
		f.cancelled = map[string]bool{}
	}
	f.cancelled[name] = ctx.Err() != nil
	return f.fail[name]
}

func TestPreparer_PrepareForPack(t *testing.T) {
	t.Parallel()

	prepackErr := errors.New("prepack exited 1")
	postpackErr := errors.New("postpack exited 2")
	bodyErr := errors.New("stream broke")

	tests := []struct {
		name       string
		scripts    []string
		fail       map[string]error
		bodyErr    error
		wantEvents string
		wantErrs   []error
	}{
		{
			name:       "both hooks around body",
			scripts:    []string{"prepack", "postpack"},
			wantEvents: "prepack,body,postpack",
		},
		{
			name:       "no hooks declared",
			wantEvents: "body",
		},
		{
			name:       "prepack failure skips body and postpack",
			scripts:    []string{"prepack", "postpack"},
			fail:       map[string]error{"prepack": prepackErr},
			wantEvents: "prepack",
			wantErrs:   []error{prepackErr},
		},
		{
			name:       "body failure still runs postpack",
			scripts:    []string{"prepack", "postpack"},
			bodyErr:    bodyErr,
			wantEvents: "prepack,body,postpack",
			wantErrs:   []error{bodyErr},
		},
		{
			name:       "body and postpack failures are joined",
			scripts:    []string{"postpack"},
			fail:       map[string]error{"postpack": postpackErr},
			bodyErr:    bodyErr,
			wantEvents: "body,postpack",
			wantErrs:   []error{bodyErr, postpackErr},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var opts []workspacetest.Option
			for _, s := range tt.scripts {
				opts = append(opts, workspacetest.WithScript(s, "true"))
			}
			ws := workspacetest.MustLoad(t, opts...)

			scripts := &fakeScripts{fail: tt.fail}
			p := NewPreparer(scripts, log.New(io.Discard))
			err := p.PrepareForPack(t.Context(), ws, func(context.Context) error {
				scripts.events = append(scripts.events, "body")
				return tt.bodyErr
			})

			if got := strings.Join(scripts.events, ","); got != tt.wantEvents {
				t.Errorf("events = %q, want %q", got, tt.wantEvents)
			}
			if len(tt.wantErrs) == 0 && err != nil {
				t.Fatalf("PrepareForPack() error = %v", err)
			}
			for _, want := range tt.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("PrepareForPack() error = %v, want %v in chain", err, want)
				}
			}
		})
	}
}

func TestPreparer_PostpackSurvivesCancellation(t *testing.T) {
	t.Parallel()

	ws := workspacetest.MustLoad(t, workspacetest.WithScript("postpack", "true"))
	scripts := &fakeScripts{}
	ctx, cancel := context.WithCancel(t.Context())

	err := NewPreparer(scripts, log.New(io.Discard)).PrepareForPack(ctx, ws, func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("PrepareForPack() error = %v, want context.Canceled", err)
	}
	if got := strings.Join(scripts.events, ","); got != "postpack" {
		t.Fatalf("events = %q, want postpack", got)
	}
	if scripts.cancelled["postpack"] {
		t.Error("postpack ran with a cancelled context")
	}
}
