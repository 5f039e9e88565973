// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/CodeLenny/berry/internal/config"
)

func TestShowConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Install.Command = "pnpm install"
	provider := &stubProvider{cfg: cfg, sources: []string{"/home/dev/.config/berry/config.cue", "/work/.berryrc.yml"}}
	app, stdout, _ := newTestApp(t, provider, "/work")

	if err := showConfig(t.Context(), app, "/work"); err != nil {
		t.Fatalf("showConfig() error = %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"/home/dev/.config/berry/config.cue", "/work/.berryrc.yml", `"pnpm install"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowConfig_DefaultsOnly(t *testing.T) {
	t.Parallel()

	app, stdout, _ := newTestApp(t, &stubProvider{cfg: config.DefaultConfig()}, "/work")
	if err := showConfig(t.Context(), app, "/work"); err != nil {
		t.Fatalf("showConfig() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "(defaults only)") {
		t.Errorf("output missing defaults marker:\n%s", stdout)
	}
}

func TestShowConfig_LoadError(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("broken")
	app, _, _ := newTestApp(t, &stubProvider{err: loadErr}, "/work")
	if err := showConfig(t.Context(), app, "/work"); !errors.Is(err, loadErr) {
		t.Errorf("showConfig() error = %v, want %v", err, loadErr)
	}
}

func TestConfigPathAndInit(t *testing.T) {
	// Not parallel: overrides the process-wide config directory.
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	var out strings.Builder
	if err := showConfigPath(&out); err != nil {
		t.Fatalf("showConfigPath() error = %v", err)
	}
	if !strings.Contains(out.String(), dir) {
		t.Errorf("path output %q does not mention %s", out.String(), dir)
	}

	out.Reset()
	if err := initConfig(&out); err != nil {
		t.Fatalf("initConfig() error = %v", err)
	}
	if !strings.Contains(out.String(), "Created default configuration") {
		t.Errorf("first init output = %q", out.String())
	}

	out.Reset()
	if err := initConfig(&out); err != nil {
		t.Fatalf("second initConfig() error = %v", err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Errorf("second init output = %q", out.String())
	}
}
