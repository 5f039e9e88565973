// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFilesystemPathValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   FilesystemPath
		wantErr bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"out.tgz", false},
		{"/art/%s-%v.tgz", false},
	}

	for _, tt := range tests {
		err := tt.value.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("FilesystemPath(%q).Validate() error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidFilesystemPath) {
			t.Errorf("error does not wrap ErrInvalidFilesystemPath: %v", err)
		}
	}
}

func TestFilesystemPathResolveAgainst(t *testing.T) {
	t.Parallel()

	base := filepath.Join(string(filepath.Separator), "home", "dev")
	abs := filepath.Join(string(filepath.Separator), "art", "out.tgz")

	if got := FilesystemPath("dist/out.tgz").ResolveAgainst(base); got != filepath.Join(base, "dist", "out.tgz") {
		t.Errorf("relative path resolved to %q", got)
	}
	if got := FilesystemPath(abs).ResolveAgainst(base); got != abs {
		t.Errorf("absolute path resolved to %q, want %q", got, abs)
	}
	if got := FilesystemPath("../x.tgz").ResolveAgainst(base); got != filepath.Join(string(filepath.Separator), "home", "x.tgz") {
		t.Errorf("parent-relative path resolved to %q", got)
	}
}
