// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"testing"
)

func TestParseIdent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		want     Ident
		wantSlug string
		wantErr  bool
	}{
		{in: "foo", want: Ident{Name: "foo"}, wantSlug: "foo"},
		{in: "@scope/foo", want: Ident{Scope: "scope", Name: "foo"}, wantSlug: "@scope-foo"},
		{in: "@babel/core", want: Ident{Scope: "babel", Name: "core"}, wantSlug: "@babel-core"},
		{in: "", wantErr: true},
		{in: "a/b", wantErr: true},
		{in: "@scope", wantErr: true},
		{in: "@/foo", wantErr: true},
		{in: "@scope/", wantErr: true},
		{in: "@scope/foo/bar", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseIdent(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidIdent) {
					t.Fatalf("ParseIdent(%q) error = %v, want ErrInvalidIdent", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIdent(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseIdent(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
			if got.Slug() != tt.wantSlug {
				t.Errorf("Slug() = %q, want %q", got.Slug(), tt.wantSlug)
			}
		})
	}
}
