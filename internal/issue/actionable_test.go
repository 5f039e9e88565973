// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "generate archive"},
			want: "failed to generate archive",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "write archive", Resource: "/tmp/package.tgz"},
			want: "failed to write archive: /tmp/package.tgz",
		},
		{
			name: "with cause",
			err:  &ActionableError{Operation: "write archive", Resource: "/tmp/package.tgz", Cause: errors.New("disk full")},
			want: "failed to write archive: /tmp/package.tgz: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("exit status 2")
	err := NewErrorContext().
		WithOperation("run prepack script").
		WithSuggestion("Run the script by hand").
		Wrap(fmt.Errorf("script failed: %w", root)).
		Build()

	plain := err.Format(false)
	if !strings.Contains(plain, "• Run the script by hand") {
		t.Errorf("Format(false) missing suggestion: %q", plain)
	}
	if strings.Contains(plain, "Error chain:") {
		t.Errorf("Format(false) should not include the chain: %q", plain)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "2. exit status 2") {
		t.Errorf("Format(true) missing chain: %q", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}

	cause := errors.New("boom")
	err := NewErrorContext().
		WithOperation("restore install state").
		WithResource("/repo").
		WithIssue(InstallStateMissingId).
		Wrap(cause).
		BuildError()

	if !errors.Is(err, cause) {
		t.Error("BuildError() result should unwrap to the cause")
	}

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *ActionableError, got %T", err)
	}
	if ae.Issue != InstallStateMissingId {
		t.Errorf("Issue = %d, want %d", ae.Issue, InstallStateMissingId)
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain")
	if got := FormatError(plain, true); got != "plain" {
		t.Errorf("FormatError(plain) = %q", got)
	}

	wrapped := fmt.Errorf("outer: %w", &ActionableError{Operation: "pack", Suggestions: []string{"retry"}})
	if got := FormatError(wrapped, false); !strings.Contains(got, "• retry") {
		t.Errorf("FormatError(wrapped) = %q, want suggestion", got)
	}
}
