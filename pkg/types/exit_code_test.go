// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "zero is valid", value: 0, wantValid: true},
		{name: "one is valid", value: 1, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Errorf("ExitCode(%d).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
		})
	}
}

func TestExitCodeForErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		count int
		want  ExitCode
	}{
		{0, ExitSuccess},
		{1, ExitFailure},
		{7, ExitFailure},
	}

	for _, tt := range tests {
		if got := ExitCodeForErrors(tt.count); got != tt.want {
			t.Errorf("ExitCodeForErrors(%d) = %d, want %d", tt.count, got, tt.want)
		}
		if got := ExitCodeForErrors(tt.count).IsSuccess(); got != (tt.count == 0) {
			t.Errorf("ExitCodeForErrors(%d).IsSuccess() = %v", tt.count, got)
		}
	}
}

func TestExitCodeString(t *testing.T) {
	t.Parallel()

	if got := ExitCode(42).String(); got != "42" {
		t.Errorf("ExitCode(42).String() = %q, want %q", got, "42")
	}
}
