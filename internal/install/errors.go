// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"fmt"
)

var (
	// ErrInstallFailed is matched by every error returned by CommandInstaller.Install.
	ErrInstallFailed = errors.New("dependency install failed")
	// ErrNoInstallState means no install was recorded, or its node_modules is gone.
	ErrNoInstallState = errors.New("no install state found")
	// ErrStaleInstallState means the manifest or lockfile changed since the
	// recorded install.
	ErrStaleInstallState = errors.New("install state is stale")
)

type (
	// InstallError wraps a failing install command or state write.
	InstallError struct {
		Command string
		Err     error
	}

	// StateError reports an unusable persisted install state at Path.
	StateError struct {
		Path string
		// Kind is ErrNoInstallState or ErrStaleInstallState.
		Kind error
		Err  error
	}
)

// Error implements the error interface.
func (e *InstallError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrInstallFailed, e.Command, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *InstallError) Unwrap() []error { return []error{ErrInstallFailed, e.Err} }

// Error implements the error interface.
func (e *StateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Path)
}

// Unwrap exposes the kind and, when set, the cause.
func (e *StateError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}
