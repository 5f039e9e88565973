// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"errors"
	"fmt"
)

var (
	// ErrPrepareFailed is matched by errors from the prepack/postpack scope.
	ErrPrepareFailed = errors.New("pack preparation failed")
	// ErrListFailed is matched by errors from the pack-list collaborator.
	ErrListFailed = errors.New("pack list failed")
	// ErrStreamFailed is matched by errors while generating or writing the archive.
	ErrStreamFailed = errors.New("archive generation failed")
)

type (
	// PrepareError reports a failing lifecycle script around packing.
	PrepareError struct {
		Err error
	}

	// StreamError reports a failure while producing the archive at Target.
	// A truncated file may remain at Target.
	StreamError struct {
		Target string
		Err    error
	}
)

// Error implements the error interface.
func (e *PrepareError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPrepareFailed, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *PrepareError) Unwrap() []error { return []error{ErrPrepareFailed, e.Err} }

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrStreamFailed, e.Target, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *StreamError) Unwrap() []error { return []error{ErrStreamFailed, e.Err} }
