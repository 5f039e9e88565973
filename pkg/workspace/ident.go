// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidIdent is the sentinel error wrapped by InvalidIdentError.
var ErrInvalidIdent = errors.New("invalid package name")

type (
	// Ident is a package name, optionally scoped (@scope/name).
	Ident struct {
		Scope string
		Name  string
	}

	// InvalidIdentError is returned when a manifest name cannot be parsed.
	InvalidIdentError struct {
		Value  string
		Reason string
	}
)

// ParseIdent parses "name" or "@scope/name".
func ParseIdent(s string) (Ident, error) {
	if s == "" {
		return Ident{}, &InvalidIdentError{Value: s, Reason: "must not be empty"}
	}

	if !strings.HasPrefix(s, "@") {
		if strings.Contains(s, "/") {
			return Ident{}, &InvalidIdentError{Value: s, Reason: "unscoped names cannot contain '/'"}
		}
		return Ident{Name: s}, nil
	}

	scope, name, ok := strings.Cut(s[1:], "/")
	if !ok || scope == "" || name == "" {
		return Ident{}, &InvalidIdentError{Value: s, Reason: "scoped names must look like @scope/name"}
	}
	if strings.Contains(name, "/") {
		return Ident{}, &InvalidIdentError{Value: s, Reason: "too many '/' separators"}
	}

	return Ident{Scope: scope, Name: name}, nil
}

// String returns the canonical manifest form of the ident.
func (i Ident) String() string {
	if i.Scope != "" {
		return "@" + i.Scope + "/" + i.Name
	}
	return i.Name
}

// Slug returns a form of the ident that is safe to use as a single path
// segment: "@scope/name" becomes "@scope-name".
func (i Ident) Slug() string {
	if i.Scope != "" {
		return "@" + i.Scope + "-" + i.Name
	}
	return i.Name
}

// Error implements the error interface.
func (e *InvalidIdentError) Error() string {
	return fmt.Sprintf("invalid package name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidIdent for errors.Is() compatibility.
func (e *InvalidIdentError) Unwrap() error { return ErrInvalidIdent }
