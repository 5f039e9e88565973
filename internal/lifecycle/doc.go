// SPDX-License-Identifier: MPL-2.0

// Package lifecycle runs manifest scripts and shell commands for a workspace
// through an embedded POSIX shell interpreter, so pack hooks behave the same
// on every platform.
package lifecycle
