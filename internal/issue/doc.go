// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved, and
// remediation hints. Each failure class of the pack command also has a
// Markdown issue page, rendered with glamour when verbose output is requested.
package issue
