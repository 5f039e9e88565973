// SPDX-License-Identifier: MPL-2.0

// Package workspace resolves the packable unit berry operates on.
//
// A workspace is a directory holding a package.json manifest. The manifest is
// decoded leniently (comments and trailing commas are tolerated) and only the
// fields the pack command needs are kept: name, version, scripts and files.
// Find walks up from the invocation directory to the nearest manifest; the
// project root is the nearest ancestor holding a lockfile.
package workspace
