// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for berry.
//
// The root command wires an App, the composition root holding the
// configuration provider and output streams, into every subcommand. The
// pack command is the main entry point; config inspects and initializes
// the user configuration.
package cmd
