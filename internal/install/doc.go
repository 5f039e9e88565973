// SPDX-License-Identifier: MPL-2.0

// Package install makes sure a workspace has usable dependencies before its
// pack scripts run, either by running the configured install command or by
// checking the state persisted by a previous install.
package install
