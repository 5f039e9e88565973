// SPDX-License-Identifier: MPL-2.0

// Package config handles berry configuration using Viper with CUE as the file format.
//
// Settings are layered, lowest precedence first:
//
//  1. built-in defaults (DefaultConfig)
//  2. the user config file, config.cue in the platform config directory
//     (~/.config/berry on Linux, ~/Library/Application Support/berry on macOS,
//     %APPDATA%\berry on Windows), or the file passed with --config
//  3. the nearest .berryrc.yml at or above the working directory
//  4. BERRY_* environment variables (BERRY_PACK_OUT, BERRY_UI_JSON, ...)
//
// Both file formats are validated against the embedded CUE schema
// (config_schema.cue) before they are merged.
package config
