// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include filesystem operations (MustMkdirAll, MustWriteFile,
// MustClose) and a FakeClock for deterministic timestamps.
package testutil
