// SPDX-License-Identifier: MPL-2.0

// Package report implements the dual human/machine output channel of berry
// commands.
//
// A Session records every entry (info, warning, error, JSON record) in call
// order and renders it as it arrives: human mode prints styled lines and
// hides JSON records, JSON mode prints one JSON document per line for every
// entry. The number of error entries recorded before Close decides the exit
// code.
package report
