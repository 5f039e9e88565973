// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"time"
)

const (
	// MessageUnnamed is used for free-form progress lines.
	MessageUnnamed MessageName = iota
	// MessageException tags errors that escaped the command body.
	MessageException
	// MessagePackFile tags one archive member listed by the pack command.
	MessagePackFile
	// MessagePackOutput tags the final archive location.
	MessagePackOutput
	// MessageInstall tags dependency install progress.
	MessageInstall
	// MessageLifecycleScript tags prepack/postpack script progress.
	MessageLifecycleScript
	// MessageInvalidManifest tags manifest problems that do not stop packing.
	MessageInvalidManifest
)

const (
	// KindInfo is a human-readable progress line.
	KindInfo Kind = iota
	// KindWarning is a human-readable line that does not fail the command.
	KindWarning
	// KindError is a failure; any error entry makes the exit code non-zero.
	KindError
	// KindJSON is a structured record meant for machine consumers.
	KindJSON
)

type (
	// MessageName is a stable code attached to human entries so tooling can
	// match lines without parsing prose.
	MessageName int

	// Kind classifies an Entry.
	Kind int

	// Entry is one recorded report item.
	Entry struct {
		// Seq is the 1-based position of the entry within its session.
		Seq  int
		Time time.Time
		Kind Kind
		Name MessageName
		// Text is set for info, warning and error entries.
		Text string
		// Err is set for error entries.
		Err error
		// Data is set for JSON entries.
		Data any
	}

	// Reporter is the write side of a report, as seen by code that produces
	// progress.
	Reporter interface {
		Info(name MessageName, text string)
		Warning(name MessageName, text string)
		Error(name MessageName, err error)
		JSON(record any)
	}
)

// String returns the display code of the message, e.g. "BR0002".
func (n MessageName) String() string {
	return fmt.Sprintf("BR%04d", int(n))
}

// String returns the lowercase kind name used in JSON output.
func (k Kind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}
