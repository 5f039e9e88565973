// SPDX-License-Identifier: MPL-2.0

package report

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/CodeLenny/berry/pkg/types"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"
)

type (
	// Config configures a Session.
	Config struct {
		// Stdout receives the rendered entries. Defaults to io.Discard.
		Stdout io.Writer
		// JSON selects machine rendering.
		JSON bool
		// Styled enables colour in human rendering.
		Styled bool
		// Verbose includes error chains in rendered errors.
		Verbose bool
		// Now stamps entries. Defaults to time.Now.
		Now func() time.Time
		// Logger receives diagnostics about the session itself.
		Logger *log.Logger
	}

	// Session accumulates entries between Open and Close.
	// It is safe for concurrent use.
	Session struct {
		cfg      Config
		renderer renderer

		mu         sync.Mutex
		entries    []Entry
		errorCount int
		reported   []error
		closed     bool
		exitCode   types.ExitCode
	}
)

var _ Reporter = (*Session)(nil)

// Open starts a session.
func Open(cfg Config) *Session {
	if cfg.Stdout == nil {
		cfg.Stdout = io.Discard
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	s := &Session{cfg: cfg}
	if cfg.JSON {
		s.renderer = &jsonRenderer{w: cfg.Stdout}
	} else {
		s.renderer = newHumanRenderer(cfg.Stdout, cfg.Styled, cfg.Verbose)
	}
	return s
}

// Start opens a session, runs fn and closes the session whatever fn does.
// An error returned by fn is recorded unless fn already reported it.
func Start(cfg Config, fn func(*Session) error) *Session {
	s := Open(cfg)
	defer s.Close()

	if err := fn(s); err != nil && !s.wasReported(err) {
		s.Error(MessageException, err)
	}
	return s
}

// Info records a progress line.
func (s *Session) Info(name MessageName, text string) {
	s.record(Entry{Kind: KindInfo, Name: name, Text: text})
}

// Warning records a line that does not affect the exit code.
func (s *Session) Warning(name MessageName, text string) {
	s.record(Entry{Kind: KindWarning, Name: name, Text: text})
}

// Error records a failure. Nil errors are ignored.
func (s *Session) Error(name MessageName, err error) {
	if err == nil {
		return
	}
	s.record(Entry{Kind: KindError, Name: name, Text: err.Error(), Err: err})
}

// JSON records a structured record.
func (s *Session) JSON(record any) {
	s.record(Entry{Kind: KindJSON, Data: record})
}

// Close ends the session and returns its exit code. Calling Close again
// returns the same code. Entries recorded after Close are dropped.
func (s *Session) Close() types.ExitCode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		s.exitCode = types.ExitCodeForErrors(s.errorCount)
	}
	return s.exitCode
}

// ExitCode returns the exit code derived so far. After Close it is final.
func (s *Session) ExitCode() types.ExitCode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.exitCode
	}
	return types.ExitCodeForErrors(s.errorCount)
}

// ErrorCount returns how many error entries were recorded.
func (s *Session) ErrorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorCount
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Entries returns a copy of the recorded entries in call order.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

func (s *Session) record(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.cfg.Logger.Warn("report entry emitted after session close was dropped", "kind", e.Kind, "text", e.Text)
		return
	}

	e.Seq = len(s.entries) + 1
	e.Time = s.cfg.Now()
	s.entries = append(s.entries, e)
	if e.Kind == KindError {
		s.errorCount++
		s.reported = append(s.reported, e.Err)
	}

	if err := s.renderer.render(e); err != nil {
		s.cfg.Logger.Debug("failed to render report entry", "seq", e.Seq, "err", err)
	}
}

func (s *Session) wasReported(err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reported {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
