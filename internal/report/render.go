// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/CodeLenny/berry/internal/issue"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorMuted   = lipgloss.Color("#6B7280")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorInfo    = lipgloss.Color("#3B82F6")
)

type (
	renderer interface {
		render(e Entry) error
	}

	humanRenderer struct {
		w       io.Writer
		verbose bool

		prefix lipgloss.Style
		name   lipgloss.Style
		warn   lipgloss.Style
		err    lipgloss.Style
	}

	jsonRenderer struct {
		w io.Writer
	}

	// jsonLine is the wire shape of non-JSON entries in JSON mode.
	jsonLine struct {
		Type        string `json:"type"`
		Name        int    `json:"name"`
		DisplayName string `json:"displayName"`
		Data        string `json:"data"`
	}
)

func newHumanRenderer(w io.Writer, styled, verbose bool) *humanRenderer {
	plain := lipgloss.NewStyle()
	r := &humanRenderer{w: w, verbose: verbose, prefix: plain, name: plain, warn: plain, err: plain}
	if styled {
		r.prefix = lipgloss.NewStyle().Foreground(colorInfo)
		r.name = lipgloss.NewStyle().Foreground(colorMuted)
		r.warn = lipgloss.NewStyle().Foreground(colorWarning)
		r.err = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	}
	return r
}

func (r *humanRenderer) render(e Entry) error {
	var prefix lipgloss.Style
	switch e.Kind {
	case KindJSON:
		return nil
	case KindWarning:
		prefix = r.warn
	case KindError:
		prefix = r.err
	default:
		prefix = r.prefix
	}

	text := e.Text
	if e.Kind == KindError {
		text = issue.FormatError(e.Err, r.verbose)
	}

	_, err := fmt.Fprintf(r.w, "%s %s: %s\n", prefix.Render("➤"), r.name.Render(e.Name.String()), text)
	return err
}

func (r *jsonRenderer) render(e Entry) error {
	var (
		data []byte
		err  error
	)
	if e.Kind == KindJSON {
		data, err = json.Marshal(e.Data)
	} else {
		data, err = json.Marshal(jsonLine{
			Type:        e.Kind.String(),
			Name:        int(e.Name),
			DisplayName: e.Name.String(),
			Data:        e.Text,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to encode entry %d: %w", e.Seq, err)
	}

	data = append(data, '\n')
	_, err = r.w.Write(data)
	return err
}
