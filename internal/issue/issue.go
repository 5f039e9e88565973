// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies an issue page. The zero value means "no page".
type Id int

const (
	// WorkspaceMissingId is raised when no manifest exists at or above the cwd.
	WorkspaceMissingId Id = iota + 1
	// InstallFailedId is raised when the dependency install command fails.
	InstallFailedId
	// InstallStateMissingId is raised when no usable persisted install state exists.
	InstallStateMissingId
	// PrepareFailedId is raised when a prepack or postpack script fails.
	PrepareFailedId
	// StreamFailedId is raised when the archive cannot be generated or written.
	StreamFailedId
	// ConfigLoadFailedId is raised when the configuration cannot be loaded.
	ConfigLoadFailedId
)

type (
	// MarkdownMsg is Markdown text rendered for the user.
	MarkdownMsg string

	// Issue is a Markdown help page for one failure class.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

var (
	render = glamour.Render

	workspaceMissingIssue = &Issue{
		id: WorkspaceMissingId,
		mdMsg: `
# No workspace found!

berry looked for a ` + "`package.json`" + ` in the current directory and in every
parent directory, and found none.

## Things you can try:
- Run the command from inside your package:
~~~
$ cd path/to/package
$ berry pack
~~~`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Dependency install failed!

Your package declares ` + "`prepack`" + ` or ` + "`postpack`" + ` scripts, so berry installs
dependencies before packing. The install command exited with an error.

## Things you can try:
- Run the install command by hand and look at its output
- Change the command in your configuration:
~~~cue
install: {
	command: "npm ci"
}
~~~`,
	}

	installStateMissingIssue = &Issue{
		id: InstallStateMissingId,
		mdMsg: `
# No usable install state!

Your package declares pack scripts, which need installed dependencies. berry
restores the state saved by the previous install, but it is missing or no longer
matches your manifest and lockfile.

## Things you can try:
- Let berry install for you:
~~~
$ berry pack --install-if-needed
~~~`,
	}

	prepareFailedIssue = &Issue{
		id: PrepareFailedId,
		mdMsg: `
# A pack script failed!

The ` + "`prepack`" + ` or ` + "`postpack`" + ` script in your manifest exited with a non-zero
status. The ` + "`postpack`" + ` script still ran so your workspace is cleaned up.

## Things you can try:
- Run the script on its own to see the failure
- Use ` + "`--verbose`" + ` for the full error chain`,
	}

	streamFailedIssue = &Issue{
		id: StreamFailedId,
		mdMsg: `
# Archive could not be written!

Generating or writing the archive failed part way. A truncated file may be
left at the output path; it is not a valid package.

## Things you can try:
- Check that the output directory exists and is writable
- Check free disk space
- Use ` + "`--out`" + ` to write somewhere else`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Configuration file locations:
- Linux: ~/.config/berry/config.cue
- macOS: ~/Library/Application Support/berry/config.cue
- Windows: %APPDATA%\berry\config.cue
- Project: .berryrc.yml next to your package.json

## Things you can try:
- Show the effective configuration:
~~~
$ berry config show
~~~`,
	}

	issues = map[Id]*Issue{
		workspaceMissingIssue.id:    workspaceMissingIssue,
		installFailedIssue.id:       installFailedIssue,
		installStateMissingIssue.id: installStateMissingIssue,
		prepareFailedIssue.id:       prepareFailedIssue,
		streamFailedIssue.id:        streamFailedIssue,
		configLoadFailedIssue.id:    configLoadFailedIssue,
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown page.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the page for a terminal using the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(strings.TrimSpace(string(i.mdMsg)), stylePath)
}

// Get returns the issue page for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Values returns every registered issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, iss := range issues {
		out = append(out, iss)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// For returns the issue page linked from err, or nil when err carries none.
func For(err error) *Issue {
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Issue == 0 {
		return nil
	}
	return Get(ae.Issue)
}
