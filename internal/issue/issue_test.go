// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	if WorkspaceMissingId != 1 {
		t.Errorf("WorkspaceMissingId = %d, want 1", WorkspaceMissingId)
	}

	values := Values()
	if len(values) != int(ConfigLoadFailedId) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), ConfigLoadFailedId)
	}
	for i, iss := range values {
		if iss.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, iss.Id(), i+1)
		}
		if iss.MarkdownMsg() == "" {
			t.Errorf("issue %d has an empty page", iss.Id())
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if Get(0) != nil {
		t.Error("Get(0) should return nil")
	}
	iss := Get(WorkspaceMissingId)
	if iss == nil {
		t.Fatal("Get(WorkspaceMissingId) returned nil")
	}
	if !strings.Contains(string(iss.MarkdownMsg()), "No workspace found") {
		t.Error("workspace page should mention the missing workspace")
	}
}

func TestFor(t *testing.T) {
	t.Parallel()

	if For(errors.New("plain")) != nil {
		t.Error("For(plain) should return nil")
	}

	err := fmt.Errorf("pack: %w", NewErrorContext().
		WithOperation("write archive").
		WithIssue(StreamFailedId).
		BuildError())
	iss := For(err)
	if iss == nil || iss.Id() != StreamFailedId {
		t.Fatalf("For() = %v, want stream issue", iss)
	}
}

//nolint:paralleltest // mutates the package-level renderer
func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotStyle string
	render = func(in string, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	rendered, err := Get(PrepareFailedId).Render("dark")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want dark", gotStyle)
	}
	if !strings.HasPrefix(rendered, "# A pack script failed!") {
		t.Errorf("Render() should trim leading whitespace, got %q", rendered[:20])
	}
}
