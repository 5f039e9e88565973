// SPDX-License-Identifier: MPL-2.0

// Package packlist computes which workspace files belong in a package archive.
package packlist

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/CodeLenny/berry/pkg/workspace"

	"github.com/charmbracelet/log"
	"github.com/moby/patternmatcher"
	"github.com/moby/patternmatcher/ignorefile"
	"golang.org/x/exp/slices"
)

const (
	// NpmIgnoreFile excludes files from the archive.
	NpmIgnoreFile = ".npmignore"
	// GitIgnoreFile is read only when NpmIgnoreFile is absent.
	GitIgnoreFile = ".gitignore"
	// DefaultArchiveName is excluded so repeated packs never nest archives.
	DefaultArchiveName = "package.tgz"
)

var (
	// skippedDirs are never descended into, at any depth.
	skippedDirs = []string{"node_modules", ".git", ".berry", ".yarn"}

	// alwaysIncludedPrefixes name root files kept regardless of ignore rules,
	// compared case-insensitively.
	alwaysIncludedPrefixes = []string{"readme", "license", "licence", "changelog"}
)

type (
	// Lister walks a workspace and applies npm-style inclusion rules.
	Lister struct {
		logger *log.Logger
	}

	// Option configures a Lister.
	Option func(*Lister)

	rules struct {
		allow  *patternmatcher.PatternMatcher
		ignore *patternmatcher.PatternMatcher
	}
)

// New creates a Lister.
func New(opts ...Option) *Lister {
	l := &Lister{logger: log.WithPrefix("packlist")}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Lister) { l.logger = logger }
}

// GenPackList returns the slash-separated paths, relative to the workspace
// root, of every file to archive, sorted lexically.
func (l *Lister) GenPackList(ctx context.Context, ws *workspace.Workspace) ([]string, error) {
	r, err := loadRules(ws)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(ws.Root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(ws.Root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if slices.Contains(skippedDirs, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			l.logger.Debug("skipping non-regular file", "path", rel)
			return nil
		}

		ok, err := r.includes(rel)
		if err != nil {
			return err
		}
		if ok {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", ws.Root, err)
	}

	slices.Sort(files)
	l.logger.Debug("pack list computed", "workspace", ws.Root, "files", len(files))
	return files, nil
}

func loadRules(ws *workspace.Workspace) (*rules, error) {
	r := &rules{}

	if ws.Manifest != nil && len(ws.Manifest.Files) > 0 {
		allow, err := patternmatcher.New(cleanPatterns(ws.Manifest.Files))
		if err != nil {
			return nil, fmt.Errorf("invalid \"files\" pattern in %s: %w", workspace.ManifestFileName, err)
		}
		r.allow = allow
	}

	patterns, err := readIgnoreFile(ws.Root)
	if err != nil {
		return nil, err
	}
	if len(patterns) > 0 {
		ignore, err := patternmatcher.New(anchorPatterns(patterns))
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern: %w", err)
		}
		r.ignore = ignore
	}
	return r, nil
}

// readIgnoreFile returns the patterns of .npmignore, or of .gitignore when
// there is no .npmignore. Only the workspace root is consulted.
func readIgnoreFile(root string) ([]string, error) {
	for _, name := range []string{NpmIgnoreFile, GitIgnoreFile} {
		f, err := os.Open(filepath.Join(root, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		patterns, err := parseIgnoreLines(f)
		closeErr := f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if closeErr != nil {
			return nil, closeErr
		}
		return patterns, nil
	}
	return nil, nil
}

// parseIgnoreLines normalizes each line with ignorefile, which drops the
// leading slash of root-anchored patterns. The slash is put back so that
// anchorPatterns can tell "/build" from "build".
func parseIgnoreLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimPrefix(sc.Text(), "\uFEFF")
		parsed, err := ignorefile.ReadAll(strings.NewReader(line))
		if err != nil {
			return nil, err
		}
		if len(parsed) == 0 {
			continue
		}

		p := parsed[0]
		body := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "!"))
		if strings.HasPrefix(body, "/") {
			if rest, neg := strings.CutPrefix(p, "!"); neg {
				p = "!/" + rest
			} else {
				p = "/" + p
			}
		}
		out = append(out, p)
	}
	return out, sc.Err()
}

func (r *rules) includes(rel string) (bool, error) {
	if isAlwaysExcluded(rel) {
		return false, nil
	}
	if isAlwaysIncluded(rel) {
		return true, nil
	}

	if r.allow != nil {
		ok, err := r.allow.MatchesOrParentMatches(rel)
		if err != nil || !ok {
			return false, err
		}
	}
	if r.ignore != nil {
		ignored, err := r.ignore.MatchesOrParentMatches(rel)
		if err != nil || ignored {
			return false, err
		}
	}
	return true, nil
}

func isAlwaysExcluded(rel string) bool {
	if strings.Contains(rel, "/") {
		return false
	}
	switch rel {
	case NpmIgnoreFile, GitIgnoreFile, DefaultArchiveName:
		return true
	}
	return slices.Contains(workspace.Lockfiles, rel)
}

func isAlwaysIncluded(rel string) bool {
	if strings.Contains(rel, "/") {
		return false
	}
	if rel == workspace.ManifestFileName {
		return true
	}
	lower := strings.ToLower(rel)
	for _, prefix := range alwaysIncludedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// cleanPatterns normalizes root-relative "files" entries.
func cleanPatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		neg := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")
		p = strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(p)), "/")
		if p == "" {
			continue
		}
		if neg {
			p = "!" + p
		}
		out = append(out, p)
	}
	return out
}

// anchorPatterns gives ignore patterns gitignore semantics: a leading slash
// anchors the pattern at the workspace root, and a pattern without any slash
// matches at any depth.
func anchorPatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		neg := strings.HasPrefix(p, "!")
		body := strings.TrimPrefix(p, "!")
		switch {
		case strings.HasPrefix(body, "/"):
			body = strings.TrimLeft(body, "/")
		case !strings.Contains(body, "/"):
			if body != "" {
				body = "**/" + body
			}
		}
		if body == "" {
			continue
		}
		if neg {
			body = "!" + body
		}
		out = append(out, body)
	}
	return out
}
