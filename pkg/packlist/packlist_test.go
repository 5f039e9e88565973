// SPDX-License-Identifier: MPL-2.0

package packlist

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/CodeLenny/berry/internal/testutil/workspacetest"
)

func TestGenPackList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []workspacetest.Option
		want []string
	}{
		{
			name: "everything except skipped directories and lockfiles",
			opts: []workspacetest.Option{
				workspacetest.WithName("foo"),
				workspacetest.WithFile("index.js", "1"),
				workspacetest.WithFile("lib/util.js", "2"),
				workspacetest.WithFile("node_modules/dep/index.js", "3"),
				workspacetest.WithFile("lib/node_modules/x.js", "3"),
				workspacetest.WithFile(".git/HEAD", "ref"),
				workspacetest.WithFile(".berry/install-state.gz", "s"),
				workspacetest.WithFile("yarn.lock", "# lock"),
				workspacetest.WithFile("package.tgz", "old"),
			},
			want: []string{"index.js", "lib/util.js", "package.json"},
		},
		{
			name: "files field is an allow-list",
			opts: []workspacetest.Option{
				workspacetest.WithFilesField("lib", "bin/cli.js"),
				workspacetest.WithFile("lib/a.js", "a"),
				workspacetest.WithFile("lib/deep/b.js", "b"),
				workspacetest.WithFile("bin/cli.js", "c"),
				workspacetest.WithFile("bin/other.js", "d"),
				workspacetest.WithFile("src/a.ts", "e"),
				workspacetest.WithFile("README.md", "# foo"),
				workspacetest.WithFile("LICENSE", "MIT"),
				workspacetest.WithFile("changelog.md", "log"),
			},
			want: []string{"LICENSE", "README.md", "bin/cli.js", "changelog.md", "lib/a.js", "lib/deep/b.js", "package.json"},
		},
		{
			name: "npmignore excludes at any depth",
			opts: []workspacetest.Option{
				workspacetest.WithFile(".npmignore", "*.test.js\ncoverage\n"),
				workspacetest.WithFile("index.js", "1"),
				workspacetest.WithFile("index.test.js", "2"),
				workspacetest.WithFile("lib/x.test.js", "3"),
				workspacetest.WithFile("coverage/lcov.info", "4"),
			},
			want: []string{"index.js", "package.json"},
		},
		{
			name: "gitignore used when npmignore is absent",
			opts: []workspacetest.Option{
				workspacetest.WithFile(".gitignore", "dist\n"),
				workspacetest.WithFile("dist/out.js", "1"),
				workspacetest.WithFile("src/in.js", "2"),
			},
			want: []string{"package.json", "src/in.js"},
		},
		{
			name: "npmignore takes precedence over gitignore",
			opts: []workspacetest.Option{
				workspacetest.WithFile(".gitignore", "dist\n"),
				workspacetest.WithFile(".npmignore", "src\n"),
				workspacetest.WithFile("dist/out.js", "1"),
				workspacetest.WithFile("src/in.js", "2"),
			},
			want: []string{"dist/out.js", "package.json"},
		},
		{
			name: "negated ignore pattern re-includes",
			opts: []workspacetest.Option{
				workspacetest.WithFile(".npmignore", "*.md\n!docs.md\n"),
				workspacetest.WithFile("notes.md", "1"),
				workspacetest.WithFile("docs.md", "2"),
			},
			want: []string{"docs.md", "package.json"},
		},
		{
			name: "leading slash anchors an ignore pattern at the root",
			opts: []workspacetest.Option{
				workspacetest.WithFile(".npmignore", "/build\n*.log\n!/keep.log\n"),
				workspacetest.WithFile("build/x.js", "1"),
				workspacetest.WithFile("src/build/x.js", "2"),
				workspacetest.WithFile("keep.log", "3"),
				workspacetest.WithFile("src/keep.log", "4"),
			},
			want: []string{"keep.log", "package.json", "src/build/x.js"},
		},
		{
			name: "readme survives ignore rules",
			opts: []workspacetest.Option{
				workspacetest.WithFile(".npmignore", "*.md\n"),
				workspacetest.WithFile("README.md", "# foo"),
			},
			want: []string{"README.md", "package.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ws := workspacetest.MustLoad(t, tt.opts...)
			got, err := New().GenPackList(t.Context(), ws)
			if err != nil {
				t.Fatalf("GenPackList() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GenPackList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenPackList_Cancelled(t *testing.T) {
	t.Parallel()

	ws := workspacetest.MustLoad(t, workspacetest.WithFile("index.js", "1"))
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := New().GenPackList(ctx, ws); !errors.Is(err, context.Canceled) {
		t.Fatalf("GenPackList() error = %v, want context.Canceled", err)
	}
}

func TestAnchorPatterns(t *testing.T) {
	t.Parallel()

	got := anchorPatterns([]string{"*.log", "!keep.log", "build/out", "/dist", "!/dist/keep.js", "", "!", "/"})
	want := []string{"**/*.log", "!**/keep.log", "build/out", "dist", "!dist/keep.js"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("anchorPatterns() = %v, want %v", got, want)
	}
}

func TestCleanPatterns(t *testing.T) {
	t.Parallel()

	got := cleanPatterns([]string{"./lib/", "/bin/cli.js", "!lib/test", " ", "dist/../types"})
	want := []string{"lib", "bin/cli.js", "!lib/test", "types"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cleanPatterns() = %v, want %v", got, want)
	}
}

func TestParseIgnoreLines(t *testing.T) {
	t.Parallel()

	input := "# comment\n\n/build\n  coverage  \n!/keep.js\n!docs.md\nsrc/gen/\n"
	got, err := parseIgnoreLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseIgnoreLines() error = %v", err)
	}
	want := []string{"/build", "coverage", "!/keep.js", "!docs.md", "src/gen"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseIgnoreLines() = %v, want %v", got, want)
	}
}
