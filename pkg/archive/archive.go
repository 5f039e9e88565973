// SPDX-License-Identifier: MPL-2.0

// Package archive encodes a pack list as a reproducible gzip'd tarball.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/CodeLenny/berry/pkg/workspace"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
)

const (
	// Prefix is the directory every member is stored under.
	Prefix = "package/"

	// ModeExecutable is stored for files with any execute bit set.
	ModeExecutable = 0o755
	// ModeRegular is stored for every other file.
	ModeRegular = 0o644
)

// ModTime is the timestamp stored on every member so that identical inputs
// produce identical archives.
var ModTime = time.Date(1984, time.June, 22, 21, 50, 0, 0, time.UTC)

type (
	// Streamer produces archives for the pack pipeline.
	Streamer struct {
		level  int
		logger *log.Logger
	}

	// Option configures a Streamer.
	Option func(*Streamer)
)

// New creates a Streamer using the default gzip level.
func New(opts ...Option) *Streamer {
	s := &Streamer{level: gzip.DefaultCompression, logger: log.WithPrefix("archive")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithLevel sets the gzip compression level.
func WithLevel(level int) Option {
	return func(s *Streamer) { s.level = level }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Streamer) { s.logger = logger }
}

// GenPackStream returns a reader producing the archive of files, which are
// slash-separated paths relative to the workspace root. Encoding happens in a
// background goroutine as the reader is drained; encoding errors surface from
// Read. Closing the reader early stops the encoder.
func (s *Streamer) GenPackStream(ctx context.Context, ws *workspace.Workspace, files []string) (io.ReadCloser, error) {
	pr, pw := io.Pipe()
	go func() {
		err := s.Write(ctx, pw, ws.Root, files)
		if err != nil {
			s.logger.Debug("archive encoding stopped", "err", err)
		}
		pw.CloseWithError(err)
	}()
	return pr, nil
}

// Write encodes files from root into w.
func (s *Streamer) Write(ctx context.Context, w io.Writer, root string, files []string) error {
	gz, err := gzip.NewWriterLevel(w, s.level)
	if err != nil {
		return err
	}
	gz.ModTime = ModTime
	tw := tar.NewWriter(gz)

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := addFile(tw, root, rel); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finish tar stream: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return nil
}

func addFile(tw *tar.Writer, root, rel string) (err error) {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", rel)
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     path.Join(Prefix, rel),
		Size:     info.Size(),
		Mode:     memberMode(info.Mode()),
		ModTime:  ModTime,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", rel, err)
	}

	n, err := io.Copy(tw, f)
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", rel, err)
	}
	if n != info.Size() {
		return fmt.Errorf("%s changed size while archiving", rel)
	}
	return nil
}

func memberMode(mode os.FileMode) int64 {
	if mode.Perm()&0o111 != 0 {
		return ModeExecutable
	}
	return ModeRegular
}
