// SPDX-License-Identifier: MPL-2.0

package install

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/CodeLenny/berry/pkg/workspace"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/zeebo/blake3"
)

const (
	// DefaultStateDir is the state directory relative to the project root.
	DefaultStateDir = ".berry"
	// StateFileName is the gzip'd CBOR file holding the last install record.
	StateFileName = "install-state.gz"
	// stateVersion is bumped whenever State changes incompatibly.
	stateVersion = 1
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	encMode, err = opts.EncMode()
	if err != nil {
		panic("install: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("install: CBOR decoder initialization failed: " + err.Error())
	}
}

type (
	// State is the record persisted after a successful install.
	State struct {
		Version     int       `cbor:"1,keyasint"`
		Fingerprint []byte    `cbor:"2,keyasint"`
		InstalledAt time.Time `cbor:"3,keyasint"`
	}

	// StateStore persists install state under the project root and restores it.
	StateStore struct {
		dir string
	}
)

// NewStateStore creates a store keeping its file in dir, relative to the
// project root unless absolute. An empty dir means DefaultStateDir.
func NewStateStore(dir string) *StateStore {
	if dir == "" {
		dir = DefaultStateDir
	}
	return &StateStore{dir: dir}
}

// Path returns the state file location for ws.
func (s *StateStore) Path(ws *workspace.Workspace) string {
	dir := s.dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(projectRoot(ws), dir)
	}
	return filepath.Join(dir, StateFileName)
}

// Save writes st for ws, replacing any previous state.
func (s *StateStore) Save(ws *workspace.Workspace, st State) error {
	st.Version = stateVersion
	payload, err := encMode.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode install state: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	path := s.Path(ws)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Load reads the state recorded for ws.
func (s *StateStore) Load(ws *workspace.Workspace) (*State, error) {
	path := s.Path(ws)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &StateError{Path: path, Kind: ErrNoInstallState}
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, &StateError{Path: path, Kind: ErrNoInstallState, Err: err}
	}
	payload, err := io.ReadAll(gz)
	if err != nil {
		return nil, &StateError{Path: path, Kind: ErrNoInstallState, Err: err}
	}

	var st State
	if err := decMode.Unmarshal(payload, &st); err != nil {
		return nil, &StateError{Path: path, Kind: ErrNoInstallState, Err: err}
	}
	if st.Version != stateVersion {
		return nil, &StateError{Path: path, Kind: ErrStaleInstallState, Err: fmt.Errorf("state version %d, want %d", st.Version, stateVersion)}
	}
	return &st, nil
}

// RestoreInstallState checks that the last install still matches ws: the
// state file exists, node_modules exists, and neither the project manifest
// nor the lockfile changed since.
func (s *StateStore) RestoreInstallState(ctx context.Context, ws *workspace.Workspace) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	st, err := s.Load(ws)
	if err != nil {
		return err
	}

	modules := filepath.Join(projectRoot(ws), "node_modules")
	if info, err := os.Stat(modules); err != nil || !info.IsDir() {
		return &StateError{Path: modules, Kind: ErrNoInstallState, Err: err}
	}

	sum, err := Fingerprint(ws)
	if err != nil {
		return err
	}
	if !bytes.Equal(sum, st.Fingerprint) {
		return &StateError{Path: s.Path(ws), Kind: ErrStaleInstallState}
	}
	return nil
}

// Fingerprint hashes the project-level inputs of an install: the manifest
// at the project root and the lockfile. Every workspace of a project shares
// one state file, so the result is the same for all of them.
func Fingerprint(ws *workspace.Workspace) ([]byte, error) {
	h := blake3.New()
	manifest := filepath.Join(projectRoot(ws), workspace.ManifestFileName)
	for _, path := range []string{manifest, ws.Lockfile} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) && path == manifest && projectRoot(ws) != ws.Root {
			// A project root may hold only the lockfile.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fingerprint %s: %w", path, err)
		}
		// Length-prefix each file so content cannot shift between them.
		fmt.Fprintf(h, "%s:%d\n", filepath.Base(path), len(data))
		h.Write(data)
	}
	return h.Sum(nil), nil
}

func projectRoot(ws *workspace.Workspace) string {
	if ws.ProjectRoot != "" {
		return ws.ProjectRoot
	}
	return ws.Root
}
