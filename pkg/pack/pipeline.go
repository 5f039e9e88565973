// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/CodeLenny/berry/internal/report"
	"github.com/CodeLenny/berry/pkg/workspace"

	"github.com/charmbracelet/log"
)

const (
	// StateStart is the state before Run does anything.
	StateStart State = iota
	// StatePreparing runs inside the prepack/postpack scope.
	StatePreparing
	// StateListed means the file list was computed and reported.
	StateListed
	// StateStreaming means the archive is being written to the target.
	StateStreaming
	// StateWritten means the sink reached its finish signal without error.
	StateWritten
	// StateDone means Run completed successfully.
	StateDone
)

type (
	// State is a step of the pack pipeline. Transitions are linear.
	State int

	// Lister computes archive membership. The returned order is the archive
	// member order.
	Lister interface {
		GenPackList(ctx context.Context, ws *workspace.Workspace) ([]string, error)
	}

	// Streamer encodes the listed files into a single-use archive stream.
	Streamer interface {
		GenPackStream(ctx context.Context, ws *workspace.Workspace, files []string) (io.ReadCloser, error)
	}

	// Preparer runs body between the pre-pack and post-pack lifecycle hooks.
	// The post-pack hook must run exactly once whatever body returns.
	Preparer interface {
		PrepareForPack(ctx context.Context, ws *workspace.Workspace, body func(context.Context) error) error
	}

	// SinkOpener creates the destination file, truncating an existing one.
	SinkOpener func(path string) (io.WriteCloser, error)

	// Pipeline drives one pack run.
	Pipeline struct {
		lister   Lister
		streamer Streamer
		preparer Preparer
		openSink SinkOpener
		logger   *log.Logger
	}

	// Option configures a Pipeline.
	Option func(*Pipeline)

	// RunOptions are the per-invocation inputs of Run.
	RunOptions struct {
		// DryRun lists the files without generating the archive.
		DryRun bool
		Report report.Reporter
	}

	// Result describes a finished run.
	Result struct {
		State  State
		Target string
		Files  []string
		// Size is the number of bytes written, zero for dry runs.
		Size int64
	}

	// LocationRecord is the JSON record emitted for each listed file.
	LocationRecord struct {
		Location string `json:"location"`
	}

	// OutputRecord is the JSON record emitted once the archive is written.
	OutputRecord struct {
		Output string `json:"output"`
	}

	sinkResult struct {
		n   int64
		err error
	}
)

// NewPipeline creates a pipeline from its collaborators.
func NewPipeline(lister Lister, streamer Streamer, preparer Preparer, opts ...Option) *Pipeline {
	p := &Pipeline{
		lister:   lister,
		streamer: streamer,
		preparer: preparer,
		openSink: createFile,
		logger:   log.WithPrefix("pack"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithSinkOpener replaces how the destination file is created.
func WithSinkOpener(open SinkOpener) Option {
	return func(p *Pipeline) { p.openSink = open }
}

// Run packs ws into target.
//
// Every listed file is reported as an info entry and a LocationRecord, in
// list order, dry run or not. Outside dry runs the archive is streamed into
// target and Run waits for the write to finish before reporting the
// OutputRecord; a failed write reports nothing and may leave a truncated file.
func (p *Pipeline) Run(ctx context.Context, ws *workspace.Workspace, target string, opts RunOptions) (*Result, error) {
	res := &Result{State: StateStart, Target: target}
	r := opts.Report

	var bodyErr error
	p.transition(res, StatePreparing)
	err := p.preparer.PrepareForPack(ctx, ws, func(ctx context.Context) error {
		bodyErr = p.body(ctx, ws, res, opts)
		return bodyErr
	})
	if err != nil {
		if bodyErr == nil {
			return res, &PrepareError{Err: err}
		}
		return res, err
	}

	if !opts.DryRun {
		r.Info(report.MessagePackOutput, fmt.Sprintf("Package archive generated in %s", target))
		r.JSON(OutputRecord{Output: target})
	}
	p.transition(res, StateDone)
	return res, nil
}

func (p *Pipeline) body(ctx context.Context, ws *workspace.Workspace, res *Result, opts RunOptions) error {
	files, err := p.lister.GenPackList(ctx, ws)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListFailed, err)
	}
	res.Files = files

	for _, file := range files {
		opts.Report.Info(report.MessagePackFile, file)
		opts.Report.JSON(LocationRecord{Location: file})
	}
	p.transition(res, StateListed)

	if opts.DryRun {
		return nil
	}

	p.transition(res, StateStreaming)
	n, err := p.write(ctx, ws, res.Target, files)
	if err != nil {
		return &StreamError{Target: res.Target, Err: err}
	}
	res.Size = n
	p.transition(res, StateWritten)
	return nil
}

// write connects the archive stream to the destination file and blocks until
// the copy goroutine signals that the file is fully written and closed.
func (p *Pipeline) write(ctx context.Context, ws *workspace.Workspace, target string, files []string) (int64, error) {
	stream, err := p.streamer.GenPackStream(ctx, ws, files)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := stream.Close(); closeErr != nil {
			p.logger.Debug("closing archive stream", "err", closeErr)
		}
	}()

	sink, err := p.openSink(target)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", target, err)
	}

	finished := make(chan sinkResult, 1)
	go func() {
		n, err := io.Copy(sink, stream)
		if closeErr := sink.Close(); err == nil {
			err = closeErr
		}
		finished <- sinkResult{n: n, err: err}
	}()

	result := <-finished
	return result.n, result.err
}

func (p *Pipeline) transition(res *Result, next State) {
	p.logger.Debug("pipeline state", "from", res.State, "to", next)
	res.State = next
}

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StatePreparing:
		return "preparing"
	case StateListed:
		return "listed"
	case StateStreaming:
		return "streaming"
	case StateWritten:
		return "written"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}
