package warmer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jamesainslie/warm/pkg/warm/logging"
	"github.com/jamesainslie/warm/pkg/warm/pool"
	"github.com/jamesainslie/warm/pkg/warm/types"
)

// Mode selects what a run produces per file.
type Mode int

const (
	// ModeEstimate yields one value per file: its size.
	ModeEstimate Mode = iota

	// ModeWarm reads every file and yields one value per chunk read.
	ModeWarm
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeEstimate:
		return "estimate"
	case ModeWarm:
		return "warm"
	default:
		return "unknown"
	}
}

// Session holds an immutable warming configuration. Every call to
// IterEstimate, IterWarm, Estimate or Warm starts an independent run with
// its own worker pool; concurrent runs on one Session are allowed.
type Session struct {
	opts Options
}

// New creates a session from opts. Targets are copied.
func New(opts Options) *Session {
	opts.Validate()
	opts.Targets = append([]types.Target(nil), opts.Targets...)
	return &Session{opts: opts}
}

// NewSession creates a session for targets with default buffering and no
// error sink.
func NewSession(targets []types.Target, threads int, followLinks bool) *Session {
	return New(Options{
		Targets:     targets,
		Threads:     threads,
		FollowLinks: followLinks,
	})
}

// Options returns a copy of the session configuration.
func (s *Session) Options() Options {
	opts := s.opts
	opts.Targets = append([]types.Target(nil), s.opts.Targets...)
	return opts
}

// IterEstimate starts an estimate run and returns its stream. Each regular
// file contributes exactly one value, its size in bytes.
func (s *Session) IterEstimate(ctx context.Context) *Stream {
	return s.start(ctx, ModeEstimate)
}

// IterWarm starts a warm run and returns its stream. Each regular file is
// read to the end and contributes one value per chunk.
func (s *Session) IterWarm(ctx context.Context) *Stream {
	return s.start(ctx, ModeWarm)
}

// Estimate returns the total size of all regular files in the targets.
func (s *Session) Estimate(ctx context.Context) uint64 {
	return s.IterEstimate(ctx).Sum()
}

// Warm reads every regular file in the targets and returns the number of
// bytes read.
func (s *Session) Warm(ctx context.Context) uint64 {
	return s.IterWarm(ctx).Sum()
}

// run is the state of a single estimate or warm pass.
type run struct {
	ctx    context.Context
	mode   Mode
	opts   Options
	pool   *pool.Pool
	stream *Stream
	log    *logging.Logger
}

func (s *Session) start(parent context.Context, mode Mode) *Stream {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.New().String()

	r := &run{
		ctx:    ctx,
		mode:   mode,
		opts:   s.opts,
		pool:   pool.New(s.opts.Threads),
		stream: newStream(id, s.opts.ResultBuffer, cancel),
		log:    logging.Get("warmer").With("run", id[:8], "mode", mode.String()),
	}

	go r.coordinate(cancel)
	return r.stream
}

// coordinate expands targets into file jobs, waits for the pool to drain
// and then ends the stream.
func (r *run) coordinate(cancel context.CancelFunc) {
	r.log.Info("run started",
		"targets", len(r.opts.Targets),
		"threads", r.pool.Size(),
		"follow_links", r.opts.FollowLinks,
	)

	for _, target := range r.opts.Targets {
		if r.ctx.Err() != nil {
			break
		}
		r.expand(target)
	}

	r.pool.Wait()

	st := r.stream
	st.cancelled.Store(r.ctx.Err() != nil)
	st.peak.Store(r.pool.Peak())
	st.elapsed.Store(int64(time.Since(st.start)))
	st.finish()
	cancel()

	stats := st.Stats()
	r.log.Info("run finished",
		"files", stats.Files,
		"bytes", types.FormatSize(stats.Bytes),
		"errors", stats.Errors,
		"peak_workers", stats.Peak,
		"elapsed", stats.Elapsed,
		"cancelled", st.cancelled.Load(),
	)
	close(st.done)
}

func (r *run) expand(target types.Target) {
	switch target.Kind {
	case types.KindFile:
		path, err := Resolve(target.Path)
		if err != nil {
			if !errors.Is(err, ErrNotRegular) {
				r.absorb(types.FileError{Path: target.Path, Op: "resolve", Err: err})
			}
			return
		}
		r.submit(path)

	case types.KindDirectory:
		err := Walk(r.ctx, target.Path, r.opts.FollowLinks, r.submit, r.absorb)
		if err != nil {
			r.log.Debug("walk interrupted", "root", target.Path, "error", err)
		}
	}
}

// submit queues the per-file job for the run's mode. It may be called from
// several walker goroutines.
func (r *run) submit(path string) {
	r.stream.files.Add(1)

	switch r.mode {
	case ModeEstimate:
		r.pool.Submit(func() {
			if r.ctx.Err() != nil {
				return
			}
			size, err := EstimateFile(path)
			if err != nil {
				r.absorb(types.FileError{Path: path, Op: "stat", Err: err})
				return
			}
			r.emit(size)
		})
	case ModeWarm:
		r.pool.Submit(func() {
			if err := WarmFile(r.ctx, path, r.emit); err != nil {
				r.absorb(types.FileError{Path: path, Op: "read", Err: err})
			}
		})
	}
}

// emit queues n for the consumer unless the run has been cancelled or the
// stream closed. It never waits on the consumer.
func (r *run) emit(n uint64) bool {
	if r.ctx.Err() != nil || !r.stream.push(n) {
		return false
	}
	r.stream.values.Add(1)
	r.stream.bytes.Add(n)
	return true
}

func (r *run) absorb(fe types.FileError) {
	r.stream.errors.Add(1)
	r.log.Debug("skipped path", "path", fe.Path, "op", fe.Op, "error", fe.Err)
	if r.opts.OnError != nil {
		r.opts.OnError(fe)
	}
}
