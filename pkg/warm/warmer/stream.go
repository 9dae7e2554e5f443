package warmer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gammazero/deque"
	"github.com/jamesainslie/warm/pkg/warm/types"
)

// Stream delivers the byte counts produced by one estimate or warm run.
//
// Values arrive in no particular order across files; within a single file
// warm chunks arrive in file order. The stream ends (Next reports false,
// C is closed) once every file job has finished.
//
// Producers append to an unbounded queue and never wait on the consumer.
// A caller may drop a Stream at any point; the run still completes, Done is
// closed and the queued values are released with the Stream. Close or a
// cancelled context stops the run early instead.
type Stream struct {
	id      string
	done    chan struct{}
	closing chan struct{}
	cancel  context.CancelFunc
	start   time.Time
	buffer  int

	mu      sync.Mutex
	ready   *sync.Cond
	queue   deque.Deque[uint64]
	ended   bool
	dropped bool

	outOnce   sync.Once
	out       chan uint64
	closeOnce sync.Once

	files     atomic.Int64
	values    atomic.Int64
	bytes     atomic.Uint64
	errors    atomic.Int64
	peak      atomic.Int64
	elapsed   atomic.Int64
	cancelled atomic.Bool
}

func newStream(id string, buffer int, cancel context.CancelFunc) *Stream {
	s := &Stream{
		id:      id,
		done:    make(chan struct{}),
		closing: make(chan struct{}),
		cancel:  cancel,
		start:   time.Now(),
		buffer:  buffer,
	}
	s.ready = sync.NewCond(&s.mu)
	return s
}

// push queues n for the consumer. It reports false once the stream has been
// closed by the caller.
func (s *Stream) push(n uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dropped {
		return false
	}
	s.queue.PushBack(n)
	s.ready.Signal()
	return true
}

// finish marks the end of production. Queued values stay readable.
func (s *Stream) finish() {
	s.mu.Lock()
	s.ended = true
	s.ready.Broadcast()
	s.mu.Unlock()
}

// drop discards queued values and ends the stream for readers.
func (s *Stream) drop() {
	s.mu.Lock()
	s.dropped = true
	s.queue = deque.Deque[uint64]{}
	s.ready.Broadcast()
	s.mu.Unlock()

	s.closeOnce.Do(func() { close(s.closing) })
}

// ID returns the run identifier used in log records.
func (s *Stream) ID() string {
	return s.id
}

// Next blocks until the next value is available.
// It returns false once the stream has ended.
func (s *Stream) Next() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.queue.Len() == 0 && !s.ended && !s.dropped {
		s.ready.Wait()
	}
	if s.dropped || s.queue.Len() == 0 {
		return 0, false
	}
	return s.queue.PopFront(), true
}

// C returns a channel carrying the remaining values, for use in select
// statements. The channel is closed when the stream ends or is closed.
// Values taken through C are not returned by Next and vice versa.
func (s *Stream) C() <-chan uint64 {
	s.outOnce.Do(func() {
		s.out = make(chan uint64, s.buffer)
		go s.forward()
	})
	return s.out
}

func (s *Stream) forward() {
	defer close(s.out)
	for {
		n, ok := s.Next()
		if !ok {
			return
		}
		select {
		case s.out <- n:
		case <-s.closing:
			return
		}
	}
}

// Sum drains the stream and returns the total of all remaining values.
func (s *Stream) Sum() uint64 {
	var total uint64
	for {
		n, ok := s.Next()
		if !ok {
			return total
		}
		total += n
	}
}

// Done is closed after the stream has ended and the run has shut down.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the run has shut down.
func (s *Stream) Wait() {
	<-s.done
}

// Cancel stops the run without waiting. The stream still ends once the
// workers have exited.
func (s *Stream) Cancel() {
	s.cancel()
}

// Close cancels the run and waits for its workers to exit.
// Values still queued are discarded. Close is safe to call more than once
// and after the stream has ended.
func (s *Stream) Close() {
	s.cancel()
	s.drop()
	s.Wait()
}

// Cancelled reports whether the run was stopped before it finished.
// It is only meaningful after Done is closed.
func (s *Stream) Cancelled() bool {
	return s.cancelled.Load()
}

// Stats returns a snapshot of the run counters. Elapsed is final once the
// run has shut down and keeps growing before that.
func (s *Stream) Stats() types.RunStats {
	elapsed := time.Duration(s.elapsed.Load())
	select {
	case <-s.done:
	default:
		elapsed = time.Since(s.start)
	}

	return types.RunStats{
		Files:   s.files.Load(),
		Values:  s.values.Load(),
		Bytes:   s.bytes.Load(),
		Errors:  s.errors.Load(),
		Peak:    s.peak.Load(),
		Elapsed: elapsed,
	}
}
