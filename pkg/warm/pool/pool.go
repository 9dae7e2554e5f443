// Package pool provides the bounded worker pool that runs per-file warming
// jobs. Submission never blocks: jobs queue without limit while at most
// Size() of them execute at once.
package pool

import (
	"sync/atomic"

	"github.com/gammazero/workerpool"
)

// Pool runs submitted jobs on a fixed number of workers.
// It is safe for concurrent use. A Pool is single-use: after Wait returns
// no further jobs may be submitted.
type Pool struct {
	wp   *workerpool.WorkerPool
	size int

	// Atomic counters for instrumentation.
	submitted atomic.Int64
	completed atomic.Int64
	active    atomic.Int64
	peak      atomic.Int64
}

// New creates a pool with size workers. Sizes below 1 are raised to 1.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		wp:   workerpool.New(size),
		size: size,
	}
}

// Submit enqueues job for asynchronous execution and returns immediately.
func (p *Pool) Submit(job func()) {
	p.submitted.Add(1)
	p.wp.Submit(func() {
		p.enter()
		defer p.exit()
		job()
	})
}

// Wait blocks until every submitted job has run, then stops the workers.
func (p *Pool) Wait() {
	p.wp.StopWait()
}

// Size returns the maximum number of concurrently running jobs.
func (p *Pool) Size() int {
	return p.size
}

// Submitted returns the number of jobs submitted so far.
func (p *Pool) Submitted() int64 {
	return p.submitted.Load()
}

// Completed returns the number of jobs that have finished.
func (p *Pool) Completed() int64 {
	return p.completed.Load()
}

// Peak returns the highest number of jobs observed running at once.
func (p *Pool) Peak() int64 {
	return p.peak.Load()
}

// Waiting returns the number of jobs queued but not yet started.
func (p *Pool) Waiting() int {
	return p.wp.WaitingQueueSize()
}

// enter records a job start and updates the concurrency high-water mark.
func (p *Pool) enter() {
	n := p.active.Add(1)
	for {
		cur := p.peak.Load()
		if n <= cur || p.peak.CompareAndSwap(cur, n) {
			return
		}
	}
}

// exit records a job completion.
func (p *Pool) exit() {
	p.active.Add(-1)
	p.completed.Add(1)
}
