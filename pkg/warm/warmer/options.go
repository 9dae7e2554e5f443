// Package warmer reads every regular file under a set of targets so that
// lazily materialized storage (for example block volumes restored from
// snapshots) fetches its data up front. It also estimates how many bytes a
// warming pass will read.
//
// A Session walks directory targets with fastwalk and submits one job per
// discovered file to a bounded worker pool. Jobs stream byte counts back to
// the caller on a channel-backed Stream that can be consumed value by value
// (progress bars) or summed (Estimate, Warm).
//
// Warming is best-effort: unreadable paths, broken links and read errors are
// absorbed and only lower the reported byte count. Callers that need to see
// them set Options.OnError.
package warmer

import (
	"github.com/jamesainslie/warm/pkg/warm/config"
	"github.com/jamesainslie/warm/pkg/warm/types"
)

// ChunkSize is the read size used when warming a file. Each chunk read
// produces one value on the stream.
const ChunkSize = 1024

// DefaultResultBuffer is the default capacity of a run's result channel.
const DefaultResultBuffer = 1024

// Options configures a Session.
type Options struct {
	// Targets are the directory roots and file paths to process.
	Targets []types.Target

	// Threads is the maximum number of files processed concurrently.
	// Values below 1 select config.DefaultThreads.
	Threads int

	// FollowLinks traverses symbolic links found while walking directory
	// targets. Circular links are skipped. Explicit file targets always
	// resolve symlinks regardless of this flag.
	FollowLinks bool

	// ResultBuffer is the capacity of the result channel.
	// Values below 1 select DefaultResultBuffer.
	ResultBuffer int

	// OnError is called for every absorbed per-path failure.
	// It must be safe to call from multiple goroutines.
	OnError func(types.FileError)
}

// Validate fills in defaults for unset or invalid values.
func (o *Options) Validate() {
	if o.Threads < 1 {
		o.Threads = config.DefaultThreads
	}
	if o.ResultBuffer < 1 {
		o.ResultBuffer = DefaultResultBuffer
	}
}
