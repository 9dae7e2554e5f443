// Package types provides core data types for the warm filesystem warmer.
// It includes warming targets, run statistics and diagnostic records,
// along with utility functions for parsing and formatting byte sizes.
package types

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// TargetKind distinguishes directory roots from explicit file paths.
type TargetKind int

const (
	// KindDirectory is a root whose regular files are discovered by walking.
	KindDirectory TargetKind = iota

	// KindFile is a single path resolved once against the filesystem.
	KindFile
)

// String returns the string representation of the kind.
func (k TargetKind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Target is a single input to a warming session.
type Target struct {
	// Kind selects how Path is expanded into files.
	Kind TargetKind `json:"kind"`

	// Path is the directory root or file path as given by the caller.
	Path string `json:"path"`
}

// Directory returns a directory target rooted at root.
func Directory(root string) Target {
	return Target{Kind: KindDirectory, Path: root}
}

// File returns an explicit file target.
func File(path string) Target {
	return Target{Kind: KindFile, Path: path}
}

// String returns a short "kind:path" description.
func (t Target) String() string {
	return t.Kind.String() + ":" + t.Path
}

// ClassifyPaths turns command line paths into targets.
// Paths that stat as directories (following symlinks) become directory
// targets. Everything else, including paths that do not exist, becomes a
// file target; unusable files are skipped later when the run resolves them.
func ClassifyPaths(paths []string) []Target {
	targets := make([]Target, 0, len(paths))
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			targets = append(targets, Directory(p))
			continue
		}
		targets = append(targets, File(p))
	}
	return targets
}

// RunStats summarizes a single estimate or warm run.
type RunStats struct {
	// Files is the number of file jobs submitted to the worker pool.
	Files int64 `json:"files"`

	// Values is the number of byte counts delivered on the stream.
	Values int64 `json:"values"`

	// Bytes is the sum of all byte counts delivered on the stream.
	Bytes uint64 `json:"bytes"`

	// Errors is the number of absorbed per-path failures.
	Errors int64 `json:"errors"`

	// Peak is the highest number of file jobs that ran at the same time.
	Peak int64 `json:"peak_workers"`

	// Elapsed is the wall time between run start and stream end.
	Elapsed time.Duration `json:"elapsed"`
}

// FileError is a per-path failure absorbed by a run.
// It pairs a path with the operation that failed for diagnostics.
type FileError struct {
	// Path is the file or directory path where the failure occurred.
	Path string `json:"path"`

	// Op names the failing step (resolve, walk, stat, open, read).
	Op string `json:"op"`

	// Err is the underlying error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e FileError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e FileError) Unwrap() error {
	return e.Err
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in bytes.
// It supports plain bytes ("1024") and K, M, G, T suffixes with optional
// "B" or "iB" ("100K", "50MB", "2GiB"). All units are binary.
//
// Decimal values are supported and truncated to the nearest byte.
// Leading and trailing whitespace is ignored.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a byte count to a human-readable string using
// binary (IEC) units, e.g. FormatSize(1536*1024) returns "1.5 MiB".
func FormatSize(bytes uint64) string {
	return humanize.IBytes(bytes)
}
