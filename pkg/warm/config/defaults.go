// Package config provides configuration management for the warm filesystem warmer.
package config

// Default configuration values for warm.
const (
	// DefaultPath is the path warmed when none is specified.
	DefaultPath = "./"

	// DefaultThreads is the default worker pool size. Zero selects an
	// automatically tuned size.
	DefaultThreads = 100

	// DefaultFollowLinks enables symlink traversal by default.
	DefaultFollowLinks = true

	// DefaultEstimate runs the size estimation pass before warming.
	DefaultEstimate = true

	// DefaultOutput is the default summary formatter.
	DefaultOutput = "pretty"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogMaxSize is the default log rotation size.
	DefaultLogMaxSize = "10MB"
)

// DefaultPaths contains the paths warmed when none are given.
var DefaultPaths = []string{DefaultPath}
