// Package tuner provides resource detection and thread count calculation
// for the warm filesystem warmer. It detects CPU cores and RAM, then sizes
// the worker pool and result buffer for I/O-bound file reading.
package tuner

// SystemResources contains detected system resources.
type SystemResources struct {
	// CPUCores is the number of logical CPU cores available.
	CPUCores int

	// TotalRAM is the total physical RAM in bytes.
	TotalRAM int64

	// AvailableRAM is the available (free) RAM in bytes.
	// This may be an estimate based on system heuristics.
	AvailableRAM int64
}
