//go:build !darwin && !linux

package tuner

import (
	"runtime"
)

// defaultTotalRAM is the fallback total RAM value when detection is unavailable.
const defaultTotalRAM = 8 * 1024 * 1024 * 1024

// Detect detects available system resources (CPU and RAM).
// On platforms without a memory probe it falls back to an 8GB estimate.
func Detect() (SystemResources, error) {
	totalRAM := int64(defaultTotalRAM)

	return SystemResources{
		CPUCores:     runtime.NumCPU(),
		TotalRAM:     totalRAM,
		AvailableRAM: totalRAM / 2,
	}, nil
}
