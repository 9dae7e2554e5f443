//go:build darwin

package tuner

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Detect detects available system resources (CPU and RAM).
// On darwin (macOS), it uses runtime.NumCPU() for CPU cores and
// unix.SysctlUint64 for memory information.
func Detect() (SystemResources, error) {
	resources := SystemResources{
		CPUCores: runtime.NumCPU(),
	}

	memsize, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return resources, fmt.Errorf("sysctl hw.memsize: %w", err)
	}
	resources.TotalRAM = int64(memsize)

	// macOS keeps most free memory in the file cache, so half of total is
	// the usable estimate.
	resources.AvailableRAM = resources.TotalRAM / 2

	return resources, nil
}
