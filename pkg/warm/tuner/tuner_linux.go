//go:build linux

package tuner

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Detect detects available system resources (CPU and RAM).
// On linux it uses runtime.NumCPU() for CPU cores and sysinfo(2) for memory.
func Detect() (SystemResources, error) {
	resources := SystemResources{
		CPUCores: runtime.NumCPU(),
	}

	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return resources, fmt.Errorf("sysinfo: %w", err)
	}

	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	resources.TotalRAM = int64(uint64(info.Totalram) * unit)
	resources.AvailableRAM = int64((uint64(info.Freeram) + uint64(info.Bufferram)) * unit)

	return resources, nil
}
