package tuner

// Worker configuration limits.
const (
	// maxThreads is the hard upper bound on pool size, overrides included.
	maxThreads = 1024

	// maxAutoThreads caps the automatically calculated pool size.
	maxAutoThreads = 256

	// minThreads is the minimum number of pool workers.
	minThreads = 4

	// threadsPerCore is the multiplier applied to CPU cores. Warming jobs
	// spend nearly all their time blocked in read syscalls.
	threadsPerCore = 16

	// minResultBuffer is the minimum result channel buffer size.
	minResultBuffer = 1024

	// maxResultBuffer is the maximum result channel buffer size.
	maxResultBuffer = 65536
)

// Memory-based buffer sizing constants.
const (
	// bytesPerResult estimates memory per buffered byte count.
	bytesPerResult = 8

	// bufferMemoryFraction is the fraction of available RAM to use for the
	// result buffer.
	bufferMemoryFraction = 0.001
)

// OptimalConfig contains tuned configuration for a warming run.
type OptimalConfig struct {
	// Threads is the number of worker pool slots.
	Threads int

	// ResultBuffer is the result channel buffer size.
	ResultBuffer int
}

// Calculate returns optimal configuration based on system resources.
//
// The calculation logic:
//   - Threads: NumCPU * 16, clamped to [4, 256]; reads are latency bound
//     on lazily restored volumes, not CPU bound
//   - ResultBuffer: a small fraction of available RAM, clamped to
//     [1024, 65536] entries
func Calculate(resources SystemResources) OptimalConfig {
	threads := resources.CPUCores * threadsPerCore
	threads = max(threads, minThreads)
	threads = min(threads, maxAutoThreads)

	return OptimalConfig{
		Threads:      threads,
		ResultBuffer: calculateResultBuffer(resources.AvailableRAM),
	}
}

// CalculateWithOverrides applies user overrides to the optimal config.
// If threadOverride is greater than 0, it replaces the calculated thread
// count (still respecting the hard cap of 1024).
func CalculateWithOverrides(resources SystemResources, threadOverride int) OptimalConfig {
	config := Calculate(resources)

	if threadOverride > 0 {
		config.Threads = min(threadOverride, maxThreads)
	}

	return config
}

// calculateResultBuffer determines buffer size based on available memory.
func calculateResultBuffer(availableRAM int64) int {
	entries := int(float64(availableRAM) * bufferMemoryFraction / bytesPerResult)

	entries = max(entries, minResultBuffer)
	entries = min(entries, maxResultBuffer)

	return entries
}
