package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamesainslie/warm/pkg/warm/config"
	"github.com/jamesainslie/warm/pkg/warm/tuner"
	"github.com/jamesainslie/warm/pkg/warm/types"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
)

// resolveTargets turns command line paths (or the configured defaults when
// none are given) into warming targets with ~ expanded and absolute paths.
func resolveTargets(args []string) ([]types.Target, error) {
	paths := args
	if len(paths) == 0 {
		paths = viper.GetStringSlice("default_paths")
	}
	if len(paths) == 0 {
		paths = config.DefaultPaths
	}

	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return nil, fmt.Errorf("failed to expand path %q: %w", p, err)
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %q: %w", p, err)
		}
		resolved = append(resolved, abs)
	}

	return types.ClassifyPaths(resolved), nil
}

// resolvePoolConfig returns the worker count and result buffer size.
// A thread count of 0 lets the tuner size the pool for this machine.
func resolvePoolConfig() (tuner.OptimalConfig, error) {
	threads := viper.GetInt("threads")
	if threads < 0 {
		return tuner.OptimalConfig{}, fmt.Errorf("invalid thread count %d", threads)
	}

	resources, err := tuner.Detect()
	if err != nil {
		printVerbose("Failed to detect system resources, using defaults: %v", err)
		resources = tuner.SystemResources{
			CPUCores:     4,
			TotalRAM:     8 * types.GiB,
			AvailableRAM: 4 * types.GiB,
		}
	}

	printVerbose("System: %d CPUs, %s RAM, %s available",
		resources.CPUCores,
		types.FormatSize(uint64(resources.TotalRAM)),
		types.FormatSize(uint64(resources.AvailableRAM)))

	if threads == 0 {
		return tuner.Calculate(resources), nil
	}
	return tuner.CalculateWithOverrides(resources, threads), nil
}

// followLinks reports whether symlinks should be traversed.
func followLinks() bool {
	return viper.GetBool("follow_links") && !viper.GetBool("no_follow_links")
}

// estimateEnabled reports whether the estimation pass runs.
func estimateEnabled() bool {
	if viper.GetBool("estimate_only") {
		return true
	}
	return viper.GetBool("estimate") && !viper.GetBool("no_estimate")
}

// progressEnabled reports whether the live progress bar is shown.
// It needs stderr to be a terminal.
func progressEnabled() bool {
	if viper.GetBool("no_progress") || getQuiet() {
		return false
	}
	return stderrIsTerminal()
}

// stderrIsTerminal is swapped out in tests.
var stderrIsTerminal = func() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
