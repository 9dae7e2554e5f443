package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/warm/pkg/warm/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "warm [paths...]",
		Short: "Read files ahead of time to warm lazily loaded storage",
		Long: `Warm reads every regular file under the given paths so that storage which
fetches data on first access (for example volumes restored from snapshots)
is fully materialized before the workload needs it.

Directories are walked recursively. Files are read in parallel by a pool of
workers. A size estimation pass runs first so progress can be shown against
the total.

Examples:
  warm                        # Warm the current directory
  warm /data /var/lib/db      # Warm several paths
  warm -t 256 /data           # Use 256 workers
  warm -t 0 /data             # Tune worker count to this machine
  warm -n /data               # Do not follow symlinks
  warm -e -o json /data       # Only estimate, print JSON
  warm config show            # Show configuration`,
		Args:               cobra.ArbitraryArgs,
		PersistentPostRunE: closeLogging,
		RunE:               runWarm,
		SilenceUsage:       true,
		SilenceErrors:      true,
	}
)

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle: initializeLogging refers to rootCmd.
	rootCmd.PersistentPreRunE = initializeLogging

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/warm/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	rootCmd.Flags().IntP("threads", "t", config.DefaultThreads, "number of files read concurrently (0=auto)")
	rootCmd.Flags().BoolP("no-follow-links", "n", false, "do not follow symbolic links")
	rootCmd.Flags().Bool("no-estimate", false, "skip size estimation before warming")
	rootCmd.Flags().BoolP("estimate-only", "e", false, "only estimate the total size, do not read files")
	rootCmd.Flags().StringP("output", "o", config.DefaultOutput, "summary format (pretty, plain, json, yaml)")
	rootCmd.Flags().Bool("no-progress", false, "disable the progress bar")

	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("threads", rootCmd.Flags().Lookup("threads"))
	_ = viper.BindPFlag("no_follow_links", rootCmd.Flags().Lookup("no-follow-links"))
	_ = viper.BindPFlag("no_estimate", rootCmd.Flags().Lookup("no-estimate"))
	_ = viper.BindPFlag("estimate_only", rootCmd.Flags().Lookup("estimate-only"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("no_progress", rootCmd.Flags().Lookup("no-progress"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "warm"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "warm"))
		}
	}

	viper.SetEnvPrefix("WARM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError("%v", err)
	}
	return err
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message to stderr if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
