package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jamesainslie/warm/pkg/warm/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage warm configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/warm/config.yaml (if set)
  2. ~/.config/warm/config.yaml

Environment variables can override config file settings using the WARM_ prefix:
  WARM_THREADS=256
  WARM_FOLLOW_LINKS=false
  WARM_LOGGING_LEVEL=debug`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// configEnvVars lists the environment overrides reported by config show.
var configEnvVars = []struct {
	name string
	key  string
}{
	{"WARM_DEFAULT_PATHS", "default_paths"},
	{"WARM_THREADS", "threads"},
	{"WARM_FOLLOW_LINKS", "follow_links"},
	{"WARM_ESTIMATE", "estimate"},
	{"WARM_OUTPUT", "output"},
	{"WARM_LOGGING_LEVEL", "logging.level"},
	{"WARM_LOGGING_PATH", "logging.path"},
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		printError("Failed to load configuration: %v", err)
		cfg = &config.Config{
			DefaultPaths: config.DefaultPaths,
			Threads:      config.DefaultThreads,
			FollowLinks:  config.DefaultFollowLinks,
			Estimate:     config.DefaultEstimate,
			Output:       config.DefaultOutput,
		}
		cfg.Logging.Level = config.DefaultLogLevel
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Fprintf(out, "Config file: %s\n\n", configFile)
	} else {
		fmt.Fprintln(out, "Config file: (using defaults, no file found)")
		fmt.Fprintln(out)
	}

	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}

	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintln(out, "----------------------")
	fmt.Fprintf(out, "default_paths:        %s\n", strings.Join(cfg.DefaultPaths, ", "))
	fmt.Fprintf(out, "threads:              %d\n", cfg.Threads)
	fmt.Fprintf(out, "follow_links:         %t\n", cfg.FollowLinks)
	fmt.Fprintf(out, "estimate:             %t\n", cfg.Estimate)
	fmt.Fprintf(out, "output:               %s\n", cfg.Output)
	fmt.Fprintf(out, "logging.level:        %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "logging.path:         %s\n", logPath)
	fmt.Fprintf(out, "logging.rotation:     %s, %d days, %d backups\n",
		cfg.Logging.Rotation.MaxSize, cfg.Logging.Rotation.MaxAge, cfg.Logging.Rotation.MaxBackups)

	fmt.Fprintln(out, "\nEnvironment Overrides:")
	fmt.Fprintln(out, "----------------------")

	anyOverrides := false
	for _, ev := range configEnvVars {
		if val := os.Getenv(ev.name); val != "" {
			fmt.Fprintf(out, "%s=%s\n", ev.name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Fprintln(out, "(none)")
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		return nil
	}

	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
