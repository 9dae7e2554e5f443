package main

import (
	"fmt"
	"os"

	"github.com/jamesainslie/warm/pkg/warm/config"
	"github.com/jamesainslie/warm/pkg/warm/logging"
	"github.com/jamesainslie/warm/pkg/warm/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultRotationMaxSize is used when logging.rotation.max_size is unset or
// cannot be parsed.
const defaultRotationMaxSize = 10 * types.MiB

// initializeLogging sets up file logging from the loaded configuration.
// Verbose mode adds debug output on stderr unless the progress bar owns the
// terminal.
func initializeLogging(cmd *cobra.Command, _ []string) error {
	lc := loggingConfigFromViper()

	cfg := logging.Config{
		Level:       lc.Level,
		Path:        lc.Path,
		Rotation:    parseRotationConfig(lc.Rotation),
		Components:  lc.Components,
		Interactive: cmd == rootCmd && progressEnabled(),
	}
	if cfg.Level == "" {
		cfg.Level = config.DefaultLogLevel
	}
	if getVerbose() {
		cfg.Level = "debug"
		cfg.ConsoleLevel = "debug"
	}

	if cfg.Path == "" {
		if err := config.EnsureStateDir(); err != nil {
			return err
		}
	}

	if err := logging.Init(cfg); err != nil {
		// Logging is best effort; a read-only home must not stop a warm run.
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	return nil
}

// loggingConfigFromViper reads logging settings key by key so that
// environment overrides of nested keys are honored.
func loggingConfigFromViper() config.LoggingConfig {
	return config.LoggingConfig{
		Level: viper.GetString("logging.level"),
		Path:  viper.GetString("logging.path"),
		Rotation: config.RotationConfig{
			MaxSize:    viper.GetString("logging.rotation.max_size"),
			MaxAge:     viper.GetInt("logging.rotation.max_age"),
			MaxBackups: viper.GetInt("logging.rotation.max_backups"),
		},
		Components: viper.GetStringMapString("logging.components"),
	}
}

// closeLogging flushes the log file after a command completes.
func closeLogging(_ *cobra.Command, _ []string) error {
	return logging.Close()
}

// parseRotationConfig converts the config file representation into the
// logging package's, falling back to the default size on bad input.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	maxSize := defaultRotationMaxSize
	if rc.MaxSize != "" {
		if parsed, err := types.ParseSize(rc.MaxSize); err == nil && parsed > 0 {
			maxSize = parsed
		}
	}

	return logging.RotationConfig{
		MaxSize:    maxSize,
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
	}
}
