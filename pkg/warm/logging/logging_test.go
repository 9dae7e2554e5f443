package logging_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jamesainslie/warm/pkg/warm/logging"
)

// TestInit tests the Init function with various configurations.
// Note: This test cannot run in parallel with other tests that use global state.
func TestInit(t *testing.T) {
	validDir := t.TempDir()
	componentsDir := t.TempDir()
	invalidDir := t.TempDir()
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cfg     logging.Config
		wantErr bool
	}{
		{
			name: "valid config with defaults",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(validDir, "test.log"),
			},
		},
		{
			name: "valid config with component overrides",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(componentsDir, "components.log"),
				Components: map[string]string{
					"warmer": "debug",
					"cli":    "warn",
				},
			},
		},
		{
			name: "invalid log level",
			cfg: logging.Config{
				Level: "invalid",
				Path:  filepath.Join(invalidDir, "invalid.log"),
			},
			wantErr: true,
		},
		{
			name: "invalid component level",
			cfg: logging.Config{
				Level:      "info",
				Path:       filepath.Join(invalidDir, "component.log"),
				Components: map[string]string{"warmer": "loud"},
			},
			wantErr: true,
		},
		{
			name: "log directory is a file",
			cfg: logging.Config{
				Level: "info",
				Path:  filepath.Join(blocker, "test.log"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logging.Init(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if closeErr := logging.Close(); closeErr != nil {
					t.Errorf("Close() error = %v", closeErr)
				}
			}
		})
	}
}

func TestGetBeforeInitIsSilent(t *testing.T) {
	logger := logging.Get("early")
	if logger == nil {
		t.Fatal("Get() returned nil")
	}
	logger.Info("discarded")

	if logger.Component() != "early" {
		t.Errorf("Component() = %q, want %q", logger.Component(), "early")
	}
}

func TestLoggerWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "write.log")

	if err := logging.Init(logging.Config{Level: "debug", Path: logPath}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := logging.Get("warmer").With("run", "abc123")
	logger.Info("run finished", "bytes", 2500)

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	for _, want := range []string{"run finished", "abc123", "2500", "warmer"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("log file missing %q, got: %s", want, content)
		}
	}
}

func TestLogLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "levels.log")

	if err := logging.Init(logging.Config{Level: "warn", Path: logPath}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logger := logging.Get("test")
	logger.Debug("debug should not appear")
	logger.Info("info should not appear")
	logger.Warn("warn should appear")
	logger.Error("error should appear")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	logContent := string(content)

	if strings.Contains(logContent, "debug should not appear") {
		t.Error("debug message should not appear when level is warn")
	}
	if strings.Contains(logContent, "info should not appear") {
		t.Error("info message should not appear when level is warn")
	}
	if !strings.Contains(logContent, "warn should appear") {
		t.Error("warn message should appear when level is warn")
	}
	if !strings.Contains(logContent, "error should appear") {
		t.Error("error message should appear when level is warn")
	}
}

func TestComponentLevelOverride(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "component.log")

	cfg := logging.Config{
		Level:      "error",
		Path:       logPath,
		Components: map[string]string{"warmer": "debug"},
	}
	if err := logging.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	logging.Get("cli").Info("cli info should not appear")
	logging.Get("warmer").Debug("warmer debug should appear")

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	logContent := string(content)

	if strings.Contains(logContent, "cli info should not appear") {
		t.Error("cli info message should not appear when default level is error")
	}
	if !strings.Contains(logContent, "warmer debug should appear") {
		t.Error("warmer debug message should appear when component level is debug")
	}
}

func TestConcurrentWrites(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "concurrent.log")

	if err := logging.Init(logging.Config{Level: "info", Path: logPath}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger := logging.Get("warmer")
			for i := 0; i < 20; i++ {
				logger.Info("concurrent message")
			}
		}()
	}
	wg.Wait()

	if err := logging.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if got := strings.Count(string(content), "concurrent message"); got != 200 {
		t.Errorf("found %d messages, want 200", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    logging.Level
		wantErr bool
	}{
		{"debug", logging.LevelDebug, false},
		{"INFO", logging.LevelInfo, false},
		{"warn", logging.LevelWarn, false},
		{"warning", logging.LevelWarn, false},
		{"error", logging.LevelError, false},
		{"verbose", logging.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !tt.wantErr && got.String() == "" {
				t.Errorf("Level(%d).String() is empty", got)
			}
			if tt.wantErr && !errors.Is(err, logging.ErrInvalidLevel) {
				t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.input, err)
			}
		})
	}
}

func TestDefaultLogPath(t *testing.T) {
	path := logging.DefaultLogPath()
	if filepath.Base(path) != "warm.log" {
		t.Errorf("DefaultLogPath() = %q, want basename warm.log", path)
	}
	if cfg := logging.DefaultConfig(); cfg.Path != path {
		t.Errorf("DefaultConfig().Path = %q, want %q", cfg.Path, path)
	}
}
