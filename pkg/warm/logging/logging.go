// Package logging hands out per-component charmbracelet loggers for warm.
//
// Every logger writes to a rotating file under the XDG state directory and,
// when a console level is configured outside interactive mode, to stderr as
// well. Until Init is called loggers discard everything.
//
//	if err := logging.Init(logging.DefaultConfig()); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logging.Get("warmer").Info("run started", "targets", 3)
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Level is a charmbracelet/log severity.
type Level = log.Level

// Supported levels.
const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

// ErrInvalidLevel is returned for level names other than debug, info,
// warn (or warning) and error.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel maps a case-insensitive level name to a Level.
// Unknown names yield LevelInfo and ErrInvalidLevel.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		name = "warn"
	}
	switch name {
	case "debug", "info", "warn", "error":
		lvl, err := log.ParseLevel(name)
		if err == nil {
			return lvl, nil
		}
	}
	return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
}

// Config configures the logging system.
type Config struct {
	// Level applies to every component without an entry in Components.
	Level string

	// Path is the log file. Empty selects DefaultLogPath.
	Path string

	Rotation RotationConfig

	// Components overrides Level per component name.
	Components map[string]string

	// ConsoleLevel mirrors records at or above it to stderr. Empty disables
	// the console.
	ConsoleLevel string

	// Interactive mutes the console while a progress bar owns the terminal.
	Interactive bool
}

// Logger fans a record out to the file sink and the optional console sink.
type Logger struct {
	component string
	sinks     []*log.Logger
}

// Component returns the name the logger was obtained with.
func (l *Logger) Component() string { return l.component }

func (l *Logger) Debug(msg string, args ...any) { l.emit(LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.emit(LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.emit(LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.emit(LevelError, msg, args) }

func (l *Logger) emit(level Level, msg string, args []any) {
	for _, sink := range l.sinks {
		sink.Log(level, msg, args...)
	}
}

// With returns a logger that adds the key/value pairs to every record.
func (l *Logger) With(args ...any) *Logger {
	child := &Logger{component: l.component, sinks: make([]*log.Logger, len(l.sinks))}
	for i, sink := range l.sinks {
		child.sinks[i] = sink.With(args...)
	}
	return child
}

// setup is the parsed form of a Config.
type setup struct {
	level      Level
	components map[string]Level
	console    *Level
	writer     *RotatingWriter
}

var (
	mu      sync.Mutex
	active  *setup
	loggers = map[string]*Logger{}
)

// Init replaces the current logging setup. Loggers handed out earlier keep
// their old sinks; call Get again after Init.
func Init(cfg Config) error {
	next, err := parseConfig(cfg)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	next.writer, err = NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		return fmt.Errorf("creating log writer: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if err := closeActive(); err != nil {
		_ = next.writer.Close()
		return err
	}
	active = next
	return nil
}

func parseConfig(cfg Config) (*setup, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	s := &setup{level: level, components: make(map[string]Level, len(cfg.Components))}
	for name, raw := range cfg.Components {
		lvl, err := ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing level for component %s: %w", name, err)
		}
		s.components[name] = lvl
	}

	if cfg.ConsoleLevel != "" && !cfg.Interactive {
		lvl, err := ParseLevel(cfg.ConsoleLevel)
		if err != nil {
			return nil, fmt.Errorf("parsing console level: %w", err)
		}
		s.console = &lvl
	}
	return s, nil
}

// Get returns the shared logger for component.
func Get(component string) *Logger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[component]; ok {
		return l
	}
	l := build(component)
	loggers[component] = l
	return l
}

// build must be called with mu held.
func build(component string) *Logger {
	if active == nil {
		return &Logger{
			component: component,
			sinks: []*log.Logger{log.NewWithOptions(io.Discard, log.Options{
				Prefix: component,
			})},
		}
	}

	level := active.level
	if lvl, ok := active.components[component]; ok {
		level = lvl
	}

	l := &Logger{component: component}
	l.sinks = append(l.sinks, log.NewWithOptions(active.writer, log.Options{
		Level:           level,
		Prefix:          component,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	}))
	if active.console != nil {
		l.sinks = append(l.sinks, log.NewWithOptions(os.Stderr, log.Options{
			Level:           *active.console,
			Prefix:          component,
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
		}))
	}
	return l
}

// Close releases the log file. Later records are discarded until the next
// Init.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeActive()
}

// closeActive must be called with mu held.
func closeActive() error {
	loggers = map[string]*Logger{}
	if active == nil {
		return nil
	}
	w := active.writer
	active = nil
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing log writer: %w", err)
	}
	return nil
}

// DefaultLogPath is $XDG_STATE_HOME/warm/warm.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "warm", "warm.log")
}

// DefaultConfig logs at info to DefaultLogPath with default rotation.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		Path:     DefaultLogPath(),
		Rotation: DefaultRotationConfig(),
	}
}
