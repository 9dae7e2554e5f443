package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// RotationConfig bounds the size and number of log files.
type RotationConfig struct {
	// MaxSize is the file size in bytes that triggers rotation.
	// Zero selects the 10 MiB default.
	MaxSize int64

	// MaxAge removes backups older than this many days. Zero keeps them.
	MaxAge int

	// MaxBackups caps the number of backups kept. Zero keeps them all.
	MaxBackups int
}

// DefaultRotationConfig returns 10 MiB files, five backups, 30 days.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSize:    10 << 20,
		MaxAge:     30,
		MaxBackups: 5,
	}
}

// backupLayout is the timestamp embedded in backup names,
// e.g. warm.2026-10-18-150405.000.log.
const backupLayout = "2006-01-02-150405.000"

// RotatingWriter is an append-only log file that moves itself aside once it
// would grow past MaxSize. Writes are serialized in-process and guarded by
// an exclusive flock so concurrent warm processes can share the file.
type RotatingWriter struct {
	path string
	cfg  RotationConfig

	mu   sync.Mutex
	file *os.File
	size int64
}

// NewRotatingWriter opens path for appending, creating parent directories,
// and prunes stale backups.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultRotationConfig().MaxSize
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	w := &RotatingWriter{path: path, cfg: cfg}
	if err := w.open(); err != nil {
		return nil, err
	}
	w.prune(time.Now())
	return w, nil
}

// Write appends p, rotating first when p would overflow a non-empty file.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}
	if w.size > 0 && w.size+int64(len(p)) > w.cfg.MaxSize {
		if err := w.rotate(); err != nil {
			return 0, fmt.Errorf("rotating log file: %w", err)
		}
	}

	fd := int(w.file.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		return 0, fmt.Errorf("locking log file: %w", err)
	}
	defer unix.Flock(fd, unix.LOCK_UN) //nolint:errcheck

	n, err := w.file.Write(p)
	w.size += int64(n)
	if err != nil {
		return n, fmt.Errorf("writing log file: %w", err)
	}
	return n, nil
}

// Close syncs and closes the file. Further writes fail with os.ErrClosed.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	f := w.file
	w.file = nil

	syncErr := f.Sync()
	if err := f.Close(); err != nil {
		return err
	}
	if syncErr != nil {
		return fmt.Errorf("syncing log file: %w", syncErr)
	}
	return nil
}

func (w *RotatingWriter) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	w.file = f
	w.size = info.Size()
	return nil
}

func (w *RotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("closing current file: %w", err)
	}
	w.file = nil

	now := time.Now()
	if err := os.Rename(w.path, backupName(w.path, now)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("renaming log file: %w", err)
	}
	if err := w.open(); err != nil {
		return err
	}
	w.prune(now)
	return nil
}

func backupName(path string, t time.Time) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + t.Format(backupLayout) + ext
}

// prune deletes backups past MaxAge and all but the newest MaxBackups.
// Backup names sort chronologically.
func (w *RotatingWriter) prune(now time.Time) {
	ext := filepath.Ext(w.path)
	backups, err := filepath.Glob(strings.TrimSuffix(w.path, ext) + ".*" + ext)
	if err != nil {
		return
	}
	backups = slices.DeleteFunc(backups, func(p string) bool { return p == w.path })
	slices.Sort(backups)
	slices.Reverse(backups)

	cutoff := now.AddDate(0, 0, -w.cfg.MaxAge)
	for i, p := range backups {
		excess := w.cfg.MaxBackups > 0 && i >= w.cfg.MaxBackups
		expired := false
		if w.cfg.MaxAge > 0 {
			if info, err := os.Stat(p); err == nil && info.ModTime().Before(cutoff) {
				expired = true
			}
		}
		if excess || expired {
			_ = os.Remove(p)
		}
	}
}
