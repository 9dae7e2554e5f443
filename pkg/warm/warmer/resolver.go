package warmer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotRegular is returned by Resolve for paths that exist but are not
// regular files (directories, devices, sockets, links to those).
var ErrNotRegular = errors.New("not a regular file")

// Resolve returns the path to read for an explicit file target.
// A regular file resolves to itself and a symlink resolves to its final
// target when that target is a regular file. Anything else fails, either
// with ErrNotRegular or with the underlying filesystem error.
func Resolve(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return "", err
	}

	mode := info.Mode()
	if mode.IsRegular() {
		return path, nil
	}
	if mode&fs.ModeSymlink == 0 {
		return "", ErrNotRegular
	}

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}

	info, err = os.Stat(target)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", ErrNotRegular
	}

	return target, nil
}
