package warmer

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/jamesainslie/warm/pkg/warm/types"
)

// Walk calls visit for every regular file reachable from root.
//
// The root itself is always resolved: a root that is a symlink to a
// directory is entered and a root that is a regular file is visited
// directly. Below the root, symlinks are only traversed when followLinks is
// set. Each directory is entered at most once per walk, keyed by its
// resolved path, so aliased and cyclic links never count a file twice.
//
// visit may be called from several goroutines at once. Entries that fail
// during enumeration are reported to onErr (which may be nil) and skipped.
// Walk only returns an error when ctx is cancelled.
func Walk(ctx context.Context, root string, followLinks bool, visit func(path string), onErr func(types.FileError)) error {
	report := func(path, op string, err error) {
		if onErr != nil {
			onErr(types.FileError{Path: path, Op: op, Err: err})
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		report(root, "walk", err)
		return nil
	}
	if info.Mode().IsRegular() {
		visit(root)
		return nil
	}
	if !info.IsDir() {
		return nil
	}

	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		report(root, "walk", err)
		return nil
	}

	conf := fastwalk.Config{
		Follow: followLinks,
	}

	var entered sync.Map
	entered.Store(resolved, resolved)

	// enter reports whether path owns the directory it resolves to. The
	// first path to claim a directory keeps it for the rest of the walk.
	enter := func(path string) (bool, error) {
		canonical, err := filepath.EvalSymlinks(path)
		if err != nil {
			return false, err
		}
		owner, _ := entered.LoadOrStore(canonical, path)
		return owner.(string) == path, nil
	}

	walkErr := fastwalk.Walk(&conf, resolved, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			report(path, "walk", err)
			return nil
		}

		typ := d.Type()
		switch {
		case typ.IsRegular():
			visit(path)
		case typ.IsDir() && followLinks && path != resolved:
			first, err := enter(path)
			if err != nil {
				report(path, "walk", err)
				return filepath.SkipDir
			}
			if !first {
				return filepath.SkipDir
			}
		case typ&fs.ModeSymlink != 0 && followLinks:
			target, err := fastwalk.StatDirEntry(path, d)
			if err != nil {
				report(path, "stat", err)
				return nil
			}
			switch {
			case target.Mode().IsRegular():
				visit(path)
			case target.IsDir():
				first, err := enter(path)
				if err != nil {
					report(path, "stat", err)
					return filepath.SkipDir
				}
				if !first {
					return filepath.SkipDir
				}
			}
		}
		return nil
	})

	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return walkErr
		}
		report(root, "walk", walkErr)
	}
	return nil
}
