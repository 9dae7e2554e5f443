package warmer

import (
	"context"
	"errors"
	"io"
	"os"
)

// EstimateFile returns the size of the file at path without reading it.
func EstimateFile(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}

// WarmFile reads the file at path sequentially in ChunkSize chunks and
// calls emit with the length of every non-empty read, in file order.
//
// Reading stops at end of file, when emit returns false, or when ctx is
// cancelled; none of these are errors. An open failure emits nothing and a
// read failure ends the file early. Both are returned for diagnostics.
func WarmFile(ctx context.Context, path string, emit func(uint64) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, ChunkSize)
	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := f.Read(buf)
		if n > 0 && !emit(uint64(n)) {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}
