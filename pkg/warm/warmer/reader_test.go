package warmer

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f")
	writeFile(t, path, 4321)

	size, err := EstimateFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(4321), size)

	_, err = EstimateFile(filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWarmFile_Chunks(t *testing.T) {
	tests := []struct {
		name string
		size int
		want []uint64
	}{
		{name: "empty", size: 0, want: nil},
		{name: "partial chunk", size: 500, want: []uint64{500}},
		{name: "exact chunk", size: ChunkSize, want: []uint64{1024}},
		{name: "two chunks", size: 2000, want: []uint64{1024, 976}},
		{name: "three chunks", size: 2500, want: []uint64{1024, 1024, 452}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "f")
			writeFile(t, path, tt.size)

			var got []uint64
			err := WarmFile(context.Background(), path, func(n uint64) bool {
				got = append(got, n)
				return true
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWarmFile_StopsWhenEmitRefuses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	writeFile(t, path, 10*ChunkSize)

	calls := 0
	err := WarmFile(context.Background(), path, func(uint64) bool {
		calls++
		return calls < 3
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWarmFile_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	writeFile(t, path, 4*ChunkSize)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := WarmFile(ctx, path, func(uint64) bool {
		calls++
		return true
	})

	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestWarmFile_OpenFailure(t *testing.T) {
	calls := 0
	err := WarmFile(context.Background(), filepath.Join(t.TempDir(), "missing"), func(uint64) bool {
		calls++
		return true
	})

	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Zero(t, calls)
}
