package types

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		// Basic byte values
		{name: "plain bytes", input: "1024", want: 1024},
		{name: "zero bytes", input: "0", want: 0},
		{name: "bytes with B suffix", input: "512B", want: 512},
		{name: "bytes with lowercase b", input: "512b", want: 512},

		// Units
		{name: "kilobytes", input: "100K", want: 100 * 1024},
		{name: "kilobytes with iB", input: "100KiB", want: 100 * 1024},
		{name: "megabytes lowercase", input: "50m", want: 50 * 1024 * 1024},
		{name: "megabytes with B", input: "10MB", want: 10 * 1024 * 1024},
		{name: "gigabytes", input: "2G", want: 2 * 1024 * 1024 * 1024},
		{name: "terabytes with iB", input: "1TiB", want: 1024 * 1024 * 1024 * 1024},

		// Whitespace handling
		{name: "both whitespace", input: "  100M  ", want: 100 * 1024 * 1024},

		// Edge cases
		{name: "decimal values truncated", input: "1.5G", want: 1610612736},

		// Error cases
		{name: "empty string", input: "", wantErr: true},
		{name: "only whitespace", input: "   ", wantErr: true},
		{name: "invalid suffix", input: "100X", wantErr: true},
		{name: "negative value", input: "-100M", wantErr: true},
		{name: "letters only", input: "abc", wantErr: true},
		{name: "invalid format", input: "100M100", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSize_Sentinels(t *testing.T) {
	_, err := ParseSize("-1K")
	assert.ErrorIs(t, err, ErrNegativeSize)

	_, err = ParseSize("lots")
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{500, "500 B"},
		{1024, "1.0 KiB"},
		{1536 * 1024, "1.5 MiB"},
		{1024 * 1024 * 1024, "1.0 GiB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.bytes))
	}
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "directory:/data", Directory("/data").String())
	assert.Equal(t, "file:/data/a.bin", File("/data/a.bin").String())
	assert.Equal(t, "unknown", TargetKind(42).String())
}

func TestClassifyPaths(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "dir")
	file := filepath.Join(root, "file.txt")
	link := filepath.Join(root, "dirlink")
	missing := filepath.Join(root, "missing")

	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	require.NoError(t, os.Symlink(dir, link))

	got := ClassifyPaths([]string{dir, file, link, missing})

	assert.Equal(t, []Target{
		Directory(dir),
		File(file),
		Directory(link),
		File(missing),
	}, got)
}

func TestFileError(t *testing.T) {
	err := FileError{Path: "/x", Op: "open", Err: fs.ErrPermission}

	assert.Equal(t, "open /x: permission denied", err.Error())
	assert.True(t, errors.Is(err, fs.ErrPermission))
}
