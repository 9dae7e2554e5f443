package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jamesainslie/warm/pkg/warm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *Report {
	return &Report{
		RunID:       "3f2a9c1e",
		Targets:     []types.Target{types.Directory("/data"), types.File("/etc/hosts")},
		Threads:     4,
		FollowLinks: true,
		Estimate: &types.RunStats{
			Files:   2,
			Values:  2,
			Bytes:   2500,
			Elapsed: 20 * time.Millisecond,
			Peak:    2,
		},
		Warm: &types.RunStats{
			Files:   2,
			Values:  3,
			Bytes:   2500,
			Errors:  1,
			Elapsed: 2 * time.Second,
			Peak:    2,
		},
		Warnings: []string{"open /data/secret: permission denied"},
	}
}

func TestReport_Accessors(t *testing.T) {
	r := sampleReport()

	assert.Equal(t, uint64(2500), r.EstimatedBytes())
	assert.Equal(t, uint64(2500), r.WarmedBytes())
	assert.InDelta(t, 100.0, r.Coverage(), 0.001)
	assert.Equal(t, int64(1), r.Errors())

	r.Warm.Bytes = 1250
	assert.InDelta(t, 50.0, r.Coverage(), 0.001)

	empty := &Report{}
	assert.Zero(t, empty.EstimatedBytes())
	assert.Zero(t, empty.WarmedBytes())
	assert.Zero(t, empty.Coverage())
	assert.Zero(t, empty.Errors())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("plain", func() Formatter { return &PlainFormatter{} })

	f, err := reg.Get("plain")
	require.NoError(t, err)
	assert.IsType(t, &PlainFormatter{}, f)

	_, err = reg.Get("xml")
	assert.ErrorContains(t, err, "unknown formatter: xml")

	assert.Equal(t, []string{"plain"}, reg.Available())
}

func TestDefaultRegistry(t *testing.T) {
	assert.Equal(t, []string{"json", "plain", "pretty", "yaml"}, Available())

	for _, name := range Available() {
		f, err := Get(name)
		require.NoError(t, err, name)

		var buf bytes.Buffer
		require.NoError(t, f.Format(&buf, sampleReport()), name)
		assert.NotEmpty(t, buf.String(), name)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, sampleReport()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	run := doc["run"].(map[string]any)
	assert.Equal(t, []any{"/data"}, run["directories"])
	assert.Equal(t, []any{"/etc/hosts"}, run["files"])
	assert.Equal(t, float64(4), run["threads"])

	warm := doc["warm"].(map[string]any)
	assert.Equal(t, float64(2500), warm["bytes"])
	assert.Equal(t, "2.4 KiB", warm["bytes_human"])
	assert.Equal(t, "2s", warm["duration"])

	summary := doc["summary"].(map[string]any)
	assert.Equal(t, float64(100), summary["coverage_percent"])
	assert.Equal(t, false, summary["interrupted"])
}

func TestJSONFormatter_SkippedPhase(t *testing.T) {
	r := sampleReport()
	r.Warm = nil

	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, r))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.NotContains(t, doc, "warm")
	assert.Contains(t, doc, "estimate")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLFormatter{}).Format(&buf, sampleReport()))

	var doc document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "3f2a9c1e", doc.Run.ID)
	require.NotNil(t, doc.Estimate)
	assert.Equal(t, uint64(2500), doc.Estimate.Bytes)
	assert.Equal(t, int64(1), doc.Summary.Errors)
	assert.Equal(t, []string{"open /data/secret: permission denied"}, doc.Summary.Warnings)
}

func TestPlainFormatter(t *testing.T) {
	r := sampleReport()
	r.Interrupted = true

	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, r))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"PHASE", "FILES", "BYTES", "ERRORS", "DURATION"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"estimate", "2", "2500", "0", "20ms"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"warm", "2", "2500", "1", "2s"}, strings.Fields(lines[2]))
	assert.Equal(t, "interrupted", strings.TrimSpace(lines[3]))
}

func TestPrettyFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "/data, /etc/hosts")
	assert.Contains(t, out, "Estimate")
	assert.Contains(t, out, "Warm")
	assert.Contains(t, out, "2.4 KiB")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "1 skipped")
	assert.Contains(t, out, "permission denied")
}

func TestPrettyFormatter_ManyWarnings(t *testing.T) {
	r := sampleReport()
	r.Warnings = nil
	for i := 0; i < maxPrettyWarnings+5; i++ {
		r.Warnings = append(r.Warnings, "warning")
	}

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, r))
	assert.Contains(t, buf.String(), "and 5 more")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "1.0 KiB/s", formatRate(2048, 2*time.Second))
	assert.Empty(t, formatRate(0, time.Second))
	assert.Empty(t, formatRate(100, 0))
}
