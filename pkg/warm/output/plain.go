package output

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/jamesainslie/warm/pkg/warm/types"
)

// PlainFormatter writes one tab-aligned row per phase with raw byte counts.
// No colors or styling are applied, so the output is easy to parse.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	if _, err := fmt.Fprintln(tw, "PHASE\tFILES\tBYTES\tERRORS\tDURATION"); err != nil {
		return err
	}

	phases := []struct {
		name  string
		stats *types.RunStats
	}{
		{"estimate", r.Estimate},
		{"warm", r.Warm},
	}
	for _, p := range phases {
		if p.stats == nil {
			continue
		}
		_, err := fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\n",
			p.name,
			p.stats.Files,
			strconv.FormatUint(p.stats.Bytes, 10),
			p.stats.Errors,
			formatDurationString(p.stats.Elapsed),
		)
		if err != nil {
			return err
		}
	}

	if r.Interrupted {
		if _, err := fmt.Fprintln(tw, "interrupted"); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
