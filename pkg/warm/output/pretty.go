package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/warm/pkg/warm/types"
)

// maxPrettyWarnings caps the warnings listed by the pretty formatter.
const maxPrettyWarnings = 10

// PrettyFormatter formats the report with colors and boxes using lipgloss.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")

	if r.Estimate != nil {
		w.WriteString(f.formatPhase("Estimate", r.Estimate))
	}
	if r.Warm != nil {
		w.WriteString(f.formatPhase("Warm", r.Warm))
	}

	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")

	if len(r.Warnings) > 0 {
		w.WriteString(f.formatWarnings(r.Warnings))
	}

	return nil
}

// formatHeader builds the header box describing what was processed.
func (f *PrettyFormatter) formatHeader(r *Report) string {
	paths := make([]string, len(r.Targets))
	for i, t := range r.Targets {
		paths[i] = t.Path
	}

	lines := []string{
		LabelStyle.Render("Paths:") + " " + ValueStyle.Render(strings.Join(paths, ", ")),
	}

	follow := "off"
	if r.FollowLinks {
		follow = "on"
	}
	lines = append(lines, fmt.Sprintf("%s %s  %s %s",
		LabelStyle.Render("Threads:"), ValueStyle.Render(fmt.Sprintf("%d", r.Threads)),
		LabelStyle.Render("Follow links:"), ValueStyle.Render(follow),
	))

	if r.Interrupted {
		lines = append(lines, WarningStyle.Bold(true).Render("Interrupted by user"))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatPhase renders one row of phase counters.
func (f *PrettyFormatter) formatPhase(name string, s *types.RunStats) string {
	parts := []string{
		PhaseStyle.Render(name),
		SizeStyle.Render(padLeft(humanize.IBytes(s.Bytes), 10)),
		MutedStyle.Render(fmt.Sprintf("%s files", humanize.Comma(s.Files))),
		MutedStyle.Render("in " + formatDuration(s.Elapsed)),
	}
	if rate := formatRate(s.Bytes, s.Elapsed); rate != "" {
		parts = append(parts, MutedStyle.Render(rate))
	}
	if s.Errors > 0 {
		parts = append(parts, WarningStyle.Render(fmt.Sprintf("%d skipped", s.Errors)))
	}
	return "  " + strings.Join(parts, "  ") + "\n"
}

// formatFooter builds the summary box.
func (f *PrettyFormatter) formatFooter(r *Report) string {
	var parts []string

	switch {
	case r.Warm != nil:
		parts = append(parts, LabelStyle.Render("Warmed:")+" "+SizeStyle.Render(humanize.IBytes(r.WarmedBytes())))
		if r.Estimate != nil {
			parts = append(parts, LabelStyle.Render("Coverage:")+" "+ValueStyle.Render(fmt.Sprintf("%.1f%%", r.Coverage())))
		}
	case r.Estimate != nil:
		parts = append(parts, LabelStyle.Render("Estimated:")+" "+SizeStyle.Render(humanize.IBytes(r.EstimatedBytes())))
	}

	if r.Interrupted {
		parts = append(parts, WarningStyle.Render("incomplete"))
	} else if r.Warm != nil {
		parts = append(parts, SuccessStyle.Render("done"))
	}

	parts = append(parts, MutedStyle.Render("Use -o plain for unformatted output"))
	return FooterBox.Render(strings.Join(parts, "  "))
}

// formatWarnings lists the first few warnings and counts the rest.
func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder

	sb.WriteString(WarningStyle.Bold(true).Render("Warnings:"))
	sb.WriteString("\n")

	shown := warnings
	if len(shown) > maxPrettyWarnings {
		shown = shown[:maxPrettyWarnings]
	}
	for _, warning := range shown {
		sb.WriteString(WarningStyle.Render("  " + warning))
		sb.WriteString("\n")
	}
	if extra := len(warnings) - len(shown); extra > 0 {
		sb.WriteString(MutedStyle.Render(fmt.Sprintf("  ... and %d more", extra)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// padLeft pads a string with spaces on the left to the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
