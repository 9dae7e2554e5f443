package output

import (
	"time"

	"github.com/jamesainslie/warm/pkg/warm/types"
)

// document is the structured form shared by the json and yaml formatters.
type document struct {
	Run      documentRun     `json:"run" yaml:"run"`
	Estimate *documentPhase  `json:"estimate,omitempty" yaml:"estimate,omitempty"`
	Warm     *documentPhase  `json:"warm,omitempty" yaml:"warm,omitempty"`
	Summary  documentSummary `json:"summary" yaml:"summary"`
}

type documentRun struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Directories []string `json:"directories,omitempty" yaml:"directories,omitempty"`
	Files       []string `json:"files,omitempty" yaml:"files,omitempty"`
	Threads     int      `json:"threads" yaml:"threads"`
	FollowLinks bool     `json:"follow_links" yaml:"follow_links"`
}

type documentPhase struct {
	Files       int64  `json:"files" yaml:"files"`
	Values      int64  `json:"values" yaml:"values"`
	Bytes       uint64 `json:"bytes" yaml:"bytes"`
	BytesHuman  string `json:"bytes_human" yaml:"bytes_human"`
	Errors      int64  `json:"errors" yaml:"errors"`
	PeakWorkers int64  `json:"peak_workers" yaml:"peak_workers"`
	Duration    string `json:"duration" yaml:"duration"`
	Rate        string `json:"rate,omitempty" yaml:"rate,omitempty"`
}

type documentSummary struct {
	EstimatedBytes uint64   `json:"estimated_bytes" yaml:"estimated_bytes"`
	WarmedBytes    uint64   `json:"warmed_bytes" yaml:"warmed_bytes"`
	Coverage       float64  `json:"coverage_percent" yaml:"coverage_percent"`
	Errors         int64    `json:"errors" yaml:"errors"`
	Warnings       []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Interrupted    bool     `json:"interrupted" yaml:"interrupted"`
}

func buildDocument(r *Report) document {
	run := documentRun{
		ID:          r.RunID,
		Threads:     r.Threads,
		FollowLinks: r.FollowLinks,
	}
	for _, t := range r.Targets {
		switch t.Kind {
		case types.KindDirectory:
			run.Directories = append(run.Directories, t.Path)
		case types.KindFile:
			run.Files = append(run.Files, t.Path)
		}
	}

	return document{
		Run:      run,
		Estimate: buildPhase(r.Estimate),
		Warm:     buildPhase(r.Warm),
		Summary: documentSummary{
			EstimatedBytes: r.EstimatedBytes(),
			WarmedBytes:    r.WarmedBytes(),
			Coverage:       r.Coverage(),
			Errors:         r.Errors(),
			Warnings:       r.Warnings,
			Interrupted:    r.Interrupted,
		},
	}
}

func buildPhase(s *types.RunStats) *documentPhase {
	if s == nil {
		return nil
	}
	return &documentPhase{
		Files:       s.Files,
		Values:      s.Values,
		Bytes:       s.Bytes,
		BytesHuman:  types.FormatSize(s.Bytes),
		Errors:      s.Errors,
		PeakWorkers: s.Peak,
		Duration:    formatDurationString(s.Elapsed),
		Rate:        formatRate(s.Bytes, s.Elapsed),
	}
}

// formatDurationString formats a duration for structured output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.Round(time.Millisecond).String()
}

// formatRate returns a per-second throughput such as "12 MiB/s".
func formatRate(bytes uint64, d time.Duration) string {
	if d <= 0 || bytes == 0 {
		return ""
	}
	return types.FormatSize(uint64(float64(bytes)/d.Seconds())) + "/s"
}
