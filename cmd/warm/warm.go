package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jamesainslie/warm/cmd/warm/tui"
	"github.com/jamesainslie/warm/pkg/warm/logging"
	"github.com/jamesainslie/warm/pkg/warm/output"
	"github.com/jamesainslie/warm/pkg/warm/types"
	"github.com/jamesainslie/warm/pkg/warm/warmer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// maxWarnings bounds how many absorbed failures are kept for the summary.
const maxWarnings = 100

// warningSink collects absorbed per-path failures from concurrent workers.
type warningSink struct {
	mu      sync.Mutex
	items   []string
	dropped int
}

func (s *warningSink) add(fe types.FileError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) >= maxWarnings {
		s.dropped++
		return
	}
	s.items = append(s.items, fe.Error())
}

func (s *warningSink) list() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.items...)
	if s.dropped > 0 {
		out = append(out, fmt.Sprintf("%d more failures not shown", s.dropped))
	}
	return out
}

// runWarm is the main command handler: estimate, warm, then summarize.
func runWarm(cmd *cobra.Command, args []string) error {
	logger := logging.Get("cli")

	formatName := viper.GetString("output")
	formatter, err := output.Get(formatName)
	if err != nil {
		return fmt.Errorf("unknown output format %q: available formats are %v", formatName, output.Available())
	}

	targets, err := resolveTargets(args)
	if err != nil {
		return err
	}

	poolCfg, err := resolvePoolConfig()
	if err != nil {
		return err
	}
	printVerbose("Config: %d threads, result buffer %d", poolCfg.Threads, poolCfg.ResultBuffer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	warnings := &warningSink{}
	session := warmer.New(warmer.Options{
		Targets:      targets,
		Threads:      poolCfg.Threads,
		FollowLinks:  followLinks(),
		ResultBuffer: poolCfg.ResultBuffer,
		OnError:      warnings.add,
	})

	report := &output.Report{
		Targets:     targets,
		Threads:     poolCfg.Threads,
		FollowLinks: followLinks(),
	}

	logger.Info("warm invoked",
		"targets", len(targets),
		"threads", poolCfg.Threads,
		"follow_links", report.FollowLinks,
		"estimate", estimateEnabled(),
	)

	showProgress := progressEnabled()

	if estimateEnabled() {
		stream := session.IterEstimate(ctx)
		report.RunID = stream.ID()
		stats, interrupted, err := consume(stream, tui.PhaseEstimate, 0, showProgress)
		report.Estimate = &stats
		report.Interrupted = interrupted
		if err != nil {
			return err
		}
	}

	if !viper.GetBool("estimate_only") && !report.Interrupted {
		stream := session.IterWarm(ctx)
		if report.RunID == "" {
			report.RunID = stream.ID()
		}
		stats, interrupted, err := consume(stream, tui.PhaseWarm, report.EstimatedBytes(), showProgress)
		report.Warm = &stats
		report.Interrupted = interrupted
		if err != nil {
			return err
		}
	}

	report.Warnings = warnings.list()

	if report.Interrupted {
		logger.Warn("warm interrupted", "warmed", types.FormatSize(report.WarmedBytes()))
	}

	if getQuiet() && formatName == "pretty" {
		return nil
	}
	return writeReport(cmd.OutOrStdout(), formatter, report)
}

// consume runs one pass to completion, either behind the progress bar or by
// draining the stream silently.
func consume(stream *warmer.Stream, phase tui.Phase, total uint64, showProgress bool) (types.RunStats, bool, error) {
	var userStopped bool

	if showProgress {
		stopped, err := tui.Run(phase, stream, total, os.Stderr)
		if err != nil {
			stream.Close()
			return stream.Stats(), true, err
		}
		userStopped = stopped
		if stopped {
			stream.Close()
		}
	} else {
		stream.Sum()
	}

	stream.Wait()
	return stream.Stats(), userStopped || stream.Cancelled(), nil
}

// writeReport formats the report and writes it to w.
func writeReport(w io.Writer, formatter output.Formatter, report *output.Report) error {
	var buf bytes.Buffer
	if err := formatter.Format(&buf, report); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
