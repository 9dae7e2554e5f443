package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/warm/pkg/warm/warmer"
)

// maxBatch bounds how many stream values are folded into one update.
const maxBatch = 4096

// Phase identifies which pass a progress bar belongs to.
type Phase int

const (
	// PhaseEstimate is the size estimation pass.
	PhaseEstimate Phase = iota

	// PhaseWarm is the file reading pass.
	PhaseWarm
)

// Prefix returns the label shown in front of the bar.
func (p Phase) Prefix() string {
	switch p {
	case PhaseEstimate:
		return "Size estimation"
	case PhaseWarm:
		return "Files reading"
	default:
		return "Working"
	}
}

// Source is the subset of a warmer stream the progress model needs.
type Source interface {
	C() <-chan uint64
	Cancel()
}

var _ Source = (*warmer.Stream)(nil)

// valuesMsg carries a batch of byte counts read from the stream.
type valuesMsg struct {
	bytes  uint64
	count  int
	closed bool
}

// streamDoneMsg is sent once the stream channel is closed.
type streamDoneMsg struct{}

// ProgressModel shows bytes processed for one pass over a stream.
//
// In the estimate pass the total grows as file sizes arrive. In the warm
// pass the total is the estimate (if one ran) and the bar fills per chunk.
type ProgressModel struct {
	phase       Phase
	source      Source
	bar         progress.Model
	spinner     spinner.Model
	done        uint64
	total       uint64
	values      int
	start       time.Time
	width       int
	finished    bool
	interrupted bool
}

// NewProgressModel creates a progress model reading from source.
// total is the expected number of bytes, or 0 when unknown.
func NewProgressModel(phase Phase, source Source, total uint64) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40

	return ProgressModel{
		phase:   phase,
		source:  source,
		bar:     bar,
		spinner: s,
		total:   total,
		start:   time.Now(),
		width:   100,
	}
}

// Init starts the spinner and the first stream read.
func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForValues(m.source.C()))
}

// Update handles messages for the progress model.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = barWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.interrupted {
				m.interrupted = true
				m.source.Cancel()
			}
		}
		return m, nil

	case valuesMsg:
		m.add(msg.bytes, msg.count)
		if msg.closed {
			m.finished = true
			return m, tea.Quit
		}
		return m, waitForValues(m.source.C())

	case streamDoneMsg:
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// add folds a batch of values into the counters.
func (m *ProgressModel) add(bytes uint64, count int) {
	m.done += bytes
	m.values += count
	if m.phase == PhaseEstimate || (m.total > 0 && m.done > m.total) {
		m.total = m.done
	}
}

// View renders the progress line.
func (m ProgressModel) View() string {
	var b strings.Builder

	if m.finished {
		if m.interrupted {
			b.WriteString(warningTextStyle.Render("!"))
		} else {
			b.WriteString(successTextStyle.Render("✓"))
		}
	} else {
		b.WriteString(m.spinner.View())
	}
	b.WriteString(" ")
	b.WriteString(prefixStyle.Render(m.phase.Prefix()))
	b.WriteString(" ")

	if m.phase == PhaseWarm && m.total > 0 {
		b.WriteString(m.bar.ViewAs(m.Percent()))
		b.WriteString(" ")
	}

	b.WriteString(countStyle.Render(humanize.IBytes(m.done)))
	if m.phase == PhaseWarm && m.total > 0 {
		b.WriteString(mutedTextStyle.Render(" of "))
		b.WriteString(countStyle.Render(humanize.IBytes(m.total)))
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf(" %3.0f%%", m.Percent()*100)))
	}

	rate := m.Rate()
	if rate > 0 {
		b.WriteString(mutedTextStyle.Render(" " + humanize.IBytes(uint64(rate)) + "/s"))
		if eta, ok := m.ETA(); ok {
			b.WriteString(mutedTextStyle.Render(" ~" + formatETA(eta)))
		}
	}

	if m.interrupted && !m.finished {
		b.WriteString(warningTextStyle.Render("  stopping..."))
	}

	b.WriteString("\n")
	return b.String()
}

// Percent returns completion in [0, 1], or 0 when the total is unknown.
func (m ProgressModel) Percent() float64 {
	if m.total == 0 {
		return 0
	}
	p := float64(m.done) / float64(m.total)
	return min(p, 1)
}

// Rate returns bytes per second since the model started.
func (m ProgressModel) Rate() float64 {
	elapsed := time.Since(m.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.done) / elapsed
}

// ETA estimates the remaining time for the warm pass.
func (m ProgressModel) ETA() (time.Duration, bool) {
	rate := m.Rate()
	if m.phase != PhaseWarm || m.total == 0 || rate <= 0 || m.done >= m.total {
		return 0, false
	}
	remaining := float64(m.total-m.done) / rate
	return time.Duration(remaining * float64(time.Second)), true
}

// Done returns the number of bytes counted so far.
func (m ProgressModel) Done() uint64 {
	return m.done
}

// Interrupted reports whether the user stopped the pass.
func (m ProgressModel) Interrupted() bool {
	return m.interrupted
}

// waitForValues blocks for the next stream value, then drains whatever is
// already buffered so fast streams do not flood the event loop.
func waitForValues(ch <-chan uint64) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return streamDoneMsg{}
		}

		msg := valuesMsg{bytes: n, count: 1}
		for msg.count < maxBatch {
			select {
			case v, ok := <-ch:
				if !ok {
					msg.closed = true
					return msg
				}
				msg.bytes += v
				msg.count++
			default:
				return msg
			}
		}
		return msg
	}
}

// barWidth sizes the bar to leave room for the counters.
func barWidth(termWidth int) int {
	w := termWidth - 70
	return max(10, min(w, 60))
}

// formatETA renders a remaining duration as "1h2m", "3m4s" or "5s".
func formatETA(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// Run shows a progress bar for source on out until the stream ends.
// It reports whether the user interrupted the pass from the keyboard.
func Run(phase Phase, source Source, total uint64, out io.Writer) (bool, error) {
	p := tea.NewProgram(NewProgressModel(phase, source, total), tea.WithOutput(out))

	final, err := p.Run()
	if err != nil {
		source.Cancel()
		return true, fmt.Errorf("running progress display: %w", err)
	}

	m, ok := final.(ProgressModel)
	if !ok {
		return false, nil
	}
	return m.Interrupted(), nil
}
