package output

import "github.com/charmbracelet/lipgloss"

// Color constants using the ANSI 256-color palette.
const (
	// ColorPrimary is used for headers and byte totals (bright blue).
	ColorPrimary = lipgloss.Color("39")

	// ColorSuccess marks a completed warm pass (green).
	ColorSuccess = lipgloss.Color("42")

	// ColorWarning is used for warnings and interruptions (orange).
	ColorWarning = lipgloss.Color("214")

	// ColorMuted is used for labels and secondary text (gray).
	ColorMuted = lipgloss.Color("245")
)

var (
	// HeaderBox frames the run description.
	HeaderBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1).
			MarginBottom(1)

	// FooterBox frames the summary line.
	FooterBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1).
			MarginTop(1)
)

var (
	LabelStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	ValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	SizeStyle    = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	// PhaseStyle renders the phase name column.
	PhaseStyle = lipgloss.NewStyle().Bold(true).Width(10)
)
