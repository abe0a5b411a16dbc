package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for section headers.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// SuccessStyle marks a completed operation.
var SuccessStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGreen)

// ErrorStyle marks a failed operation.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// KeyStyle renders issue keys.
var KeyStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// LabelStyle renders field labels in key/value output.
var LabelStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Width(10)

// ValueStyle renders field values in key/value output.
var ValueStyle = lipgloss.NewStyle().
	Foreground(ColorWhite)

// SpinnerStyle colors the progress spinner.
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(ColorMagenta)

// HelpStyle is used for hints and secondary text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// PanelStyle wraps a block of output.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// IssueTypeStyle returns a color-coded style for a Jira issue type name.
func IssueTypeStyle(issueType string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch issueType {
	case "Bug":
		return base.Foreground(ColorRed)
	case "Story":
		return base.Foreground(ColorGreen)
	case "Epic":
		return base.Foreground(ColorMagenta)
	case "Task", "Sub-task", "Subtask":
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorYellow)
	}
}
