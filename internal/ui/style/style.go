// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)

// Key returns the style of field names in command output, rendered by r.
func Key(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Foreground(Iris).Bold(true)
}

// Status returns the style of a status icon: green for success, red for failure.
func Status(r *lipgloss.Renderer, ok bool) lipgloss.Style {
	if ok {
		return r.NewStyle().Foreground(Green)
	}
	return r.NewStyle().Foreground(Red)
}
