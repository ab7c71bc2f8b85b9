package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals outside this block.
var (
	// ColorCyan is used for identifiable nouns: template names, paths, modes.
	ColorCyan = lipgloss.Color("14")

	// colorGreen marks locally resolved or eagerly loaded items.
	colorGreen = lipgloss.Color("82")

	// ColorYellow marks items fetched from the network or loaded speculatively.
	ColorYellow = lipgloss.Color("220")

	// colorBoldRed marks failures (matches ERROR level).
	colorBoldRed = lipgloss.Color("204")

	// colorGreenCheck is used for the completion checkmark.
	colorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (template names, directories).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (resolving, downloading, unpacking).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (scope prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Status words printed next to resolved templates and classified artifacts.
const (
	StatusLocal    = "local"
	StatusRemote   = "remote"
	StatusCached   = "cached"
	StatusLoad     = "load"
	StatusPrefetch = "prefetch"
	statusFailed   = "failed"
)

// statusStyle returns the lipgloss style for a status word.
// Unknown statuses return an unstyled default.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusLocal, StatusLoad:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case StatusRemote, StatusPrefetch:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusCached:
		return lipgloss.NewStyle().Faint(true)
	case statusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minNameColumnWidth keeps status words aligned across lines.
const minNameColumnWidth = 40

// FormatStatusLine renders "<name>  <status>" with the name in noun style
// and a right-aligned, color-coded status.
func FormatStatusLine(name, status string) string {
	padding := minNameColumnWidth - len(name)
	if padding < 2 {
		padding = 2
	}
	return StyleNoun.Render(name) + strings.Repeat(" ", padding) + statusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatResolved renders the final line of a template resolution.
func FormatResolved(name, dir string) string {
	return FormatCheckmark(fmt.Sprintf("%s %s %s",
		StyleNoun.Render(name), StyleDim.Render("->"), dir))
}
