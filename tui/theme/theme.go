// Package theme provides the lipgloss styles used by command-line output.
package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// --- Kanagawa palette (adaptive light/dark) ---
const (
	kanagawaDarkGreen     = "#98BB6C"
	kanagawaDarkYellow    = "#FF9E3B"
	kanagawaDarkRed       = "#FF5D62"
	kanagawaDarkCyan      = "#7E9CD8"
	kanagawaDarkLightText = "#DCD7BA"
	kanagawaDarkMutedText = "#727169"

	kanagawaLightGreen     = "#4E7C5A"
	kanagawaLightYellow    = "#A68A64"
	kanagawaLightRed       = "#C34043"
	kanagawaLightCyan      = "#5B8BBE"
	kanagawaLightLightText = "#2B2F42"
	kanagawaLightMutedText = "#6C7086"
)

// --- Terminal (ANSI-friendly) palette ---
const (
	terminalGreen     = "2"
	terminalYellow    = "3"
	terminalRed       = "1"
	terminalCyan      = "6"
	terminalLightText = "7"
	terminalMutedText = "8"
)

// Colors is the palette a theme is built from.
type Colors struct {
	Green     lipgloss.TerminalColor
	Yellow    lipgloss.TerminalColor
	Red       lipgloss.TerminalColor
	Cyan      lipgloss.TerminalColor
	LightText lipgloss.TerminalColor
	MutedText lipgloss.TerminalColor
}

// Theme holds the rendered styles.
type Theme struct {
	Name string

	Header      lipgloss.Style
	TableHeader lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Muted       lipgloss.Style
	Accent      lipgloss.Style
}

// DefaultTheme is selected by CLUEITEMS_THEME ("kanagawa" or "terminal").
var DefaultTheme = NewThemeWithName(os.Getenv("CLUEITEMS_THEME"))

// NewThemeWithName builds a theme; unknown names fall back to kanagawa.
func NewThemeWithName(name string) *Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "terminal":
		return newThemeFromColors(Colors{
			Green:     lipgloss.Color(terminalGreen),
			Yellow:    lipgloss.Color(terminalYellow),
			Red:       lipgloss.Color(terminalRed),
			Cyan:      lipgloss.Color(terminalCyan),
			LightText: lipgloss.Color(terminalLightText),
			MutedText: lipgloss.Color(terminalMutedText),
		}, "terminal")
	default:
		return newThemeFromColors(Colors{
			Green:     lipgloss.AdaptiveColor{Light: kanagawaLightGreen, Dark: kanagawaDarkGreen},
			Yellow:    lipgloss.AdaptiveColor{Light: kanagawaLightYellow, Dark: kanagawaDarkYellow},
			Red:       lipgloss.AdaptiveColor{Light: kanagawaLightRed, Dark: kanagawaDarkRed},
			Cyan:      lipgloss.AdaptiveColor{Light: kanagawaLightCyan, Dark: kanagawaDarkCyan},
			LightText: lipgloss.AdaptiveColor{Light: kanagawaLightLightText, Dark: kanagawaDarkLightText},
			MutedText: lipgloss.AdaptiveColor{Light: kanagawaLightMutedText, Dark: kanagawaDarkMutedText},
		}, "kanagawa")
	}
}

func newThemeFromColors(colors Colors, name string) *Theme {
	return &Theme{
		Name:        name,
		Header:      lipgloss.NewStyle().Bold(true).Foreground(colors.Cyan),
		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(colors.LightText).Underline(true),
		Success:     lipgloss.NewStyle().Foreground(colors.Green),
		Warning:     lipgloss.NewStyle().Foreground(colors.Yellow),
		Error:       lipgloss.NewStyle().Foreground(colors.Red),
		Muted:       lipgloss.NewStyle().Foreground(colors.MutedText),
		Accent:      lipgloss.NewStyle().Foreground(colors.Cyan),
	}
}

// RenderHeader renders a section header.
func RenderHeader(title string) string {
	return DefaultTheme.Header.Render(title)
}

// RenderStatus colours a progress status name: owned, missing or unknown.
func RenderStatus(status string) string {
	switch status {
	case "owned", "filled", "built":
		return DefaultTheme.Success.Render(status)
	case "missing", "empty":
		return DefaultTheme.Error.Render(status)
	default:
		return DefaultTheme.Muted.Render(status)
	}
}
