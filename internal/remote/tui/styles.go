package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/fireremote/internal/version"
)

// Application branding constants
const (
	AppName       = "FIREREMOTE"
	GitHubURL     = "github.com/muurk/fireremote"
	GitHubFullURL = "https://github.com/muurk/fireremote"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants
const (
	MinTerminalWidth = 60 // Minimum supported terminal width
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#FF9900") // Amber
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	BorderColor    = lipgloss.Color("#FF9900") // Amber (same as primary)
	HighlightColor = lipgloss.Color("#43BF6D") // Green
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(1, 0)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	SelectedListItemStyle = lipgloss.NewStyle().
				PaddingLeft(0).
				Foreground(HighlightColor).
				Bold(true)

	// Remote button styles for the on-screen key grid
	ButtonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 2)

	PressedButtonStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(HighlightColor).
				Foreground(HighlightColor).
				Bold(true).
				Padding(0, 2)

	InfoBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderError renders an error message
func RenderError(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

// RenderSuccess renders a success message
func RenderSuccess(text string) string {
	return SuccessStyle.Render("✓ " + text)
}

// RenderListItem renders a device list entry with selection indicator
func RenderListItem(text string, selected bool) string {
	if selected {
		return SelectedListItemStyle.Render("→ " + text)
	}
	return ListItemStyle.Render("  " + text)
}

// BuildHeaderContent creates header content with app name and GitHub URL
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// RenderApplicationContainer wraps a screen's content in the shared
// full-screen frame: header with app name and version, the content area,
// and a context-sensitive footer pinned to the bottom. Every screen's
// View() goes through here.
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth - 4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth - 4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent()),
		contentStyle.Render(content),
		footerStyle.Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		bordered,
	)
}
