package tui

import "github.com/charmbracelet/lipgloss"

const rosterWidth = 28

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("48"))

	hintStyle = lipgloss.NewStyle().
			Faint(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("30")).
			Padding(0, 1)

	senderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("79"))

	avatarStyle = lipgloss.NewStyle().
			Faint(true).
			Italic(true)

	imageStyle = lipgloss.NewStyle().
			Underline(true).
			Foreground(lipgloss.Color("87"))
)
