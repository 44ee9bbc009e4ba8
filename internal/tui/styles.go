package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	subjectStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	accentColor        = lipgloss.Color("#b31b1b")
	emberColor         = lipgloss.Color("#2b0a0a")
	textColor          = lipgloss.Color("#fff4f0")
	secondaryTextColor = lipgloss.Color("#f4a6a6")

	brandStyle        = lipgloss.NewStyle().Bold(true).Foreground(textColor).Background(accentColor).Padding(0, 1)
	navItemStyle      = lipgloss.NewStyle().Foreground(secondaryTextColor).Padding(0, 1)
	navActiveStyle    = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(textColor).Padding(0, 1)
	taglineStyle      = lipgloss.NewStyle().Foreground(secondaryTextColor).Italic(true)
	cardTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e0def4"))
	cardStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	cardSelectedStyle = cardStyle.Copy().BorderForeground(accentColor)
	filterStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	statusBarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	profileBoxStyle   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(accentColor).Padding(1, 2)
	logoFaceStyle     = lipgloss.NewStyle().Bold(true).Foreground(textColor).Background(emberColor)
	logoShadowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#110303"))
	logoArtLines      = []string{
		" █████╗  ██████╗  ██╗  ██╗ ██╗ ██╗   ██╗",
		"██╔══██╗ ██╔══██╗ ╚██╗██╔╝ ██║ ██║   ██║",
		"███████║ ██████╔╝  ╚███╔╝  ██║ ██║   ██║",
		"██╔══██║ ██╔══██╗  ██╔██╗  ██║ ╚██╗ ██╔╝",
		"██║  ██║ ██║  ██║ ██╔╝ ██╗ ██║  ╚████╔╝ ",
		"╚═╝  ╚═╝ ╚═╝  ╚═╝ ╚═╝  ╚═╝ ╚═╝   ╚═══╝  ",
	}
)
