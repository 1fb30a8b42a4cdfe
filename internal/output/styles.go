package output

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("86")
	ColorMuted   = lipgloss.Color("241")
	ColorSuccess = lipgloss.Color("42")
	ColorDanger  = lipgloss.Color("196")
	ColorBorder  = lipgloss.Color("238")

	TitleStyle       = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SectionStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	MutedStyle       = lipgloss.NewStyle().Foreground(ColorMuted)
	WarningStyle     = lipgloss.NewStyle().Foreground(ColorDanger)
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(0, 1)
	TableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	TableNumberStyle = TableCellStyle.Align(lipgloss.Right)
	HighlightStyle   = TableNumberStyle.Foreground(ColorSuccess).Bold(true)
)
