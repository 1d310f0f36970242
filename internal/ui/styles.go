package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	quitTextStyle = lipgloss.NewStyle().Margin(1, 0, 2, 4)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	baseStyle     = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)
