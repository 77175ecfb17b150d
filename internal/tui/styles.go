package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	blurredStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	focusedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	categoryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	formStyle      = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	activeTab      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("205")).Padding(0, 1)
	inactiveTab    = lipgloss.NewStyle().Foreground(lipgloss.Color("254")).Background(lipgloss.Color("240")).Padding(0, 1)
)

func errorMessageStyle(msg string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(msg)
}
