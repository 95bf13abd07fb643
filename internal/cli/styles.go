package cli

import "github.com/charmbracelet/lipgloss"

var (
	IncomeColor  = lipgloss.Color("#4ECDC4")
	ExpenseColor = lipgloss.Color("#FF6B6B")
	SubtleColor  = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFE66D"))

	HeaderStyle = lipgloss.NewStyle().Bold(true)

	IncomeStyle  = lipgloss.NewStyle().Foreground(IncomeColor)
	ExpenseStyle = lipgloss.NewStyle().Foreground(ExpenseColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(IncomeColor)
)

// FormatTitle renders a section title.
func FormatTitle(s string) string {
	return TitleStyle.Render(s)
}

// FormatAmount colors an amount by sign: negative balances render as
// expenses.
func FormatAmount(s string, negative bool) string {
	if negative {
		return ExpenseStyle.Render(s)
	}
	return IncomeStyle.Render(s)
}
