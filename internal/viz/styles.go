package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

func themed(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func headerStyle() lipgloss.Style {
	return themed(CurrentTheme.Accent).Bold(true).MarginBottom(1)
}

func statusStyle(err bool, running bool) lipgloss.Style {
	switch {
	case err:
		return themed(CurrentTheme.Error).Bold(true)
	case running:
		return themed(CurrentTheme.Success).Bold(true)
	default:
		return themed(CurrentTheme.Warning).Bold(true)
	}
}

// ProgressBar renders a fill bar for percent in [0, 1].
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if percent >= 1 {
		return themed(CurrentTheme.Success).Render(bar)
	}
	return themed(CurrentTheme.Fluid).Render(bar)
}

// Separator renders a decorative horizontal rule.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", mid-2)
	right := strings.Repeat("─", width-mid-2)
	return themed(CurrentTheme.Muted).Render(left + " ◆ " + right)
}
