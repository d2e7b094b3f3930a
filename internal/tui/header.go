package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nekotray/nekotray/internal/daemon/animator"
)

func renderHeader(m *Model, width int) string {
	name := lipgloss.NewStyle().Bold(true).Render(m.title)
	left := " " + name

	right := m.zones.Mark(themeZone, renderThemeBadge(m.theme)) + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderThemeBadge(theme animator.Theme) string {
	if theme.IsDark() {
		return badgeDarkStyle.Render("● dark")
	}
	return badgeLightStyle.Render("○ light")
}

func renderStats(m *Model) string {
	return fmt.Sprintf("cpu %5.1f%%  ·  %3dms/frame  ·  frame %d  ·  tick %d",
		m.usage, m.delay.Milliseconds(), m.tick.Frame, m.count)
}
