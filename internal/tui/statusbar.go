package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func renderStatusBar(m *Model, width int) string {
	// Error display
	if m.err != nil {
		return renderErrorBar(m.err.Error(), width)
	}

	var hints []string
	for _, b := range keys.hintBindings() {
		h := b.Help()
		hints = append(hints, keyHint(h.Key, h.Desc))
	}
	left := " " + strings.Join(hints, "  ")

	// Connection status
	right := ""
	switch {
	case !m.remote:
		right = lipgloss.NewStyle().Foreground(colorGreen).Render("Local") + " "
	case m.connected:
		right = lipgloss.NewStyle().Foreground(colorGreen).Render("Connected") + " "
	default:
		right = lipgloss.NewStyle().Foreground(colorYellow).Bold(true).Render("⚠ Waiting for daemon") + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Narrow terminal: hints give way to the connection status.
		left = ansi.Truncate(left, max(width-lipgloss.Width(right)-1, 0), "…")
		gap = max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	}

	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func keyHint(k, desc string) string {
	if k == "" {
		return hintStyle.Render(desc)
	}
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(ansi.Truncate(" "+msg, width, "…"))
}
