package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle key.Binding
	Light  key.Binding
	Dark   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Toggle: key.NewBinding(
		key.WithKeys("t", " "),
		key.WithHelp("t", "toggle theme"),
	),
	Light: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "light"),
	),
	Dark: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "dark"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// hintBindings are shown in the status bar, in order.
func (k keyMap) hintBindings() []key.Binding {
	return []key.Binding{k.Toggle, k.Light, k.Dark, k.Quit}
}
