package animator

import (
	"fmt"
	"strings"
)

// Theme selects which of the two icon sequences is shown.
type Theme int

// Themes.
const (
	ThemeLight Theme = iota
	ThemeDark
)

// Theme commands as carried on the theme-command mailbox. Any non-zero
// command selects the dark theme.
const (
	CommandLight = 0
	CommandDark  = 1
)

// ThemeFromCommand maps a theme command to the theme it selects.
func ThemeFromCommand(cmd int) Theme {
	if cmd == CommandLight {
		return ThemeLight
	}
	return ThemeDark
}

// Command returns the command that selects t.
func (t Theme) Command() int {
	if t == ThemeDark {
		return CommandDark
	}
	return CommandLight
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool {
	return t == ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// ParseTheme parses "light" or "dark" (case-insensitive).
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	default:
		return ThemeLight, fmt.Errorf("unknown theme %q (expected light or dark)", s)
	}
}
