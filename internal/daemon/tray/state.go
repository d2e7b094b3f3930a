// Package tray implements the system tray icon and menu for the daemon.
package tray

import (
	"github.com/nekotray/nekotray/internal/daemon/animator"
	"github.com/nekotray/nekotray/internal/daemon/mailbox"
)

// Engine is the part of the daemon the tray drives.
type Engine interface {
	Ticks() *mailbox.Mailbox[animator.Tick]
	SetTheme(animator.Theme) error
}

// MenuState is the check and enable state of the theme submenu.
type MenuState struct {
	LightChecked bool
	LightEnabled bool
	DarkChecked  bool
	DarkEnabled  bool
}

// MenuFor returns the submenu state with t selected: the active entry is
// checked and disabled, the other one unchecked and enabled.
func MenuFor(t animator.Theme) MenuState {
	dark := t.IsDark()
	return MenuState{
		LightChecked: !dark,
		LightEnabled: dark,
		DarkChecked:  dark,
		DarkEnabled:  !dark,
	}
}
