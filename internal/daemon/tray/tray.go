package tray

import (
	"log"
	"sync"

	"github.com/getlantern/systray"

	"github.com/nekotray/nekotray/internal/daemon/animator"
)

var (
	engine     Engine
	dispatcher *Dispatcher
	tooltip    string
	onStart    func()
	onExit     func()

	// menuMu guards the theme items, which both the click loop and the
	// dispatcher update.
	menuMu    sync.Mutex
	lightItem *systray.MenuItem
	darkItem  *systray.MenuItem
	exitItem  *systray.MenuItem
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (start the engine here).
// onExitFn is called when the tray exits (cleanup here).
func Run(e Engine, d *Dispatcher, tip string, onStartFn, onExitFn func()) {
	engine = e
	dispatcher = d
	tooltip = tip
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

// SetIcon shows raw icon bytes. Pass it to NewDispatcher.
func SetIcon(data []byte) {
	systray.SetIcon(data)
}

// SetTooltip updates the hover text.
func SetTooltip(tip string) {
	systray.SetTooltip(tip)
}

func onReady() {
	if dispatcher != nil {
		if data := dispatcher.Icon(animator.ThemeLight, 0); len(data) > 0 {
			systray.SetIcon(data)
		}
	}
	systray.SetTooltip(tooltip)

	header := systray.AddMenuItem("nekotray", "")
	header.Disable()

	systray.AddSeparator()

	themeMenu := systray.AddMenuItem("Theme", "")
	dark := themeMenu.AddSubMenuItemCheckbox("dark", "Dark taskbar", false)
	light := themeMenu.AddSubMenuItemCheckbox("light", "Light taskbar", false)
	menuMu.Lock()
	darkItem, lightItem = dark, light
	applyMenu(MenuFor(animator.ThemeLight))
	menuMu.Unlock()

	exitItem = systray.AddMenuItem("Exit", "Quit nekotray")

	if onStart != nil {
		onStart()
	}

	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-lightItem.ClickedCh:
			selectTheme(animator.ThemeLight)
		case <-darkItem.ClickedCh:
			selectTheme(animator.ThemeDark)
		case <-exitItem.ClickedCh:
			log.Println("[tray] Exit selected")
			if dispatcher != nil {
				dispatcher.Close()
			}
			systray.Quit()
			return
		}
	}
}

// ShowTheme moves the theme menu to t. It is a no-op until the tray is ready.
func ShowTheme(t animator.Theme) {
	menuMu.Lock()
	defer menuMu.Unlock()
	if lightItem == nil || darkItem == nil {
		return
	}
	applyMenu(MenuFor(t))
}

func selectTheme(t animator.Theme) {
	if engine == nil {
		return
	}
	if err := engine.SetTheme(t); err != nil {
		log.Printf("[tray] Failed to select %s theme: %v", t, err)
		return
	}
	ShowTheme(t)
}

func applyMenu(m MenuState) {
	setItem(lightItem, m.LightChecked, m.LightEnabled)
	setItem(darkItem, m.DarkChecked, m.DarkEnabled)
}

func setItem(item *systray.MenuItem, checked, enabled bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}
