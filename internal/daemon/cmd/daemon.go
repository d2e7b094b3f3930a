package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nekotray/nekotray/internal/buildinfo"
	"github.com/nekotray/nekotray/internal/config"
	"github.com/nekotray/nekotray/internal/daemon/engine"
	"github.com/nekotray/nekotray/internal/daemon/mailbox"
	"github.com/nekotray/nekotray/internal/daemon/server"
	"github.com/nekotray/nekotray/internal/daemon/tray"
	"github.com/nekotray/nekotray/internal/daemon/watcher"
	"github.com/nekotray/nekotray/internal/icons"
	"github.com/nekotray/nekotray/internal/models"
	"github.com/nekotray/nekotray/internal/tui"
)

func runDaemon(cmd *cobra.Command, args []string) error {
	log.SetPrefix("[nekotrayd] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure global directory exists
	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if port >= 0 {
		settings.Daemon.Port = port
	}

	// Check if daemon is already running
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon already running on port %d (PID %d)", info.Port, info.PID)
	}

	closeLog, err := setupLogging(settings.Logging.File, foreground)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Printf("Starting nekotrayd %s", buildinfo.String())

	d := newDaemon(settings)
	if foreground {
		log.Println("Running in foreground mode (terminal renderer)")
		return d.runForeground()
	}
	log.Println("Running in background mode (with system tray)")
	d.runWithTray()
	return nil
}

// setupLogging redirects the log package to the configured file. The terminal
// renderer owns the screen, so foreground mode always logs to a file.
func setupLogging(name string, always bool) (func(), error) {
	if name == "" && !always {
		return func() {}, nil
	}
	w, path, err := config.OpenLog(name)
	if err != nil {
		return nil, err
	}
	log.SetOutput(w)
	if !always {
		fmt.Fprintf(os.Stderr, "Logging to %s\n", path)
	}
	return func() {
		log.SetOutput(os.Stderr)
		_ = w.Close()
	}, nil
}

func iconFormatName() string {
	if icons.PlatformFormat() == icons.FormatICO {
		return "ico"
	}
	return "png"
}

// daemon ties the engine, the control API and the settings watcher to one
// notification bridge.
type daemon struct {
	settingsMu sync.Mutex
	settings   *models.Settings

	engine  *engine.Engine
	srv     *server.Server
	watcher *watcher.Watcher
	format  icons.Format

	ctx    context.Context
	cancel context.CancelFunc

	// Bridge hooks; nil when the bridge has no use for them.
	setIcons   func(*icons.Set)
	setTooltip func(string)
}

func newDaemon(settings *models.Settings) *daemon {
	ctx, cancel := context.WithCancel(context.Background())
	return &daemon{
		settings: settings,
		engine:   engine.New(),
		format:   icons.PlatformFormat(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// start brings up the control API, the engine and the watcher. The engine
// wakes notifier once per tick.
func (d *daemon) start(notifier mailbox.Notifier, mode string) error {
	srv, err := server.New(d.settings.Daemon.Host, d.settings.Daemon.Port, d.engine, d.cancel)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	d.srv = srv

	info := models.NewDaemonInfo(d.settings.Daemon.Host, srv.Port(), os.Getpid(), mode)
	if err := config.SaveDaemonInfo(info); err != nil {
		srv.Stop()
		return fmt.Errorf("failed to write daemon info: %w", err)
	}
	srv.SetDaemonInfo(info)

	log.Printf("Daemon started on port %d (PID %d)", srv.Port(), os.Getpid())

	// Serve gRPC in background
	go func() {
		if err := srv.Serve(); err != nil {
			log.Printf("Server error: %v", err)
			d.cancel()
		}
	}()

	go func() {
		if err := d.engine.Run(d.ctx, notifier); err != nil {
			log.Printf("Engine error: %v", err)
		}
		d.cancel()
	}()

	d.startWatcher()

	// Handle OS signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			log.Printf("Received signal %v, shutting down...", sig)
			d.cancel()
		case <-d.ctx.Done():
		}
	}()

	return nil
}

func (d *daemon) startWatcher() {
	w, err := watcher.New()
	if err != nil {
		log.Printf("[watcher] Failed to create watcher: %v", err)
		return
	}
	if err := w.Start(); err != nil {
		log.Printf("[watcher] Failed to start watcher: %v", err)
		w.Stop()
		return
	}
	if dir := d.settings.Appearance.IconDir; dir != "" {
		if err := w.WatchIconDir(dir); err != nil {
			log.Printf("[watcher] Failed to watch icon pack %s: %v", dir, err)
		}
	}
	d.watcher = w

	go func() {
		for {
			select {
			case <-d.ctx.Done():
				return
			case ev := <-w.Events():
				d.handleWatchEvent(ev)
			}
		}
	}()
}

func (d *daemon) handleWatchEvent(ev watcher.Event) {
	switch ev.Type {
	case watcher.EventSettingsChanged:
		d.reloadSettings()
	case watcher.EventIconsChanged:
		d.settingsMu.Lock()
		dir := d.settings.Appearance.IconDir
		d.settingsMu.Unlock()
		d.reloadIcons(dir)
	}
}

func (d *daemon) reloadSettings() {
	next, err := config.LoadSettings()
	if err != nil {
		log.Printf("[watcher] Ignoring unreadable settings: %v", err)
		return
	}

	d.settingsMu.Lock()
	prev := d.settings
	d.settings = next
	d.settingsMu.Unlock()

	if next.Appearance.Tooltip != prev.Appearance.Tooltip && d.setTooltip != nil {
		d.setTooltip(next.Appearance.Tooltip)
	}
	if next.Appearance.IconDir != prev.Appearance.IconDir {
		if d.watcher != nil {
			if err := d.watcher.WatchIconDir(next.Appearance.IconDir); err != nil {
				log.Printf("[watcher] Failed to watch icon pack %s: %v", next.Appearance.IconDir, err)
			}
		}
		d.reloadIcons(next.Appearance.IconDir)
	}
}

// reloadIcons swaps in the pack from dir. A pack that fails to load leaves the
// current icons in place.
func (d *daemon) reloadIcons(dir string) {
	if d.setIcons == nil {
		return
	}
	set, err := icons.Load(dir, d.format)
	if err != nil {
		if errors.Is(err, icons.ErrIncompleteSet) {
			log.Printf("[tray] Icon pack %s is incomplete, keeping current icons: %v", dir, err)
		} else {
			log.Printf("[tray] Failed to load icon pack %s, keeping current icons: %v", dir, err)
		}
		return
	}
	log.Printf("[tray] Loaded icons from %s", set.Source)
	d.setIcons(set)
}

// initialIcons loads the configured pack, falling back to the built-in cat.
func (d *daemon) initialIcons() *icons.Set {
	set, err := icons.Load(d.settings.Appearance.IconDir, d.format)
	if err == nil {
		return set
	}
	log.Printf("[tray] Failed to load icon pack %s, using built-in cat: %v", d.settings.Appearance.IconDir, err)
	set, err = icons.Builtin(d.format)
	if err != nil {
		log.Printf("[tray] Failed to draw built-in icons: %v", err)
		return nil
	}
	return set
}

// stop tears everything down and removes the daemon info file.
func (d *daemon) stop() {
	d.cancel()
	// Closing the engine ends open Watch streams, which GracefulStop waits on.
	d.engine.Close()
	if d.srv != nil {
		d.srv.Stop()
	}
	if d.watcher != nil {
		d.watcher.Stop()
	}
	if err := config.RemoveDaemonInfo(); err != nil {
		log.Printf("Failed to remove daemon info: %v", err)
	}
	log.Println("Daemon stopped")
}

// runForeground draws the cat in the terminal until the user quits, a signal
// arrives, or the control API requests shutdown.
func (d *daemon) runForeground() error {
	bridge := tui.NewBridge(d.engine, "nekotray")
	if err := d.start(bridge, models.ModeForeground); err != nil {
		return err
	}
	defer d.stop()

	if err := bridge.Run(d.ctx); err != nil {
		return err
	}
	fmt.Println("Daemon stopped")
	return nil
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func (d *daemon) runWithTray() {
	dispatcher := tray.NewDispatcher(d.engine.Ticks(), d.initialIcons(), tray.SetIcon)
	dispatcher.OnTheme(tray.ShowTheme)
	d.setIcons = dispatcher.SetIcons
	d.setTooltip = tray.SetTooltip

	onStart := func() {
		if err := d.start(dispatcher, models.ModeTray); err != nil {
			log.Printf("Failed to start daemon: %v", err)
			tray.Quit()
			return
		}

		go func() {
			if err := dispatcher.Run(d.ctx); err != nil {
				log.Printf("[tray] Dispatcher error: %v", err)
			}
		}()

		// Quit tray on signal, engine failure or remote shutdown.
		go func() {
			<-d.ctx.Done()
			tray.Quit()
		}()
	}

	onExit := func() {
		dispatcher.Close()
		d.stop()
		fmt.Println("Daemon stopped")
	}

	// This blocks the main goroutine until tray exits.
	tray.Run(d.engine, dispatcher, d.settings.Appearance.Tooltip, onStart, onExit)
}
