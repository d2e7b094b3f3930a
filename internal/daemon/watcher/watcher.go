// Package watcher handles file system watching for the daemon.
package watcher

import (
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nekotray/nekotray/internal/config"
)

// EventType represents the type of file system event.
type EventType int

// Event types for file system changes.
const (
	EventSettingsChanged EventType = iota
	EventIconsChanged
)

func (t EventType) String() string {
	switch t {
	case EventSettingsChanged:
		return "settings"
	case EventIconsChanged:
		return "icons"
	default:
		return "unknown"
	}
}

// DebounceInterval is how long a path must stay quiet before its event fires.
const DebounceInterval = 100 * time.Millisecond

// Event represents a file system change event.
type Event struct {
	Type EventType
	Path string
}

// Watcher watches settings.yaml and the active icon pack directory.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	globalDir  string
	iconDir    string
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// New creates a new file system watcher.
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 16),
		done:       make(chan struct{}),
		debounce:   make(map[string]*time.Timer),
	}

	return w, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start watches the global directory and begins processing events.
func (w *Watcher) Start() error {
	globalDir, err := config.GlobalDir()
	if err != nil {
		return err
	}
	if err := config.EnsureGlobalDir(); err != nil {
		return err
	}
	if err := w.fsWatcher.Add(globalDir); err != nil {
		log.Printf("[watcher] Warning: failed to watch global dir: %v", err)
	}

	w.mu.Lock()
	w.globalDir = globalDir
	w.mu.Unlock()

	go w.processEvents()

	return nil
}

// Stop stops the watcher and cancels pending debounced events.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

// WatchIconDir switches the watched icon pack directory. An empty dir stops
// watching icons.
func (w *Watcher) WatchIconDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir != "" {
		dir = filepath.Clean(dir)
	}
	if dir == w.iconDir {
		return nil
	}
	if w.iconDir != "" {
		_ = w.fsWatcher.Remove(w.iconDir)
	}
	w.iconDir = ""

	if dir == "" {
		return nil
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return err
	}
	w.iconDir = dir
	log.Printf("[watcher] Watching icon pack %s", dir)
	return nil
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] Watcher error: %v", err)
		}
	}
}

// handleEvent filters and debounces a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Rename is included: SaveYAML and most editors write a temp file and
	// rename it over the target.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	ev, ok := w.classify(event.Name)
	if !ok {
		return
	}

	// Every frame of a pack maps to one key so a bulk copy fires once.
	key := ev.Path
	if ev.Type == EventIconsChanged {
		key = "icons:" + filepath.Dir(ev.Path)
	}
	w.debounceEvent(key, func() {
		select {
		case w.eventsChan <- ev:
		case <-w.done:
		}
	})
}

// classify maps a path to the event it triggers.
func (w *Watcher) classify(path string) (Event, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	dir := filepath.Dir(path)
	name := filepath.Base(path)

	if dir == w.globalDir && name == config.SettingsFileName {
		return Event{Type: EventSettingsChanged, Path: path}, true
	}
	if w.iconDir != "" && dir == w.iconDir && strings.EqualFold(filepath.Ext(name), ".png") {
		return Event{Type: EventIconsChanged, Path: path}, true
	}
	return Event{}, false
}

// debounceEvent debounces events for the same key.
func (w *Watcher) debounceEvent(key string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[key]; ok {
		timer.Stop()
	}

	w.debounce[key] = time.AfterFunc(DebounceInterval, func() {
		w.debounceMu.Lock()
		delete(w.debounce, key)
		w.debounceMu.Unlock()
		fn()
	})
}
