package tray

import (
	"context"
	"sync"

	"github.com/nekotray/nekotray/internal/daemon/animator"
	"github.com/nekotray/nekotray/internal/daemon/mailbox"
	"github.com/nekotray/nekotray/internal/icons"
)

// Dispatcher turns animator wake-ups into icon updates. It is the tray's
// Notifier: every Notify queues one wake-up, and Run drains the tick mailbox
// once per wake-up on its own goroutine.
type Dispatcher struct {
	signal  *mailbox.Signal
	ticks   *mailbox.Mailbox[animator.Tick]
	setIcon func([]byte)

	mu      sync.Mutex
	icons   *icons.Set
	last    animator.Tick
	hasLast bool

	// The menu starts on the animator's initial theme.
	themeMu sync.Mutex
	onTheme func(animator.Theme)
	shown   animator.Theme
}

// NewDispatcher creates a dispatcher that renders ticks with set and hands
// the bytes to setIcon.
func NewDispatcher(ticks *mailbox.Mailbox[animator.Tick], set *icons.Set, setIcon func([]byte)) *Dispatcher {
	return &Dispatcher{
		signal:  mailbox.NewSignal(),
		ticks:   ticks,
		setIcon: setIcon,
		icons:   set,
	}
}

// Notify queues one wake-up.
func (d *Dispatcher) Notify() {
	d.signal.Notify()
}

// Run handles wake-ups until ctx is done or the dispatcher is closed.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		if _, err := d.signal.Mailbox().Recv(ctx); err != nil {
			// Closed or cancelled: both mean shutdown.
			return nil
		}
		d.drain()
	}
}

// Close stops Run once pending wake-ups are handled.
func (d *Dispatcher) Close() {
	d.signal.Close()
}

// SetIcons swaps the icon set and redraws the current frame with it.
func (d *Dispatcher) SetIcons(set *icons.Set) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.icons = set
	if d.hasLast {
		d.render(d.last)
	}
}

// OnTheme registers fn to run whenever a rendered tick carries a different
// theme than the previous one, whichever side asked for the change.
func (d *Dispatcher) OnTheme(fn func(animator.Theme)) {
	d.themeMu.Lock()
	defer d.themeMu.Unlock()
	d.onTheme = fn
}

// Icon looks up a frame in the current icon set.
func (d *Dispatcher) Icon(theme animator.Theme, frame int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.icons == nil {
		return nil
	}
	return d.icons.Lookup(theme, frame)
}

// Last returns the most recently rendered tick.
func (d *Dispatcher) Last() (animator.Tick, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last, d.hasLast
}

// drain renders the newest pending tick. Older ticks in the same batch are
// already stale.
func (d *Dispatcher) drain() {
	var (
		tick animator.Tick
		got  bool
	)
	for {
		t, ok := d.ticks.TryRecv()
		if !ok {
			break
		}
		tick, got = t, true
	}
	if !got {
		return
	}

	d.mu.Lock()
	d.last = tick
	d.hasLast = true
	d.render(tick)
	d.mu.Unlock()

	d.followTheme(tick.Theme)
}

func (d *Dispatcher) followTheme(t animator.Theme) {
	d.themeMu.Lock()
	defer d.themeMu.Unlock()
	if t == d.shown {
		return
	}
	d.shown = t
	if d.onTheme != nil {
		d.onTheme(t)
	}
}

// render must be called with d.mu held.
func (d *Dispatcher) render(tick animator.Tick) {
	if d.icons == nil || d.setIcon == nil {
		return
	}
	if data := d.icons.Lookup(tick.Theme, tick.Frame); len(data) > 0 {
		d.setIcon(data)
	}
}
