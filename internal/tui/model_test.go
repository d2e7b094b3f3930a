package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/nekotray/nekotray/internal/api"
	"github.com/nekotray/nekotray/internal/daemon/animator"
	"github.com/nekotray/nekotray/internal/daemon/hub"
	"github.com/nekotray/nekotray/internal/daemon/mailbox"
	"github.com/nekotray/nekotray/internal/icons"
)

type fakeController struct {
	mu     sync.Mutex
	themes []animator.Theme
	err    error
}

func (f *fakeController) SetTheme(t animator.Theme) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.themes = append(f.themes, t)
	return f.err
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newLocalModel(t *testing.T) (*Model, *mailbox.Mailbox[animator.Tick], *hub.Hub, *fakeController) {
	t.Helper()
	ticks := mailbox.New[animator.Tick]()
	h := hub.New()
	ctrl := &fakeController{}
	m := NewModel("nekotray", ctrl, ticks, h.Latest)
	t.Cleanup(m.zones.Close)
	return m, ticks, h, ctrl
}

func TestWakeDrainsTicks(t *testing.T) {
	m, ticks, h, _ := newLocalModel(t)

	for i := 0; i < 3; i++ {
		tick := animator.Tick{Frame: i, Theme: animator.ThemeDark}
		_ = ticks.Send(tick)
		h.Observe(animator.Frame{Tick: tick, Usage: 42, Delay: animator.Delay(42)})
	}
	m.Update(wakeMsg{})

	if m.tick.Frame != 2 || m.theme != animator.ThemeDark {
		t.Errorf("tick = %+v theme = %v, want frame 2 dark", m.tick, m.theme)
	}
	if m.usage != 42 || m.delay != animator.Delay(42) || m.count != 3 {
		t.Errorf("usage/delay/count = %v/%v/%d", m.usage, m.delay, m.count)
	}
	if ticks.Len() != 0 {
		t.Errorf("ticks left = %d, want 0", ticks.Len())
	}
}

func TestThemeKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want []animator.Theme
	}{
		{"toggle", []tea.KeyMsg{runeKey('t')}, []animator.Theme{animator.ThemeDark}},
		{"toggle twice", []tea.KeyMsg{runeKey('t'), runeKey('t')}, []animator.Theme{animator.ThemeDark, animator.ThemeLight}},
		{"explicit", []tea.KeyMsg{runeKey('d'), runeKey('l')}, []animator.Theme{animator.ThemeDark, animator.ThemeLight}},
		{"dark is idempotent", []tea.KeyMsg{runeKey('d'), runeKey('d')}, []animator.Theme{animator.ThemeDark, animator.ThemeDark}},
		{"unbound", []tea.KeyMsg{runeKey('x')}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _, ctrl := newLocalModel(t)
			for _, k := range tt.keys {
				_, cmd := m.Update(k)
				if cmd != nil {
					if msg := cmd(); msg != nil {
						m.Update(msg)
					}
				}
			}

			if len(ctrl.themes) != len(tt.want) {
				t.Fatalf("themes sent = %v, want %v", ctrl.themes, tt.want)
			}
			for i := range tt.want {
				if ctrl.themes[i] != tt.want[i] {
					t.Errorf("themes[%d] = %v, want %v", i, ctrl.themes[i], tt.want[i])
				}
			}
		})
	}
}

func TestThemeCommandError(t *testing.T) {
	m, _, _, ctrl := newLocalModel(t)
	ctrl.err = errors.New("daemon gone")

	_, cmd := m.Update(runeKey('d'))
	m.Update(cmd())

	if m.err == nil {
		t.Fatal("err = nil, want command failure")
	}
	m.width = 60
	if view := m.View(); !strings.Contains(view, "daemon gone") {
		t.Errorf("view does not show the error:\n%s", view)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyCtrlC}} {
		m, _, _, _ := newLocalModel(t)
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%q: cmd = nil, want quit", k.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q: cmd() is not tea.QuitMsg", k.String())
		}
	}
}

func TestStatusMessages(t *testing.T) {
	m := NewModel("nekotray", nil, nil, nil)
	defer m.zones.Close()
	m.remote = true

	m.Update(statusMsg{status: &api.Status{
		Frame: 4,
		Theme: animator.ThemeDark,
		Usage: 80,
		Delay: animator.Delay(80),
		Ticks: 99,
	}})
	if !m.connected || m.tick.Frame != 4 || !m.theme.IsDark() || m.count != 99 {
		t.Errorf("model after status = %+v", m)
	}

	_, cmd := m.Update(streamEndedMsg{err: errors.New("eof")})
	if m.connected {
		t.Error("connected = true after stream ended")
	}
	if cmd == nil {
		t.Fatal("cmd = nil, want quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("stream end does not quit")
	}
}

func TestViewRendersFrame(t *testing.T) {
	m, ticks, _, _ := newLocalModel(t)
	_ = ticks.Send(animator.Tick{Frame: 3, Theme: animator.ThemeLight})
	m.Update(wakeMsg{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	view := ansi.Strip(m.View())
	for _, line := range icons.ASCIIFrame(3) {
		if !strings.Contains(view, strings.TrimRight(line, " ")) {
			t.Errorf("view missing cat line %q", line)
		}
	}
	for _, want := range []string{"nekotray", "light", "frame 3", "Local"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	for i, line := range strings.Split(view, "\n") {
		if w := ansi.StringWidth(line); w > 80 {
			t.Errorf("line %d width = %d, want <= 80", i, w)
		}
	}
}

func TestStatusBarNarrow(t *testing.T) {
	m, _, _, _ := newLocalModel(t)
	bar := renderStatusBar(m, 20)
	if w := ansi.StringWidth(bar); w > 20 {
		t.Errorf("status bar width = %d, want <= 20", w)
	}
}

func TestBridgeNotifyQueuesWake(t *testing.T) {
	b := &Bridge{ref: &programRef{}, signal: mailbox.NewSignal()}
	b.Notify()
	b.Notify()
	if n := b.signal.Mailbox().Len(); n != 2 {
		t.Errorf("queued wake-ups = %d, want 2", n)
	}

	// No program yet: sends are dropped rather than blocking.
	done := make(chan struct{})
	go func() {
		b.ref.Send(wakeMsg{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked without a program")
	}
}
