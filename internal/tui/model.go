package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/nekotray/nekotray/internal/daemon/animator"
	"github.com/nekotray/nekotray/internal/daemon/hub"
	"github.com/nekotray/nekotray/internal/daemon/mailbox"
	"github.com/nekotray/nekotray/internal/icons"
)

// themeZone is the clickable theme badge.
const themeZone = "theme"

// Controller sends theme commands.
type Controller interface {
	SetTheme(animator.Theme) error
}

// Model is the main Bubbletea model.
type Model struct {
	title  string
	ctrl   Controller
	ticks  *mailbox.Mailbox[animator.Tick]
	latest func() (hub.Snapshot, bool)
	zones  *zone.Manager

	// Display state
	tick      animator.Tick
	theme     animator.Theme
	usage     float64
	delay     time.Duration
	count     uint64
	remote    bool
	connected bool
	err       error
	streamErr error

	width  int
	height int
}

// NewModel creates a model. ticks and latest are nil when the model is fed by
// status messages instead of a local engine.
func NewModel(title string, ctrl Controller, ticks *mailbox.Mailbox[animator.Tick], latest func() (hub.Snapshot, bool)) *Model {
	initial := animator.NewState()
	return &Model{
		title:     title,
		ctrl:      ctrl,
		ticks:     ticks,
		latest:    latest,
		zones:     zone.New(),
		theme:     initial.Theme,
		usage:     initial.Usage,
		delay:     animator.Delay(initial.Usage),
		connected: ticks != nil,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case wakeMsg:
		m.drainTicks()
		return m, nil

	case statusMsg:
		m.applyStatus(msg)
		return m, nil

	case streamEndedMsg:
		m.connected = false
		m.streamErr = msg.err
		return m, tea.Quit

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

// drainTicks takes every pending tick and shows the newest.
func (m *Model) drainTicks() {
	if m.ticks == nil {
		return
	}
	for {
		t, ok := m.ticks.TryRecv()
		if !ok {
			break
		}
		m.tick = t
		m.theme = t.Theme
		m.count++
	}
	if m.latest != nil {
		if snap, ok := m.latest(); ok {
			m.usage = snap.Frame.Usage
			m.delay = snap.Frame.Delay
			m.count = snap.Ticks
		}
	}
}

func (m *Model) applyStatus(msg statusMsg) {
	st := msg.status
	if st == nil {
		return
	}
	m.connected = true
	m.tick = animator.Tick{Frame: st.Frame, Theme: st.Theme}
	m.theme = st.Theme
	m.usage = st.Usage
	m.delay = st.Delay
	m.count = st.Ticks
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Toggle):
		return m.selectTheme(m.theme.Toggle())
	case key.Matches(msg, keys.Light):
		return m.selectTheme(animator.ThemeLight)
	case key.Matches(msg, keys.Dark):
		return m.selectTheme(animator.ThemeDark)
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if z := m.zones.Get(themeZone); z != nil && z.InBounds(msg) {
		return m.selectTheme(m.theme.Toggle())
	}
	return nil
}

// selectTheme shows t immediately and sends the command. The next tick
// confirms it.
func (m *Model) selectTheme(t animator.Theme) tea.Cmd {
	m.theme = t
	m.err = nil
	ctrl := m.ctrl
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		if err := ctrl.SetTheme(t); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = 40
	}

	header := renderHeader(m, width)
	cat := renderCat(m.tick.Frame, m.theme)
	stats := statsStyle.Render(renderStats(m))
	status := renderStatusBar(m, width)

	body := lipgloss.JoinVertical(lipgloss.Center, cat, "", stats)
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(status)
	if bodyHeight > 0 {
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	} else {
		body = lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
	}

	return m.zones.Scan(strings.Join([]string{header, body, status}, "\n"))
}

func renderCat(frame int, theme animator.Theme) string {
	style := catLightStyle
	if theme.IsDark() {
		style = catDarkStyle
	}
	return style.Render(strings.Join(icons.ASCIIFrame(frame), "\n"))
}
