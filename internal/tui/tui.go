// Package tui implements the terminal renderer for nekotray: the foreground
// daemon's notification bridge and the `nekotray watch` viewer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nekotray/nekotray/internal/api"
	"github.com/nekotray/nekotray/internal/daemon/animator"
	"github.com/nekotray/nekotray/internal/daemon/hub"
	"github.com/nekotray/nekotray/internal/daemon/mailbox"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (r *programRef) Quit() {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Engine is the local engine as seen by the foreground bridge.
type Engine interface {
	Ticks() *mailbox.Mailbox[animator.Tick]
	Hub() *hub.Hub
	SetTheme(animator.Theme) error
}

// Bridge renders a local engine in the terminal. It is the engine's Notifier:
// each Notify queues one wake-up, and a forwarding goroutine turns it into a
// wake message so the animator never waits on the renderer.
type Bridge struct {
	ref    *programRef
	model  *Model
	signal *mailbox.Signal
}

// NewBridge creates the foreground bridge for e.
func NewBridge(e Engine, title string) *Bridge {
	return &Bridge{
		ref:    &programRef{},
		model:  NewModel(title, e, e.Ticks(), e.Hub().Latest),
		signal: mailbox.NewSignal(),
	}
}

// Notify queues one wake-up. Wake-ups queued before the program starts are
// forwarded once it runs.
func (b *Bridge) Notify() {
	b.signal.Notify()
}

// Run blocks until the user quits or ctx is done.
func (b *Bridge) Run(ctx context.Context, opts ...tea.ProgramOption) error {
	fwdCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer b.signal.Close()

	forward := func() {
		for {
			if _, err := b.signal.Mailbox().Recv(fwdCtx); err != nil {
				return
			}
			b.ref.Send(wakeMsg{})
		}
	}

	return run(ctx, b.ref, b.model, func() { go forward() }, opts...)
}

// StatusStream is the client side of the daemon's Watch stream.
type StatusStream interface {
	Recv() (*api.Status, error)
}

// Watch renders a remote daemon from its status stream until the user quits,
// ctx is done, or the stream ends.
func Watch(ctx context.Context, title string, stream StatusStream, client *api.ControlClient, opts ...tea.ProgramOption) error {
	ref := &programRef{}
	model := NewModel(title, remoteController{ctx: ctx, client: client}, nil, nil)
	model.remote = true

	forward := func() {
		for {
			st, err := stream.Recv()
			if err != nil {
				ref.Send(streamEndedMsg{err: err})
				return
			}
			ref.Send(statusMsg{status: st})
		}
	}

	return run(ctx, ref, model, func() { go forward() }, opts...)
}

// run starts the program. started is called once goroutine sends can reach it.
func run(ctx context.Context, ref *programRef, model *Model, started func(), opts ...tea.ProgramOption) error {
	defer model.zones.Close()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, opts...)
	p := tea.NewProgram(model, opts...)

	// Store program reference for goroutine sends
	ref.Set(p)
	defer ref.Clear()
	if started != nil {
		started()
	}

	stop := context.AfterFunc(ctx, ref.Quit)
	defer stop()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	if m, ok := final.(*Model); ok && m.streamErr != nil && !errors.Is(m.streamErr, io.EOF) {
		log.Printf("[tui] Status stream ended: %v", m.streamErr)
	}
	return nil
}

// remoteController sends theme commands over the control API.
type remoteController struct {
	ctx    context.Context
	client *api.ControlClient
}

func (r remoteController) SetTheme(t animator.Theme) error {
	if r.client == nil {
		return errors.New("not connected to daemon")
	}
	return r.client.SetTheme(r.ctx, t.Command())
}
