// Package engine wires the CPU sampler, the animator and the status hub
// together and runs them as one unit.
package engine

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/nekotray/nekotray/internal/daemon/animator"
	"github.com/nekotray/nekotray/internal/daemon/hub"
	"github.com/nekotray/nekotray/internal/daemon/mailbox"
	"github.com/nekotray/nekotray/internal/daemon/sampler"
)

// Engine owns the message mailboxes between the background loops and the UI.
type Engine struct {
	usage    *mailbox.Mailbox[float64]
	commands *mailbox.Mailbox[int]
	ticks    *mailbox.Mailbox[animator.Tick]
	hub      *hub.Hub
	meter    sampler.Meter
	opts     []animator.Option
}

// Option configures an Engine.
type Option func(*Engine)

// WithMeter replaces the CPU meter.
func WithMeter(m sampler.Meter) Option {
	return func(e *Engine) {
		e.meter = m
	}
}

// WithAnimatorOptions passes options through to the animator.
func WithAnimatorOptions(opts ...animator.Option) Option {
	return func(e *Engine) {
		e.opts = append(e.opts, opts...)
	}
}

// New creates an engine using the platform CPU meter.
func New(opts ...Option) *Engine {
	e := &Engine{
		usage:    mailbox.New[float64](),
		commands: mailbox.New[int](),
		ticks:    mailbox.New[animator.Tick](),
		hub:      hub.New(),
		meter:    sampler.NewCPUMeter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ticks is the mailbox a UI bridge drains after each wake-up.
func (e *Engine) Ticks() *mailbox.Mailbox[animator.Tick] {
	return e.ticks
}

// Hub returns the status hub fed by the animator.
func (e *Engine) Hub() *hub.Hub {
	return e.hub
}

// SendCommand queues a raw theme command.
func (e *Engine) SendCommand(cmd int) error {
	if err := e.commands.Send(cmd); err != nil {
		return fmt.Errorf("failed to queue theme command: %w", err)
	}
	return nil
}

// SetTheme queues the command selecting t.
func (e *Engine) SetTheme(t animator.Theme) error {
	return e.SendCommand(t.Command())
}

// Run starts the sampler and the animator and blocks until both have
// stopped. Cancelling ctx, closing the engine, or a hard failure in either
// loop stops both.
func (e *Engine) Run(ctx context.Context, notifier mailbox.Notifier) error {
	g, gCtx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gCtx)
	defer cancel()

	s := sampler.New(e.meter, e.usage)
	opts := append([]animator.Option{animator.WithObserver(e.hub)}, e.opts...)
	a := animator.New(e.usage, e.commands, e.ticks, notifier, opts...)

	g.Go(func() error {
		defer cancel()
		if err := s.Run(runCtx); err != nil {
			return fmt.Errorf("sampler: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		if err := a.Run(runCtx); err != nil {
			return fmt.Errorf("animator: %w", err)
		}
		return nil
	})

	// A loop that stops on its own takes the other one down with it.
	g.Go(func() error {
		<-runCtx.Done()
		e.Close()
		return nil
	})

	log.Println("[engine] Sampler and animator started")
	err := g.Wait()
	log.Println("[engine] Sampler and animator stopped")
	return err
}

// Close closes all mailboxes and the hub. The loops treat closed mailboxes as
// a shutdown signal.
func (e *Engine) Close() {
	e.usage.Close()
	e.commands.Close()
	e.ticks.Close()
	e.hub.Close()
}
