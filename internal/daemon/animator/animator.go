// Package animator implements the adaptive-rate controller that turns CPU
// usage samples into animation ticks.
//
// The loop owns all of its state (frame index, theme and the cached usage
// sample). Everything else talks to it through mailboxes: usage samples and
// theme commands come in, ticks go out, and every tick is paired with one
// wake-up of the UI bridge.
package animator

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/nekotray/nekotray/internal/daemon/mailbox"
)

// Frame describes one delivered tick together with the inputs that timed it.
type Frame struct {
	Tick  Tick
	Usage float64
	Delay time.Duration
}

// Observer receives a copy of every delivered tick. It must not block.
type Observer interface {
	Observe(Frame)
}

// SleepFunc suspends the loop for d. It returns an error when ctx ends first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures an Animator.
type Option func(*Animator)

// WithObserver registers an observer for delivered ticks.
func WithObserver(o Observer) Option {
	return func(a *Animator) {
		a.observer = o
	}
}

// WithSleep replaces the sleep used between ticks.
func WithSleep(fn SleepFunc) Option {
	return func(a *Animator) {
		a.sleep = fn
	}
}

// Animator is the rate controller loop.
type Animator struct {
	usage    *mailbox.Mailbox[float64]
	commands *mailbox.Mailbox[int]
	ticks    *mailbox.Mailbox[Tick]
	notifier mailbox.Notifier
	observer Observer
	sleep    SleepFunc
	state    State
}

// New creates an animator reading usage samples and theme commands and
// delivering ticks to the given mailbox, waking notifier once per tick.
func New(usage *mailbox.Mailbox[float64], commands *mailbox.Mailbox[int], ticks *mailbox.Mailbox[Tick], notifier mailbox.Notifier, opts ...Option) *Animator {
	a := &Animator{
		usage:    usage,
		commands: commands,
		ticks:    ticks,
		notifier: notifier,
		sleep:    sleepContext,
		state:    NewState(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run loops until ctx is cancelled or the tick mailbox is closed. Both are
// treated as a normal shutdown and return nil.
func (a *Animator) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		var usage *float64
		if u, ok := a.usage.TryRecv(); ok {
			usage = &u
		}
		var cmd *int
		if c, ok := a.commands.TryRecv(); ok {
			cmd = &c
		}

		prev := a.state.Theme
		next, tick, delay := Step(a.state, usage, cmd)
		if next.Theme != prev {
			log.Printf("[animator] Theme changed: %s -> %s", prev, next.Theme)
		}
		a.state = next

		if err := a.sleep(ctx, delay); err != nil {
			return nil
		}

		if err := a.ticks.Send(tick); err != nil {
			if errors.Is(err, mailbox.ErrClosed) {
				log.Println("[animator] Tick mailbox closed, stopping")
				return nil
			}
			return err
		}
		if a.observer != nil {
			a.observer.Observe(Frame{Tick: tick, Usage: a.state.Usage, Delay: delay})
		}
		if a.notifier != nil {
			a.notifier.Notify()
		}
	}
}

// State returns the animator state. It is only safe to call when Run is not
// executing.
func (a *Animator) State() State {
	return a.state
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
