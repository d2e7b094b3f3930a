package animator

import (
	"context"
	"testing"
	"time"

	"github.com/nekotray/nekotray/internal/daemon/mailbox"
)

// fakeSleep records requested delays and stops the loop after n sleeps.
type fakeSleep struct {
	n      int
	delays []time.Duration
	hook   func(call int)
}

func (f *fakeSleep) sleep(ctx context.Context, d time.Duration) error {
	if len(f.delays) >= f.n {
		return context.Canceled
	}
	f.delays = append(f.delays, d)
	if f.hook != nil {
		f.hook(len(f.delays))
	}
	return nil
}

type recorder struct {
	frames []Frame
}

func (r *recorder) Observe(f Frame) {
	r.frames = append(r.frames, f)
}

type harness struct {
	usage    *mailbox.Mailbox[float64]
	commands *mailbox.Mailbox[int]
	ticks    *mailbox.Mailbox[Tick]
	wakes    int
}

func newHarness() *harness {
	return &harness{
		usage:    mailbox.New[float64](),
		commands: mailbox.New[int](),
		ticks:    mailbox.New[Tick](),
	}
}

func (h *harness) run(t *testing.T, sleep *fakeSleep, opts ...Option) []Tick {
	t.Helper()

	opts = append(opts, WithSleep(sleep.sleep))
	a := New(h.usage, h.commands, h.ticks, mailbox.NotifyFunc(func() { h.wakes++ }), opts...)
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var ticks []Tick
	for {
		tick, ok := h.ticks.TryRecv()
		if !ok {
			break
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

func TestRunFramesAndWakes(t *testing.T) {
	h := newHarness()
	ticks := h.run(t, &fakeSleep{n: 12})

	if len(ticks) != 12 {
		t.Fatalf("delivered %d ticks, want 12", len(ticks))
	}
	if h.wakes != len(ticks) {
		t.Errorf("wakes = %d, want one per tick (%d)", h.wakes, len(ticks))
	}
	for i, tick := range ticks {
		if tick.Frame != i%Frames {
			t.Errorf("tick %d frame = %d, want %d", i, tick.Frame, i%Frames)
		}
		if tick.Theme != ThemeLight {
			t.Errorf("tick %d theme = %v, want light", i, tick.Theme)
		}
	}
}

func TestRunFallbackDelay(t *testing.T) {
	h := newHarness()
	sleep := &fakeSleep{n: 3}
	h.run(t, sleep)

	for i, d := range sleep.delays {
		if d != 200*time.Millisecond {
			t.Errorf("delay %d = %v, want 200ms before any sample", i, d)
		}
	}
}

func TestRunConsumesOneSamplePerIteration(t *testing.T) {
	h := newHarness()
	_ = h.usage.Send(100)
	_ = h.usage.Send(50)

	sleep := &fakeSleep{n: 4}
	h.run(t, sleep)

	want := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		20 * time.Millisecond,
		20 * time.Millisecond,
	}
	for i := range want {
		if sleep.delays[i] != want[i] {
			t.Errorf("delay %d = %v, want %v", i, sleep.delays[i], want[i])
		}
	}
}

func TestRunThemeCommandsAppliedInOrder(t *testing.T) {
	h := newHarness()
	sleep := &fakeSleep{n: 6}
	sleep.hook = func(call int) {
		// Two commands arrive between the second and third tick.
		if call == 2 {
			_ = h.commands.Send(CommandDark)
			_ = h.commands.Send(CommandLight)
		}
	}

	ticks := h.run(t, sleep)

	want := []Theme{ThemeLight, ThemeLight, ThemeDark, ThemeLight, ThemeLight, ThemeLight}
	if len(ticks) != len(want) {
		t.Fatalf("delivered %d ticks, want %d", len(ticks), len(want))
	}
	for i := range want {
		if ticks[i].Theme != want[i] {
			t.Errorf("tick %d theme = %v, want %v", i, ticks[i].Theme, want[i])
		}
	}
}

func TestRunStopsWhenTickMailboxClosed(t *testing.T) {
	h := newHarness()
	h.ticks.Close()

	sleep := &fakeSleep{n: 100}
	ticks := h.run(t, sleep)

	if len(ticks) != 0 {
		t.Errorf("delivered %d ticks to closed mailbox", len(ticks))
	}
	if len(sleep.delays) != 1 {
		t.Errorf("loop ran %d iterations, want 1", len(sleep.delays))
	}
	if h.wakes != 0 {
		t.Errorf("wakes = %d, want 0", h.wakes)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness()
	a := New(h.usage, h.commands, h.ticks, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunObserver(t *testing.T) {
	h := newHarness()
	_ = h.usage.Send(25)

	rec := &recorder{}
	h.run(t, &fakeSleep{n: 2}, WithObserver(rec))

	if len(rec.frames) != 2 {
		t.Fatalf("observed %d frames, want 2", len(rec.frames))
	}
	f := rec.frames[0]
	if f.Usage != 25 || f.Delay != 40*time.Millisecond || f.Tick.Frame != 0 {
		t.Errorf("first frame = %+v, want usage 25, delay 40ms, frame 0", f)
	}
}
