package hub

import (
	"errors"
	"testing"
	"time"

	"github.com/nekotray/nekotray/internal/daemon/animator"
)

func frame(i int) animator.Frame {
	return animator.Frame{
		Tick:  animator.Tick{Frame: i % animator.Frames, Theme: animator.ThemeLight},
		Usage: float64(i),
		Delay: animator.Delay(float64(i)),
	}
}

func TestHubLatest(t *testing.T) {
	h := New()
	if _, ok := h.Latest(); ok {
		t.Fatal("Latest() ok before any frame")
	}

	h.Observe(frame(1))
	h.Observe(frame(2))

	snap, ok := h.Latest()
	if !ok {
		t.Fatal("Latest() not ok after frames")
	}
	if snap.Ticks != 2 {
		t.Errorf("Ticks = %d, want 2", snap.Ticks)
	}
	if snap.Frame.Usage != 2 {
		t.Errorf("Usage = %v, want 2", snap.Frame.Usage)
	}
	if snap.Frame.Delay != 200*time.Millisecond {
		t.Errorf("Delay = %v, want 200ms", snap.Frame.Delay)
	}
}

func TestHubFanOutAndDrops(t *testing.T) {
	h := New()
	fast, err := h.Subscribe("fast", 10)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if _, err := h.Subscribe("slow", 1); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if _, err := h.Subscribe("fast", 1); !errors.Is(err, ErrSubscriberExists) {
		t.Errorf("duplicate Subscribe() error = %v, want ErrSubscriberExists", err)
	}

	for i := 0; i < 3; i++ {
		h.Observe(frame(i))
	}

	if got := len(fast); got != 3 {
		t.Errorf("fast buffered %d frames, want 3", got)
	}
	stats, err := h.Stats("slow")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Sent != 1 || stats.Dropped != 2 {
		t.Errorf("slow stats = %+v, want Sent 1 Dropped 2", stats)
	}
}

func TestHubUnsubscribeAndClose(t *testing.T) {
	h := New()
	ch, _ := h.Subscribe("a", 1)
	if err := h.Unsubscribe("a"); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if _, ok := <-ch; ok {
		t.Error("channel open after Unsubscribe")
	}
	if err := h.Unsubscribe("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Unsubscribe() error = %v, want ErrNotFound", err)
	}

	ch, _ = h.Subscribe("b", 1)
	h.Close()
	h.Close()
	if _, ok := <-ch; ok {
		t.Error("channel open after Close")
	}
	if _, err := h.Subscribe("c", 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Subscribe after Close error = %v, want ErrClosed", err)
	}

	// Frames after Close are ignored without panicking.
	h.Observe(frame(9))
}
