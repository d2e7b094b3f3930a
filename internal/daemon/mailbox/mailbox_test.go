package mailbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMailboxOrder(t *testing.T) {
	m := New[int]()
	for i := 0; i < 5; i++ {
		if err := m.Send(i); err != nil {
			t.Fatalf("Send(%d) error = %v", i, err)
		}
	}
	if got := m.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}

	for want := 0; want < 5; want++ {
		got, ok := m.TryRecv()
		if !ok {
			t.Fatalf("TryRecv() empty, want %d", want)
		}
		if got != want {
			t.Errorf("TryRecv() = %d, want %d", got, want)
		}
	}

	if _, ok := m.TryRecv(); ok {
		t.Error("TryRecv() on empty mailbox returned ok")
	}
}

func TestMailboxSendAfterClose(t *testing.T) {
	m := New[string]()
	_ = m.Send("queued")
	m.Close()
	m.Close()

	if err := m.Send("late"); !errors.Is(err, ErrClosed) {
		t.Errorf("Send after Close error = %v, want ErrClosed", err)
	}
	if !m.Closed() {
		t.Error("Closed() = false after Close")
	}

	// Items queued before Close remain receivable.
	got, err := m.Recv(context.Background())
	if err != nil || got != "queued" {
		t.Errorf("Recv() = %q, %v, want %q, nil", got, err, "queued")
	}
	if _, err := m.Recv(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Recv on drained closed mailbox error = %v, want ErrClosed", err)
	}
}

func TestMailboxRecvWaits(t *testing.T) {
	m := New[int]()

	done := make(chan int, 1)
	go func() {
		v, err := m.Recv(context.Background())
		if err != nil {
			t.Errorf("Recv() error = %v", err)
		}
		done <- v
	}()

	time.Sleep(10 * time.Millisecond)
	_ = m.Send(42)

	select {
	case v := <-done:
		if v != 42 {
			t.Errorf("Recv() = %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Recv did not return after Send")
	}
}

func TestMailboxRecvContext(t *testing.T) {
	m := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Recv(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Recv with cancelled ctx error = %v, want context.Canceled", err)
	}
}

func TestMailboxConcurrentProducers(t *testing.T) {
	m := New[int]()

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = m.Send(i)
			}
		}()
	}
	wg.Wait()

	if got := m.Len(); got != 400 {
		t.Errorf("Len() = %d, want 400", got)
	}
}

func TestSignalQueuesEveryNotify(t *testing.T) {
	s := NewSignal()
	for i := 0; i < 3; i++ {
		s.Notify()
	}
	if got := s.Mailbox().Len(); got != 3 {
		t.Errorf("pending wake-ups = %d, want 3", got)
	}

	s.Close()
	s.Notify()
	if got := s.Mailbox().Len(); got != 3 {
		t.Errorf("pending wake-ups after Close = %d, want 3", got)
	}
}

func TestNotifyFunc(t *testing.T) {
	calls := 0
	var n Notifier = NotifyFunc(func() { calls++ })
	n.Notify()
	n.Notify()
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
