package mailbox

// Notifier is the wake primitive of a UI bridge. The animator calls Notify
// exactly once for every tick it delivers, so the bridge can drain the tick
// mailbox from its own goroutine.
type Notifier interface {
	Notify()
}

// NotifyFunc adapts a plain function to the Notifier interface.
type NotifyFunc func()

// Notify calls f.
func (f NotifyFunc) Notify() {
	f()
}

// Signal is a Notifier whose wake-ups are queued, one per Notify call, for a
// single dispatcher goroutine.
type Signal struct {
	box *Mailbox[struct{}]
}

// NewSignal creates a Signal.
func NewSignal() *Signal {
	return &Signal{box: New[struct{}]()}
}

// Notify queues one wake-up. Wake-ups after Close are dropped.
func (s *Signal) Notify() {
	_ = s.box.Send(struct{}{})
}

// Mailbox exposes the queue of pending wake-ups to the dispatcher.
func (s *Signal) Mailbox() *Mailbox[struct{}] {
	return s.box
}

// Close stops the signal; a dispatcher blocked in Recv returns ErrClosed once
// pending wake-ups are drained.
func (s *Signal) Close() {
	s.box.Close()
}
