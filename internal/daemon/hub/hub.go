// Package hub fans delivered animation frames out to status watchers and keeps
// the latest snapshot for status queries.
package hub

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/nekotray/nekotray/internal/daemon/animator"
)

// Errors returned by the hub.
var (
	ErrClosed           = errors.New("hub closed")
	ErrSubscriberExists = errors.New("subscriber already exists")
	ErrNotFound         = errors.New("subscriber not found")
)

// Snapshot is the latest delivered frame plus the running tick count.
type Snapshot struct {
	Frame animator.Frame
	Ticks uint64
}

// Stats counts deliveries to one subscriber.
type Stats struct {
	Sent    uint64
	Dropped uint64
}

type subscriber struct {
	ch    chan Snapshot
	stats Stats
}

// Hub implements animator.Observer. Delivery never blocks: a subscriber whose
// buffer is full misses the frame and the drop is counted.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	latest      Snapshot
	hasLatest   bool
	ticks       atomic.Uint64
	closed      bool
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{
		subscribers: make(map[string]*subscriber),
	}
}

// Observe records f as the latest frame and forwards it to all subscribers.
func (h *Hub) Observe(f animator.Frame) {
	n := h.ticks.Add(1)
	snap := Snapshot{Frame: f, Ticks: n}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.latest = snap
	h.hasLatest = true
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subscribers {
		select {
		case sub.ch <- snap:
			atomic.AddUint64(&sub.stats.Sent, 1)
		default:
			atomic.AddUint64(&sub.stats.Dropped, 1)
		}
	}
}

// Latest returns the most recent snapshot. The boolean is false before the
// first frame.
func (h *Hub) Latest() (Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.hasLatest
}

// Subscribe registers a watcher with a buffer of the given size.
func (h *Hub) Subscribe(id string, buffer int) (<-chan Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}
	if _, exists := h.subscribers[id]; exists {
		return nil, ErrSubscriberExists
	}
	if buffer < 1 {
		buffer = 1
	}

	sub := &subscriber{ch: make(chan Snapshot, buffer)}
	h.subscribers[id] = sub
	return sub.ch, nil
}

// Unsubscribe removes a watcher and closes its channel.
func (h *Hub) Unsubscribe(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, exists := h.subscribers[id]
	if !exists {
		return ErrNotFound
	}
	delete(h.subscribers, id)
	close(sub.ch)
	return nil
}

// Stats returns delivery counters for a watcher.
func (h *Hub) Stats(id string) (Stats, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sub, exists := h.subscribers[id]
	if !exists {
		return Stats{}, ErrNotFound
	}
	return Stats{
		Sent:    atomic.LoadUint64(&sub.stats.Sent),
		Dropped: atomic.LoadUint64(&sub.stats.Dropped),
	}, nil
}

// Close closes every subscriber channel. Later frames are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subscribers {
		close(sub.ch)
		delete(h.subscribers, id)
	}
}
