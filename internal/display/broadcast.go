package display

import "sync"

// Broadcaster fans values out to listeners. Sends never block: a listener
// whose buffer is full misses the value.
type Broadcaster[T any] struct {
	buffer    int
	listeners []chan T
	closed    bool
	mu        sync.RWMutex
}

// NewBroadcaster creates a broadcaster whose listener channels hold buffer values.
func NewBroadcaster[T any](buffer int) *Broadcaster[T] {
	return &Broadcaster[T]{buffer: buffer}
}

// AddListener adds a listener. The channel is closed when the broadcaster is.
func (b *Broadcaster[T]) AddListener() chan T {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan T, b.buffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes a listener and closes its channel.
func (b *Broadcaster[T]) RemoveListener(ch chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// Send delivers v to every listener with room for it.
func (b *Broadcaster[T]) Send(v T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- v:
		default:
			// Listener buffer full, skip.
		}
	}
}

// Listeners returns the number of attached listeners.
func (b *Broadcaster[T]) Listeners() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Close closes every listener channel. Later listeners are closed at once.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, listener := range b.listeners {
		close(listener)
	}
	b.listeners = nil
}
