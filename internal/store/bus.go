package store

import "sync"

// Bus is a single-topic, payloadless publish/subscribe channel. It tells
// observers "the dispatcher collection changed, re-read it" and nothing more.
type Bus struct {
	mu   sync.Mutex
	subs []chan struct{}
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel that receives a signal after each notification.
// Delivery is coalescing: a subscriber that has not drained its channel sees
// at most one pending signal, never a backlog.
func (b *Bus) Subscribe() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan struct{}, 1)
	b.subs = append(b.subs, ch)
	return ch
}

// Notify signals every subscriber without blocking the publisher.
func (b *Bus) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
