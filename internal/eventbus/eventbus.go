// Package eventbus provides a small in-process publish/subscribe bus used to
// fan out pipeline stage transitions and calculation results to listeners
// (metrics collectors, the MQTT gateway, log sinks) without coupling them to
// the publisher.
package eventbus

import "sync"

// subscriberBuffer is the per-subscriber channel capacity. Publishing never
// blocks: a subscriber that falls more than subscriberBuffer events behind
// starts losing events.
const subscriberBuffer = 16

// Bus is a type-safe fan-out bus for events of type T. The zero value is not
// usable; create one with New.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []chan T
	closed bool
}

// New creates an empty bus.
func New[T any]() *Bus[T] { return &Bus[T]{} }

// Publish delivers e to every current subscriber. Subscribers with a full
// buffer are skipped rather than blocking the publisher.
func (b *Bus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns the channel events arrive
// on. Subscribing to a closed bus returns an already-closed channel.
func (b *Bus[T]) Subscribe() <-chan T {
	ch := make(chan T, subscriberBuffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes sub from the bus and closes it. Unknown or already
// removed channels are ignored.
func (b *Bus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Subscribers reports the number of active subscriptions.
func (b *Bus[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close shuts the bus down and closes all subscriber channels. Publishing to
// a closed bus is a no-op.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
