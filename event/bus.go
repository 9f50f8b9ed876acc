package event

import "sync"

// Listener receives events. Observe runs on the search goroutine, so
// listeners that do slow work should hand events off.
type Listener interface {
	Observe(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// Observe calls f(e).
func (f ListenerFunc) Observe(e Event) { f(e) }

// Bus is an ordered observer list. The zero value is ready to use and a nil
// *Bus drops every event.
type Bus struct {
	mu        sync.RWMutex
	listeners []*entry
	recovered int
}

type entry struct{ l Listener }

// Subscribe registers l and returns a function that removes it again.
func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	e := &entry{l: l}
	b.mu.Lock()
	b.listeners = append(b.listeners, e)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, x := range b.listeners {
			if x == e {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of subscribed listeners.
func (b *Bus) Len() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.listeners)
}

// Emit delivers e to every listener in subscription order. A panicking
// listener is skipped for this event and counted in Recovered.
func (b *Bus) Emit(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	ls := b.listeners
	b.mu.RUnlock()
	for _, x := range ls {
		b.deliver(x.l, e)
	}
}

// Recovered returns how many listener panics Emit has swallowed.
func (b *Bus) Recovered() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.recovered
}

func (b *Bus) deliver(l Listener, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.mu.Lock()
			b.recovered++
			b.mu.Unlock()
		}
	}()
	l.Observe(e)
}
