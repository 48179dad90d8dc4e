// Package notify provides the observer registry shared by every component
// that publishes changes.
//
// A Bus delivers synchronously, in registration order, on the goroutine that
// calls Notify. Registration has set semantics: attaching an observer that
// is already attached only widens its topic filter.
package notify

import "sync"

// Observer receives notifications. Implementations must be comparable;
// use ObserverFunc to adapt a plain function.
type Observer[T any] interface {
	Changed(source string, payload T)
}

type funcObserver[T any] struct {
	fn func(source string, payload T)
}

func (f *funcObserver[T]) Changed(source string, payload T) { f.fn(source, payload) }

// ObserverFunc adapts fn. Each call returns a distinct observer; keep the
// result to detach it later.
func ObserverFunc[T any](fn func(source string, payload T)) Observer[T] {
	return &funcObserver[T]{fn: fn}
}

type subscription[T any] struct {
	observer Observer[T]
	sources  map[string]struct{} // nil means every source
}

func (s *subscription[T]) accepts(source string) bool {
	if s.sources == nil {
		return true
	}
	_, ok := s.sources[source]
	return ok
}

// Bus is a registry of observers. The zero value is ready to use.
type Bus[T any] struct {
	mu   sync.Mutex
	subs []*subscription[T]
}

// Attach registers obs for the given sources, or for every source when none
// are given.
func (b *Bus[T]) Attach(obs Observer[T], sources ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subs {
		if s.observer != obs {
			continue
		}
		if s.sources == nil {
			return
		}
		if len(sources) == 0 {
			s.sources = nil
			return
		}
		for _, src := range sources {
			s.sources[src] = struct{}{}
		}
		return
	}

	sub := &subscription[T]{observer: obs}
	if len(sources) > 0 {
		sub.sources = make(map[string]struct{}, len(sources))
		for _, src := range sources {
			sub.sources[src] = struct{}{}
		}
	}
	b.subs = append(b.subs, sub)
}

// Detach removes obs entirely. Detaching an unknown observer is a no-op.
func (b *Bus[T]) Detach(obs Observer[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.observer == obs {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len reports the number of attached observers.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Notify delivers payload to every observer accepting source. Observers may
// attach or detach during delivery; changes apply from the next Notify.
func (b *Bus[T]) Notify(source string, payload T) {
	b.mu.Lock()
	snapshot := make([]*subscription[T], 0, len(b.subs))
	for _, s := range b.subs {
		if s.accepts(source) {
			snapshot = append(snapshot, s)
		}
	}
	b.mu.Unlock()

	for _, s := range snapshot {
		s.observer.Changed(source, payload)
	}
}
