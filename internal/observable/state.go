// Package observable provides the publish/subscribe primitives used to
// republish store contents to the presentation layer.
package observable

import "sync"

// State holds a value and publishes every change to its subscribers.
//
// Subscriber channels are conflated: a channel holds at most one pending
// value, and a newer value replaces an unread older one. A subscriber
// therefore always observes the latest value, but may skip intermediate ones
// if it reads slower than the state changes.
type State[T any] struct {
	mu     sync.Mutex
	value  T
	nextID uint64
	subs   map[uint64]chan T
}

// NewState creates a state holding initial.
func NewState[T any](initial T) *State[T] {
	return &State[T]{
		value: initial,
		subs:  make(map[uint64]chan T),
	}
}

// Value returns the current value.
func (s *State[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the current value and notifies all subscribers.
func (s *State[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(v)
}

// Update atomically replaces the current value with fn(current) and
// notifies all subscribers.
func (s *State[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := fn(s.value)
	s.setLocked(v)
	return v
}

func (s *State[T]) setLocked(v T) {
	s.value = v
	for _, ch := range s.subs {
		offer(ch, v)
	}
}

// Subscribe registers a subscriber. The returned channel already holds the
// current value and then receives every subsequent change. The cancel func
// unregisters the subscriber and closes the channel; it is safe to call more
// than once.
func (s *State[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan T, 1)
	ch <- s.value
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}

	return ch, cancel
}

// SubscriberCount returns the number of registered subscribers.
func (s *State[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// offer replaces any unread value in ch with v. Callers hold the state lock,
// so there is never a competing sender and the send cannot block.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
