package observable

import (
	"context"
	"sync"
	"time"
)

// Upstream starts producing values and keeps doing so until ctx is
// cancelled, at which point it closes the returned channel.
type Upstream[T any] func(ctx context.Context) <-chan T

// Shared caches the latest value of an upstream and shares it between
// subscribers.
//
// The upstream is started lazily when the first subscriber arrives and is
// stopped stopTimeout after the last subscriber leaves. A subscriber that
// arrives within that grace period reuses the running upstream and the cached
// value. The cached value survives a stop and is replaced on the next start.
// Cancelling scope stops the upstream for good.
type Shared[T any] struct {
	scope       context.Context
	upstream    Upstream[T]
	stopTimeout time.Duration
	state       *State[T]

	mu          sync.Mutex
	subscribers int
	cancel      context.CancelFunc
	stopTimer   *time.Timer
}

// NewShared creates a Shared value. Nothing is started until Subscribe.
func NewShared[T any](scope context.Context, upstream Upstream[T], stopTimeout time.Duration, initial T) *Shared[T] {
	return &Shared[T]{
		scope:       scope,
		upstream:    upstream,
		stopTimeout: stopTimeout,
		state:       NewState(initial),
	}
}

// Value returns the cached value.
func (s *Shared[T]) Value() T {
	return s.state.Value()
}

// Active reports whether the upstream is running.
func (s *Shared[T]) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil && s.scope.Err() == nil
}

// Subscribe registers a subscriber and starts the upstream if needed. The
// returned channel holds the cached value immediately and then every update.
// The cancel func detaches the subscriber; it is safe to call more than once.
func (s *Shared[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	s.subscribers++
	if s.stopTimer != nil {
		s.stopTimer.Stop()
		s.stopTimer = nil
	}
	if s.cancel == nil && s.scope.Err() == nil {
		s.start()
	}
	s.mu.Unlock()

	ch, unsubscribe := s.state.Subscribe()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			unsubscribe()
			s.release()
		})
	}
}

// start must be called with s.mu held.
func (s *Shared[T]) start() {
	ctx, cancel := context.WithCancel(s.scope)
	s.cancel = cancel

	values := s.upstream(ctx)
	go func() {
		for v := range values {
			if ctx.Err() != nil {
				continue
			}
			s.state.Set(v)
		}
	}()
}

// stop must be called with s.mu held.
func (s *Shared[T]) stop() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Shared[T]) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers--
	if s.subscribers > 0 || s.cancel == nil {
		return
	}

	if s.stopTimeout <= 0 {
		s.stop()
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(s.stopTimeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stopTimer != timer || s.subscribers > 0 {
			return
		}
		s.stopTimer = nil
		s.stop()
	})
	s.stopTimer = timer
}
