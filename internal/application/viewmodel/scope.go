package viewmodel

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"user-directory-bot/internal/logger"
)

// ErrorHandler receives failures of background operations.
type ErrorHandler func(op string, err error)

type job struct {
	id  uuid.UUID
	op  string
	run func(ctx context.Context) error
}

// Scope runs the background work of one view-model. Jobs run one at a time
// on a single goroutine, in submission order. Closing the scope cancels the
// context seen by the running job and discards queued ones.
type Scope struct {
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *logger.Logger
	onError ErrorHandler

	mu      sync.Mutex
	work    *sync.Cond
	idle    *sync.Cond
	jobs    []job
	pending int
	closed  bool
	done    chan struct{}
}

// NewScope creates a scope derived from parent and starts its worker.
func NewScope(parent context.Context, logger *logger.Logger, onError ErrorHandler) *Scope {
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
		onError: onError,
		jobs:    make([]job, 0, 16),
		done:    make(chan struct{}),
	}
	s.work = sync.NewCond(&s.mu)
	s.idle = sync.NewCond(&s.mu)

	go s.loop()
	go func() {
		<-ctx.Done()
		s.Close()
	}()

	return s
}

// Context returns the scope's context. It is cancelled by Close.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Launch queues fn. It returns false if the scope is closed.
func (s *Scope) Launch(op string, fn func(ctx context.Context) error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.jobs = append(s.jobs, job{id: uuid.New(), op: op, run: fn})
	s.pending++
	s.work.Signal()
	return true
}

// Wait blocks until every queued job has finished or been discarded.
func (s *Scope) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.pending > 0 {
		s.idle.Wait()
	}
}

// Close cancels the scope. Queued jobs are dropped; a running job keeps
// running with a cancelled context. Close is idempotent.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.pending -= len(s.jobs)
	s.jobs = nil
	s.work.Broadcast()
	if s.pending == 0 {
		s.idle.Broadcast()
	}
	s.mu.Unlock()

	s.cancel()
}

// Done is closed once the worker has exited.
func (s *Scope) Done() <-chan struct{} {
	return s.done
}

func (s *Scope) loop() {
	defer close(s.done)

	for {
		j, ok := s.next()
		if !ok {
			return
		}

		s.execute(j)

		s.mu.Lock()
		s.pending--
		if s.pending == 0 {
			s.idle.Broadcast()
		}
		s.mu.Unlock()
	}
}

func (s *Scope) next() (job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.jobs) == 0 && !s.closed {
		s.work.Wait()
	}
	if s.closed {
		return job{}, false
	}

	j := s.jobs[0]
	s.jobs[0] = job{}
	s.jobs = s.jobs[1:]
	return j, true
}

func (s *Scope) execute(j job) {
	log := s.logger.With("op", j.op, "op_id", j.id.String())

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return j.run(s.ctx)
	}()

	if err == nil {
		log.Debug("operation completed")
		return
	}

	log.Error("background operation failed", "error", err)
	if s.onError != nil {
		s.onError(j.op, err)
	}
}
