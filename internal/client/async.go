package client

import (
	"context"
	"sync"
)

// Outcome is the terminal result of one remote call.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Task is one cancellable in-flight remote call. Completion is delivered
// exactly once on Done, whether the call succeeded, failed or was
// cancelled.
type Task[T any] struct {
	cancel context.CancelFunc
	done   chan Outcome[T]
}

// Go runs fn on its own goroutine under a cancellable context.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task[T]{cancel: cancel, done: make(chan Outcome[T], 1)}
	go func() {
		defer cancel()
		v, err := fn(ctx)
		t.done <- Outcome[T]{Value: v, Err: err}
	}()
	return t
}

// Done delivers the terminal outcome.
func (t *Task[T]) Done() <-chan Outcome[T] { return t.done }

// Cancel aborts the in-flight call; the outcome will carry ctx.Err().
func (t *Task[T]) Cancel() { t.cancel() }

// Slot tracks "the current call" for one user action (login, save profile,
// download). Starting a new call cancels the previous in-flight one, so a
// double-click never leaks a request. All view teardown has to do is
// Cancel().
type Slot[T any] struct {
	mu      sync.Mutex
	current *Task[T]
}

// Start cancels any in-flight call in the slot and launches fn.
func (s *Slot[T]) Start(ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Cancel()
	}
	s.current = Go(ctx, fn)
	return s.current
}

// Cancel aborts the slot's in-flight call, if any.
func (s *Slot[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Cancel()
		s.current = nil
	}
}
