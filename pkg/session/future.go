package session

import (
	"context"
	"sync"
)

// Future is a one-shot completion signal carrying an optional error.
// The first Complete or Fail wins; later calls are ignored.
// Future is safe for concurrent use.
type Future struct {
	done chan struct{}

	mu        sync.Mutex
	completed bool
	err       error
}

// NewFuture creates a pending future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// CompletedFuture returns a future that has already succeeded.
func CompletedFuture() *Future {
	f := NewFuture()
	f.Complete()
	return f
}

// FailedFuture returns a future that has already failed with err.
func FailedFuture(err error) *Future {
	f := NewFuture()
	f.Fail(err)
	return f
}

// Complete marks the future successful. It reports whether this call
// completed the future.
func (f *Future) Complete() bool {
	return f.finish(nil)
}

// Fail marks the future failed with err. It reports whether this call
// completed the future.
func (f *Future) Fail(err error) bool {
	if err == nil {
		err = ErrOperationCanceled
	}
	return f.finish(err)
}

func (f *Future) finish(err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.completed {
		return false
	}
	f.completed = true
	f.err = err
	close(f.done)
	return true
}

// Done returns a channel that is closed once the future completes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether the future has completed.
func (f *Future) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Err returns the failure, or nil if the future succeeded or is pending.
func (f *Future) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Wait blocks until the future completes or ctx is done.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
