package session

import (
	"sync"

	"github.com/cskr/pubsub/v2"
)

// ObserverBuffer is the channel capacity of each observer.
// Observers that fall further behind miss intermediate values but always
// see the latest value through Value.
const ObserverBuffer = 16

const valueTopic = "value"

// Observable is a stream of values with a current value.
type Observable[T any] interface {
	// Value returns the current value.
	Value() T

	// Observe subscribes to the stream. The current value is delivered
	// first, followed by every later change. The returned function cancels
	// the subscription; the channel is closed afterwards.
	Observe() (<-chan T, func())
}

// LiveValue is an Observable holding the latest value set on it.
// It is safe for concurrent use.
type LiveValue[T any] struct {
	mu     sync.Mutex
	value  T
	ps     *pubsub.PubSub[string, T]
	closed bool
}

// NewLiveValue creates a LiveValue holding initial.
func NewLiveValue[T any](initial T) *LiveValue[T] {
	return &LiveValue[T]{
		value: initial,
		ps:    pubsub.New[string, T](ObserverBuffer),
	}
}

// Value returns the current value.
func (v *LiveValue[T]) Value() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set updates the value and publishes it to observers.
func (v *LiveValue[T]) Set(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.value = value
	if !v.closed {
		v.ps.TryPub(value, valueTopic)
	}
}

// Observe subscribes to the stream.
func (v *LiveValue[T]) Observe() (<-chan T, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		ch := make(chan T, 1)
		ch <- v.value
		close(ch)
		return ch, func() {}
	}

	ch := v.ps.Sub(valueTopic)
	// Sub is processed before any later publish, so the current value
	// always precedes changes made after this call.
	ch <- v.value

	var once sync.Once
	return ch, func() {
		once.Do(func() { v.unsubscribe(ch) })
	}
}

func (v *LiveValue[T]) unsubscribe(ch chan T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Shutdown already closed ch and stopped the pubsub loop.
	if v.closed {
		return
	}
	// Publishing never blocks on observers, so the loop is always free to
	// take the command.
	v.ps.Unsub(ch, valueTopic)
}

// Close closes every observer channel. Value keeps returning the last value.
func (v *LiveValue[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	v.ps.Shutdown()
}

// Compile-time interface satisfaction check.
var _ Observable[State] = (*LiveValue[State])(nil)
