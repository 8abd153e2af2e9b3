package session

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/mash-protocol/mash-session/pkg/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureComplete(t *testing.T) {
	f := NewFuture()
	assert.False(t, f.IsDone())

	assert.True(t, f.Complete())
	assert.False(t, f.Complete())
	assert.False(t, f.Fail(errors.New("late")))

	assert.True(t, f.IsDone())
	assert.NoError(t, f.Err())
	assert.NoError(t, f.Wait(context.Background()))
}

func TestFutureFail(t *testing.T) {
	boom := errors.New("boom")
	f := FailedFuture(boom)

	assert.True(t, f.IsDone())
	assert.Same(t, boom, f.Err())
	assert.ErrorIs(t, f.Wait(context.Background()), boom)
}

func TestFutureFailNilIsCanceled(t *testing.T) {
	f := NewFuture()
	f.Fail(nil)
	assert.ErrorIs(t, f.Err(), ErrOperationCanceled)
}

func TestFutureWaitContext(t *testing.T) {
	f := NewFuture()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, f.Wait(ctx), context.DeadlineExceeded)
	assert.False(t, f.IsDone())
}

func TestFutureConcurrentCompletion(t *testing.T) {
	f := NewFuture()

	var wg sync.WaitGroup
	wins := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				wins <- f.Complete()
			} else {
				wins <- f.Fail(errors.New("fail"))
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var n int
	for w := range wins {
		if w {
			n++
		}
	}
	assert.Equal(t, 1, n)
	<-f.Done()
}

func TestCompletedFuture(t *testing.T) {
	f := CompletedFuture()
	select {
	case <-f.Done():
	default:
		t.Fatal("expected completed future")
	}
	assert.NoError(t, f.Err())
}

func TestLiveValueDeliversCurrentThenChanges(t *testing.T) {
	v := NewLiveValue(StateClosed)
	defer v.Close()

	ch, cancel := v.Observe()
	defer cancel()

	assert.Equal(t, StateClosed, recv(t, ch))

	v.Set(StateOpening)
	v.Set(StateOpen)

	assert.Equal(t, StateOpening, recv(t, ch))
	assert.Equal(t, StateOpen, recv(t, ch))
	assert.Equal(t, StateOpen, v.Value())
}

func TestLiveValueCancelClosesChannel(t *testing.T) {
	v := NewLiveValue(0)
	defer v.Close()

	ch, cancel := v.Observe()
	assert.Equal(t, 0, recv(t, ch))

	cancel()
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestLiveValueClose(t *testing.T) {
	v := NewLiveValue("a")
	ch, cancel := v.Observe()
	defer cancel()
	assert.Equal(t, "a", recv(t, ch))

	v.Close()
	v.Close()
	v.Set("b")

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
	assert.Equal(t, "b", v.Value())

	late, lateCancel := v.Observe()
	defer lateCancel()
	assert.Equal(t, "b", <-late)
	_, ok := <-late
	assert.False(t, ok)
}

func TestLiveValueCancelThenCloseReleasesGoroutines(t *testing.T) {
	before := runtime.NumGoroutine()

	for range 50 {
		v := NewLiveValue(StateOpen)
		ch, cancel := v.Observe()
		assert.Equal(t, StateOpen, recv(t, ch))
		cancel()
		v.Close()
	}
	for range 50 {
		v := NewLiveValue(StateOpen)
		_, cancel := v.Observe()
		v.Close()
		cancel()
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond, "goroutines before=%d after=%d", before, runtime.NumGoroutine())
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "PENDING_OPEN", StatePendingOpen.String())
	assert.Equal(t, "RELEASED", StateReleased.String())
	assert.Equal(t, "UNKNOWN", State(99).String())

	assert.True(t, StateOpen.HoldsDevice())
	assert.False(t, StateClosed.HoldsDevice())
	assert.False(t, StateReleased.HoldsDevice())
}

func TestMeteringModeOperations(t *testing.T) {
	assert.Nil(t, MeteringMode(0).Operations())
	assert.Equal(t,
		[]policy.Operation{policy.OperationAutoFocus, policy.OperationAutoWhiteBalance},
		(MeteringAF | MeteringAWB).Operations())
}

func TestNewUseCaseIdentity(t *testing.T) {
	a := NewUseCase("preview", UseCasePreview)
	b := NewUseCase("preview", UseCasePreview)

	assert.NotSame(t, a, b)
	assert.Equal(t, "preview", a.Name())
	assert.Equal(t, UseCasePreview, a.Kind())
	assert.Equal(t, "PREVIEW", a.Kind().String())
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for value")
		var zero T
		return zero
	}
}
