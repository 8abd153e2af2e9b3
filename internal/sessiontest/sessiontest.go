// Package sessiontest provides a behavioral test suite for session.Session
// implementations.
//
// A wrapper that only forwards must pass the same suite as the session it
// wraps:
//
//	sessiontest.Run(t, func(t *testing.T) session.Session {
//	    return newWrappedSession(t)
//	})
//
// The factory must return an unopened session that supports zoom in [1, 2]
// and permits every control operation.
package sessiontest

import (
	"context"
	"testing"
	"time"

	"github.com/mash-protocol/mash-session/pkg/policy"
	"github.com/mash-protocol/mash-session/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Timeout bounds every wait in the suite.
const Timeout = 2 * time.Second

// Factory creates a fresh session for one test.
type Factory func(t *testing.T) session.Session

// Run runs the suite against sessions created by newSession.
func Run(t *testing.T, newSession Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s session.Session)
	}{
		{"InitialState", testInitialState},
		{"OpenClose", testOpenClose},
		{"AttachDetach", testAttachDetach},
		{"ObserveState", testObserveState},
		{"Zoom", testZoom},
		{"Torch", testTorch},
		{"ExtendedConfig", testExtendedConfig},
		{"Combinations", testCombinations},
		{"Release", testRelease},
		{"UseCaseCallbacks", testUseCaseCallbacks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t)
			require.NotNil(t, s)
			t.Cleanup(func() { waitFuture(t, s.Release()) })
			tt.fn(t, s)
		})
	}
}

func waitFuture(t *testing.T, f *session.Future) error {
	t.Helper()
	require.NotNil(t, f)
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	err := f.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "future did not complete")
	return err
}

func requireState(t *testing.T, s session.Session, want session.State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.State().Value() == want
	}, Timeout, time.Millisecond, "want state %s, have %s", want, s.State().Value())
}

func open(t *testing.T, s session.Session) {
	t.Helper()
	require.NoError(t, s.Open())
	require.Eventually(t, func() bool {
		st := s.State().Value()
		return st == session.StateOpen || st == session.StateConfigured
	}, Timeout, time.Millisecond)
}

func testInitialState(t *testing.T, s session.Session) {
	assert.Equal(t, session.StatePendingOpen, s.State().Value())
	assert.Equal(t, s.Info().LensFacing() == session.LensFacingFront, s.IsFrontFacing())
	assert.NotEmpty(t, s.InfoInternal().DeviceID())
}

func testOpenClose(t *testing.T, s session.Session) {
	open(t, s)
	requireState(t, s, session.StateOpen)

	require.NoError(t, s.Close())
	requireState(t, s, session.StateClosed)

	open(t, s)
	requireState(t, s, session.StateOpen)
}

func testAttachDetach(t *testing.T, s session.Session) {
	preview := session.NewUseCase("preview", session.UseCasePreview)
	capture := session.NewUseCase("capture", session.UseCaseImageCapture)

	open(t, s)
	require.NoError(t, s.AttachUseCases([]session.UseCase{preview, capture}))
	requireState(t, s, session.StateConfigured)

	err := s.AttachUseCases([]session.UseCase{preview})
	assert.ErrorIs(t, err, session.ErrUseCaseAttached)

	s.DetachUseCases([]session.UseCase{preview, capture})
	requireState(t, s, session.StateOpen)

	// Detaching again is a no-op.
	s.DetachUseCases([]session.UseCase{preview})
	requireState(t, s, session.StateOpen)
}

func testObserveState(t *testing.T, s session.Session) {
	ch, cancel := s.State().Observe()
	defer cancel()

	select {
	case st := <-ch:
		assert.Equal(t, session.StatePendingOpen, st)
	case <-time.After(Timeout):
		t.Fatal("no initial state delivered")
	}

	require.NoError(t, s.Open())

	deadline := time.After(Timeout)
	for {
		select {
		case st := <-ch:
			if st == session.StateOpen {
				return
			}
		case <-deadline:
			t.Fatal("OPEN not observed")
		}
	}
}

func testZoom(t *testing.T, s session.Session) {
	open(t, s)

	require.NoError(t, waitFuture(t, s.Control().SetZoomRatio(2)))
	assert.InDelta(t, 2, s.Info().ZoomState().Value().Ratio, 1e-6)

	require.NoError(t, waitFuture(t, s.ControlInternal().SetLinearZoom(0)))
	zs := s.Info().ZoomState().Value()
	assert.InDelta(t, zs.MinRatio, zs.Ratio, 1e-6)

	err := waitFuture(t, s.Control().SetZoomRatio(zs.MaxRatio+1))
	assert.ErrorIs(t, err, session.ErrArgumentOutOfRange)
}

func testTorch(t *testing.T, s session.Session) {
	open(t, s)

	err := waitFuture(t, s.Control().EnableTorch(true))
	if !s.Info().HasFlashUnit() {
		assert.ErrorIs(t, err, session.ErrNoFlashUnit)
		return
	}
	require.NoError(t, err)
	assert.Equal(t, session.TorchOn, s.Info().TorchState().Value())

	require.NoError(t, waitFuture(t, s.Control().EnableTorch(false)))
	assert.Equal(t, session.TorchOff, s.InfoInternal().TorchState().Value())
}

func testExtendedConfig(t *testing.T, s session.Session) {
	cfg := policy.Default()
	cfg.ID = "suite-extended"
	cfg.ZSLDisabled = true

	s.SetExtendedConfig(&cfg)
	assert.Equal(t, cfg, s.ExtendedConfig())

	s.SetExtendedConfig(nil)
	assert.Equal(t, policy.Default(), s.ExtendedConfig())
}

func testCombinations(t *testing.T, s session.Session) {
	preview := session.NewUseCase("preview", session.UseCasePreview)
	capture := session.NewUseCase("capture", session.UseCaseImageCapture)

	assert.True(t, s.IsUseCasesCombinationSupported(preview, capture))
	assert.True(t, s.IsUseCasesCombinationSupportedByFramework(preview, capture))
	assert.Equal(t,
		s.IsUseCasesCombinationSupported(preview, capture),
		s.IsUseCasesCombinationSupportedWithStreamSharing(false, preview, capture))

	many := make([]session.UseCase, 16)
	for i := range many {
		many[i] = session.NewUseCase("analysis", session.UseCaseImageAnalysis)
	}
	assert.False(t, s.IsUseCasesCombinationSupportedByFramework(many...))
	assert.False(t, s.IsUseCasesCombinationSupported(many...))
}

func testRelease(t *testing.T, s session.Session) {
	open(t, s)

	f := s.Release()
	require.NoError(t, waitFuture(t, f))
	requireState(t, s, session.StateReleased)

	assert.ErrorIs(t, s.Open(), session.ErrSessionReleased)
	err := s.AttachUseCases([]session.UseCase{session.NewUseCase("late", session.UseCasePreview)})
	assert.ErrorIs(t, err, session.ErrSessionReleased)

	// Observing after release yields the final state and a closed stream.
	ch, cancel := s.State().Observe()
	defer cancel()
	var last session.State
	for st := range ch {
		last = st
	}
	assert.Equal(t, session.StateReleased, last)
}

func testUseCaseCallbacks(t *testing.T, s session.Session) {
	preview := session.NewUseCase("preview", session.UseCasePreview)

	open(t, s)
	require.NoError(t, s.AttachUseCases([]session.UseCase{preview}))

	s.OnUseCaseActive(preview)
	s.OnUseCaseUpdated(preview)
	s.OnUseCaseReset(preview)
	s.OnUseCaseInactive(preview)

	// Callbacks for use cases the session never saw are ignored.
	s.OnUseCaseActive(session.NewUseCase("stranger", session.UseCasePreview))
	requireState(t, s, session.StateConfigured)
}
