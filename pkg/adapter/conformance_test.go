package adapter

import (
	"testing"
	"time"

	"github.com/mash-protocol/mash-session/internal/sessiontest"
	"github.com/mash-protocol/mash-session/internal/sim"
	"github.com/mash-protocol/mash-session/pkg/log"
	"github.com/mash-protocol/mash-session/pkg/policy"
	"github.com/mash-protocol/mash-session/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimSession(t *testing.T, trace log.Logger) *sim.Session {
	t.Helper()
	cfg := sim.DefaultConfig()
	cfg.ReleaseDelay = time.Millisecond
	cfg.Trace = trace
	s, err := sim.New(cfg)
	require.NoError(t, err)
	return s
}

func TestAdapterConformance(t *testing.T) {
	sessiontest.Run(t, func(t *testing.T) session.Session {
		s, err := Wrap(newSimSession(t, nil), policy.Default(), Options{})
		require.NoError(t, err)
		return s
	})
}

func TestAdapterConformanceWithProcessor(t *testing.T) {
	reg := policy.NewRegistry()
	require.NoError(t, reg.Register(policy.NewProcessor("all", policy.Operations()...)))

	sessiontest.Run(t, func(t *testing.T) session.Session {
		s, err := Wrap(newSimSession(t, nil), processorConfig("all"), Options{Resolver: reg})
		require.NoError(t, err)
		return s
	})
}

func TestAdapterOverSimulator(t *testing.T) {
	rec := log.NewRecorder()
	dev := newSimSession(t, rec)
	reg := policy.NewRegistry()
	require.NoError(t, reg.Register(policy.NewProcessor("portrait", policy.OperationZoom)))

	s, err := Wrap(dev, processorConfig("portrait"), Options{Resolver: reg, Trace: rec, TraceID: dev.ID()})
	require.NoError(t, err)

	require.NoError(t, s.Open())
	assert.Equal(t, session.StateOpen, dev.State().Value())

	require.NoError(t, waitErr(t, s.Control().SetZoomRatio(3)))
	assert.InDelta(t, 3, dev.Info().ZoomState().Value().Ratio, 1e-6)

	assert.ErrorIs(t, waitErr(t, s.Control().EnableTorch(true)), policy.ErrOperationNotSupported)
	assert.Equal(t, session.TorchOff, dev.Info().TorchState().Value(), "filtered call never reached the device")

	// Bypassing the adapter reaches the device directly.
	require.NoError(t, waitErr(t, s.AdapterControl().Implementation().EnableTorch(true)))
	assert.Equal(t, session.TorchOn, s.Info().TorchState().Value())

	f := s.Release()
	assert.Same(t, f, dev.Release())
	require.NoError(t, waitErr(t, f))

	var trace []log.Category
	for _, e := range rec.Events() {
		assert.Equal(t, dev.ID(), e.SessionID)
		trace = append(trace, e.Category)
	}
	require.NotEmpty(t, trace)
	assert.Equal(t, log.CategoryBinding, trace[0])
}

func waitErr(t *testing.T, f *session.Future) error {
	t.Helper()
	select {
	case <-f.Done():
		return f.Err()
	case <-time.After(time.Second):
		t.Fatal("future did not complete")
		return nil
	}
}
