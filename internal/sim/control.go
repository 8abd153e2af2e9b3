package sim

import (
	"fmt"
	"maps"
	"time"

	"github.com/mash-protocol/mash-session/pkg/session"
)

// Control is the simulated device control capability. Operations fail
// with ErrNotActive unless the session is open.
type Control struct {
	s *Session

	torch *session.LiveValue[session.TorchState]
	zoom  *session.LiveValue[session.ZoomState]

	// Guarded by s.mu.
	exposureIndex int
	flashMode     session.FlashMode
	focus         *session.Future
	focusTimer    *time.Timer
	interop       map[string]any
}

func newControl(s *Session) *Control {
	minRatio := s.config.MinZoomRatio
	return &Control{
		s:     s,
		torch: session.NewLiveValue(session.TorchOff),
		zoom: session.NewLiveValue(session.ZoomState{
			Ratio:    minRatio,
			MinRatio: minRatio,
			MaxRatio: s.config.MaxZoomRatio,
		}),
		interop: make(map[string]any),
	}
}

// EnableTorch turns the torch on or off.
func (c *Control) EnableTorch(on bool) *session.Future {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if err := c.s.activeLocked(); err != nil {
		return c.fail(err, "enable torch")
	}
	if !c.s.config.HasFlash {
		return c.fail(session.ErrNoFlashUnit, "enable torch")
	}
	state := session.TorchOff
	if on {
		state = session.TorchOn
	}
	c.torch.Set(state)
	return session.CompletedFuture()
}

// StartFocusAndMetering starts a focus and metering action, canceling the
// one in progress.
func (c *Control) StartFocusAndMetering(action session.FocusMeteringAction) *session.Future {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if err := c.s.activeLocked(); err != nil {
		return c.fail(err, "start focus and metering")
	}
	if !c.s.info.IsFocusMeteringSupported(action) {
		return c.fail(fmt.Errorf("%w: focus metering action", session.ErrArgumentOutOfRange), "start focus and metering")
	}
	c.cancelFocus()

	f := session.NewFuture()
	if c.s.config.FocusDuration == 0 {
		f.Complete()
		return f
	}
	c.focus = f
	c.focusTimer = time.AfterFunc(c.s.config.FocusDuration, func() {
		c.s.mu.Lock()
		defer c.s.mu.Unlock()
		if c.focus == f {
			c.focus = nil
			c.focusTimer = nil
		}
		f.Complete()
	})
	return f
}

// CancelFocusAndMetering cancels the running action, whose future fails
// with session.ErrOperationCanceled.
func (c *Control) CancelFocusAndMetering() *session.Future {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if err := c.s.activeLocked(); err != nil {
		return c.fail(err, "cancel focus and metering")
	}
	c.cancelFocus()
	return session.CompletedFuture()
}

// SetZoomRatio sets the zoom ratio within [MinZoomRatio, MaxZoomRatio].
func (c *Control) SetZoomRatio(ratio float32) *session.Future {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if err := c.s.activeLocked(); err != nil {
		return c.fail(err, "set zoom ratio")
	}
	zs := c.zoom.Value()
	if ratio < zs.MinRatio || ratio > zs.MaxRatio {
		return c.fail(fmt.Errorf("%w: zoom ratio %v not in [%v, %v]", session.ErrArgumentOutOfRange, ratio, zs.MinRatio, zs.MaxRatio), "set zoom ratio")
	}
	zs.Ratio = ratio
	zs.LinearZoom = linearFromRatio(ratio, zs.MinRatio, zs.MaxRatio)
	c.zoom.Set(zs)
	return session.CompletedFuture()
}

// SetLinearZoom sets zoom on a 0..1 scale.
func (c *Control) SetLinearZoom(linear float32) *session.Future {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if err := c.s.activeLocked(); err != nil {
		return c.fail(err, "set linear zoom")
	}
	if linear < 0 || linear > 1 {
		return c.fail(fmt.Errorf("%w: linear zoom %v not in [0, 1]", session.ErrArgumentOutOfRange, linear), "set linear zoom")
	}
	zs := c.zoom.Value()
	zs.Ratio = ratioFromLinear(linear, zs.MinRatio, zs.MaxRatio)
	zs.LinearZoom = linear
	c.zoom.Set(zs)
	return session.CompletedFuture()
}

// SetExposureCompensationIndex sets the exposure compensation index.
func (c *Control) SetExposureCompensationIndex(index int) *session.Future {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if err := c.s.activeLocked(); err != nil {
		return c.fail(err, "set exposure compensation")
	}
	es := c.exposureLocked()
	if !es.Supported || index < es.MinIndex || index > es.MaxIndex {
		return c.fail(fmt.Errorf("%w: exposure index %d not in [%d, %d]", session.ErrArgumentOutOfRange, index, es.MinIndex, es.MaxIndex), "set exposure compensation")
	}
	c.exposureIndex = index
	return session.CompletedFuture()
}

// SetFlashMode sets the capture flash mode. Devices without a flash unit
// only accept session.FlashModeOff.
func (c *Control) SetFlashMode(mode session.FlashMode) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if c.s.release != nil {
		return session.ErrSessionReleased
	}
	if mode != session.FlashModeOff && !c.s.config.HasFlash {
		return session.ErrNoFlashUnit
	}
	c.flashMode = mode
	return nil
}

func (c *Control) FlashMode() session.FlashMode {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.flashMode
}

func (c *Control) SensorRect() session.Rect {
	return c.s.config.ActiveArray
}

func (c *Control) AddInteropConfig(options map[string]any) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	maps.Copy(c.interop, options)
}

func (c *Control) ClearInteropConfig() {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	clear(c.interop)
}

func (c *Control) InteropConfig() map[string]any {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return maps.Clone(c.interop)
}

func (c *Control) Implementation() session.ControlInternal {
	return c
}

// exposureLocked returns the exposure state. Caller holds s.mu.
func (c *Control) exposureLocked() session.ExposureState {
	cfg := c.s.config
	return session.ExposureState{
		Index:     c.exposureIndex,
		MinIndex:  cfg.MinExposureIndex,
		MaxIndex:  cfg.MaxExposureIndex,
		Supported: cfg.MaxExposureIndex > cfg.MinExposureIndex,
	}
}

// cancelFocus fails the running focus action. Caller holds s.mu.
func (c *Control) cancelFocus() {
	if c.focus == nil {
		return
	}
	if c.focusTimer != nil {
		c.focusTimer.Stop()
	}
	c.focus.Fail(session.ErrOperationCanceled)
	c.focus = nil
	c.focusTimer = nil
}

// closeObservables ends every control stream. Caller holds s.mu.
func (c *Control) closeObservables() {
	c.torch.Close()
	c.zoom.Close()
}

// fail traces err and returns a failed future. Caller holds s.mu.
func (c *Control) fail(err error, context string) *session.Future {
	c.s.traceError(err, context)
	return session.FailedFuture(err)
}

func linearFromRatio(ratio, minRatio, maxRatio float32) float32 {
	if maxRatio == minRatio {
		return 0
	}
	return (1/ratio - 1/minRatio) / (1/maxRatio - 1/minRatio)
}

func ratioFromLinear(linear, minRatio, maxRatio float32) float32 {
	if maxRatio == minRatio {
		return minRatio
	}
	return 1 / (1/minRatio + linear*(1/maxRatio-1/minRatio))
}

var _ session.ControlInternal = (*Control)(nil)
