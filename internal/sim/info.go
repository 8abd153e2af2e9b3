package sim

import (
	"slices"

	"github.com/mash-protocol/mash-session/pkg/session"
)

// Info is the simulated device information capability.
type Info struct {
	s *Session
}

func newInfo(s *Session) *Info {
	return &Info{s: s}
}

func (i *Info) LensFacing() session.LensFacing {
	return i.s.config.LensFacing
}

func (i *Info) SensorRotationDegrees() int {
	return i.s.config.SensorRotation
}

func (i *Info) HasFlashUnit() bool {
	return i.s.config.HasFlash
}

func (i *Info) TorchState() session.Observable[session.TorchState] {
	return i.s.control.torch
}

func (i *Info) ZoomState() session.Observable[session.ZoomState] {
	return i.s.control.zoom
}

func (i *Info) ExposureState() session.ExposureState {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()
	return i.s.control.exposureLocked()
}

// IsFocusMeteringSupported reports whether the action names at least one
// metering mode and every point lies on the normalized sensor.
func (i *Info) IsFocusMeteringSupported(action session.FocusMeteringAction) bool {
	if action.Modes == 0 || len(action.Points) == 0 {
		return false
	}
	for _, p := range action.Points {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			return false
		}
	}
	return true
}

func (i *Info) IsZSLSupported() bool {
	return i.s.config.ZSLSupported
}

// IsPostviewSupported reports false; postview needs a processing layer.
func (i *Info) IsPostviewSupported() bool {
	return false
}

// IsCaptureProcessProgressSupported reports false; progress needs a
// processing layer.
func (i *Info) IsCaptureProcessProgressSupported() bool {
	return false
}

func (i *Info) DeviceID() string {
	return i.s.config.DeviceID
}

func (i *Info) SupportedResolutions(format session.Format) []session.Size {
	return slices.Clone(i.s.config.Resolutions[format])
}

func (i *Info) Implementation() session.InfoInternal {
	return i
}

var _ session.InfoInternal = (*Info)(nil)
