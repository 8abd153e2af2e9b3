package adapter

import (
	"github.com/mash-protocol/mash-session/pkg/policy"
	"github.com/mash-protocol/mash-session/pkg/session"
	"github.com/stretchr/testify/mock"
)

// ---------------------------------------------------------------------------
// stubSession
// ---------------------------------------------------------------------------

type stubSession struct{ mock.Mock }

func (s *stubSession) Open() error                        { return s.Called().Error(0) }
func (s *stubSession) Close() error                       { return s.Called().Error(0) }
func (s *stubSession) SetActiveResumingMode(enabled bool) { s.Called(enabled) }
func (s *stubSession) IsFrontFacing() bool                { return s.Called().Bool(0) }
func (s *stubSession) Release() *session.Future {
	ret := s.Called()
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).(*session.Future)
}
func (s *stubSession) State() session.Observable[session.State] {
	return s.Called().Get(0).(session.Observable[session.State])
}
func (s *stubSession) AttachUseCases(u []session.UseCase) error { return s.Called(u).Error(0) }
func (s *stubSession) DetachUseCases(u []session.UseCase)       { s.Called(u) }
func (s *stubSession) Control() session.Control {
	return s.Called().Get(0).(session.Control)
}
func (s *stubSession) ControlInternal() session.ControlInternal {
	return s.Called().Get(0).(session.ControlInternal)
}
func (s *stubSession) Info() session.Info {
	return s.Called().Get(0).(session.Info)
}
func (s *stubSession) InfoInternal() session.InfoInternal {
	return s.Called().Get(0).(session.InfoInternal)
}
func (s *stubSession) HasTransform() bool      { return s.Called().Bool(0) }
func (s *stubSession) SetPrimary(primary bool) { s.Called(primary) }
func (s *stubSession) ExtendedConfig() policy.Config {
	return s.Called().Get(0).(policy.Config)
}
func (s *stubSession) SetExtendedConfig(cfg *policy.Config) { s.Called(cfg) }
func (s *stubSession) IsUseCasesCombinationSupported(u ...session.UseCase) bool {
	return s.Called(u).Bool(0)
}
func (s *stubSession) IsUseCasesCombinationSupportedWithStreamSharing(ss bool, u ...session.UseCase) bool {
	return s.Called(ss, u).Bool(0)
}
func (s *stubSession) IsUseCasesCombinationSupportedByFramework(u ...session.UseCase) bool {
	return s.Called(u).Bool(0)
}
func (s *stubSession) OnUseCaseActive(u session.UseCase)   { s.Called(u) }
func (s *stubSession) OnUseCaseInactive(u session.UseCase) { s.Called(u) }
func (s *stubSession) OnUseCaseUpdated(u session.UseCase)  { s.Called(u) }
func (s *stubSession) OnUseCaseReset(u session.UseCase)    { s.Called(u) }

// ---------------------------------------------------------------------------
// stubInfo
// ---------------------------------------------------------------------------

type stubInfo struct{ mock.Mock }

func (i *stubInfo) LensFacing() session.LensFacing {
	return i.Called().Get(0).(session.LensFacing)
}
func (i *stubInfo) SensorRotationDegrees() int { return i.Called().Int(0) }
func (i *stubInfo) HasFlashUnit() bool         { return i.Called().Bool(0) }
func (i *stubInfo) TorchState() session.Observable[session.TorchState] {
	return i.Called().Get(0).(session.Observable[session.TorchState])
}
func (i *stubInfo) ZoomState() session.Observable[session.ZoomState] {
	return i.Called().Get(0).(session.Observable[session.ZoomState])
}
func (i *stubInfo) ExposureState() session.ExposureState {
	return i.Called().Get(0).(session.ExposureState)
}
func (i *stubInfo) IsFocusMeteringSupported(a session.FocusMeteringAction) bool {
	return i.Called(a).Bool(0)
}
func (i *stubInfo) IsZSLSupported() bool                    { return i.Called().Bool(0) }
func (i *stubInfo) IsPostviewSupported() bool               { return i.Called().Bool(0) }
func (i *stubInfo) IsCaptureProcessProgressSupported() bool { return i.Called().Bool(0) }
func (i *stubInfo) DeviceID() string                        { return i.Called().String(0) }
func (i *stubInfo) SupportedResolutions(f session.Format) []session.Size {
	ret := i.Called(f)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).([]session.Size)
}
func (i *stubInfo) Implementation() session.InfoInternal { return i }

// ---------------------------------------------------------------------------
// stubControl
// ---------------------------------------------------------------------------

type stubControl struct{ mock.Mock }

func (c *stubControl) future(ret mock.Arguments) *session.Future {
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).(*session.Future)
}
func (c *stubControl) EnableTorch(on bool) *session.Future { return c.future(c.Called(on)) }
func (c *stubControl) StartFocusAndMetering(a session.FocusMeteringAction) *session.Future {
	return c.future(c.Called(a))
}
func (c *stubControl) CancelFocusAndMetering() *session.Future { return c.future(c.Called()) }
func (c *stubControl) SetZoomRatio(r float32) *session.Future  { return c.future(c.Called(r)) }
func (c *stubControl) SetLinearZoom(l float32) *session.Future { return c.future(c.Called(l)) }
func (c *stubControl) SetExposureCompensationIndex(i int) *session.Future {
	return c.future(c.Called(i))
}
func (c *stubControl) SetFlashMode(m session.FlashMode) error { return c.Called(m).Error(0) }
func (c *stubControl) FlashMode() session.FlashMode {
	return c.Called().Get(0).(session.FlashMode)
}
func (c *stubControl) SensorRect() session.Rect {
	return c.Called().Get(0).(session.Rect)
}
func (c *stubControl) AddInteropConfig(o map[string]any) { c.Called(o) }
func (c *stubControl) ClearInteropConfig()               { c.Called() }
func (c *stubControl) InteropConfig() map[string]any {
	ret := c.Called()
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).(map[string]any)
}
func (c *stubControl) Implementation() session.ControlInternal { return c }
