package adapter

import (
	"github.com/mash-protocol/mash-session/pkg/policy"
	"github.com/mash-protocol/mash-session/pkg/session"
)

// Info overrides the device information capability with one that carries
// the policy config of the adapter.
//
// Queries forward to the native info, except those the config decides:
// ZSL is reported unsupported when the config disables it, and postview and
// capture-progress support come from the config when it binds a processor.
type Info struct {
	native session.InfoInternal
	config policy.Config
}

// NewInfo creates an info override around native with the given config.
func NewInfo(native session.InfoInternal, cfg policy.Config) *Info {
	return &Info{native: native, config: cfg}
}

// PolicyConfig returns the config the override was created with.
func (i *Info) PolicyConfig() policy.Config {
	return i.config
}

// Implementation returns the native info.
func (i *Info) Implementation() session.InfoInternal {
	return i.native
}

func (i *Info) LensFacing() session.LensFacing {
	return i.native.LensFacing()
}

func (i *Info) SensorRotationDegrees() int {
	return i.native.SensorRotationDegrees()
}

func (i *Info) HasFlashUnit() bool {
	return i.native.HasFlashUnit()
}

func (i *Info) TorchState() session.Observable[session.TorchState] {
	return i.native.TorchState()
}

func (i *Info) ZoomState() session.Observable[session.ZoomState] {
	return i.native.ZoomState()
}

func (i *Info) ExposureState() session.ExposureState {
	return i.native.ExposureState()
}

func (i *Info) IsFocusMeteringSupported(action session.FocusMeteringAction) bool {
	return i.native.IsFocusMeteringSupported(action)
}

// IsZSLSupported reports false when the config disables ZSL.
func (i *Info) IsZSLSupported() bool {
	if i.config.ZSLDisabled {
		return false
	}
	return i.native.IsZSLSupported()
}

// IsPostviewSupported answers from the config when a processor is bound.
func (i *Info) IsPostviewSupported() bool {
	if i.config.HasProcessor() {
		return i.config.PostviewSupported
	}
	return i.native.IsPostviewSupported()
}

// IsCaptureProcessProgressSupported answers from the config when a processor
// is bound.
func (i *Info) IsCaptureProcessProgressSupported() bool {
	if i.config.HasProcessor() {
		return i.config.CaptureProcessProgressSupported
	}
	return i.native.IsCaptureProcessProgressSupported()
}

func (i *Info) DeviceID() string {
	return i.native.DeviceID()
}

func (i *Info) SupportedResolutions(format session.Format) []session.Size {
	return i.native.SupportedResolutions(format)
}

var _ session.InfoInternal = (*Info)(nil)
