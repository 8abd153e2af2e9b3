package session

import "github.com/mash-protocol/mash-session/pkg/policy"

// Session is the full device session capability set.
type Session interface {
	UseCaseObserver

	// Open asynchronously opens the device.
	Open() error

	// Close asynchronously closes the device.
	Close() error

	// SetActiveResumingMode controls whether the session reopens the device
	// automatically once it becomes available again.
	SetActiveResumingMode(enabled bool)

	// IsFrontFacing reports whether the device faces the user.
	IsFrontFacing() bool

	// Release releases the device. The returned future completes when the
	// device is fully released.
	Release() *Future

	// State returns the stream of session states.
	State() Observable[State]

	// AttachUseCases attaches use cases to the session.
	AttachUseCases(useCases []UseCase) error

	// DetachUseCases detaches use cases from the session.
	DetachUseCases(useCases []UseCase)

	// Control returns the device control capability.
	Control() Control

	// ControlInternal returns the internal device control capability.
	ControlInternal() ControlInternal

	// Info returns the device information capability.
	Info() Info

	// InfoInternal returns the internal device information capability.
	InfoInternal() InfoInternal

	// HasTransform reports whether output is rotated and mirrored by the
	// session.
	HasTransform() bool

	// SetPrimary marks the session as the primary of a concurrent pair.
	SetPrimary(primary bool)

	// ExtendedConfig returns the extended configuration in effect.
	ExtendedConfig() policy.Config

	// SetExtendedConfig applies an extended configuration. Nil restores the
	// default configuration.
	SetExtendedConfig(cfg *policy.Config)

	// IsUseCasesCombinationSupported reports whether the use cases can be
	// bound together.
	IsUseCasesCombinationSupported(useCases ...UseCase) bool

	// IsUseCasesCombinationSupportedWithStreamSharing is like
	// IsUseCasesCombinationSupported but may consider stream sharing.
	IsUseCasesCombinationSupportedWithStreamSharing(withStreamSharing bool, useCases ...UseCase) bool

	// IsUseCasesCombinationSupportedByFramework reports whether the
	// combination is supported by the framework alone, ignoring device
	// quirks and processing.
	IsUseCasesCombinationSupportedByFramework(useCases ...UseCase) bool
}

// UseCaseObserver receives use case lifecycle callbacks.
type UseCaseObserver interface {
	OnUseCaseActive(useCase UseCase)
	OnUseCaseInactive(useCase UseCase)
	OnUseCaseUpdated(useCase UseCase)
	OnUseCaseReset(useCase UseCase)
}

// Info is the device information capability.
type Info interface {
	// LensFacing returns the lens direction.
	LensFacing() LensFacing

	// SensorRotationDegrees returns the sensor rotation relative to the
	// device's natural orientation.
	SensorRotationDegrees() int

	// HasFlashUnit reports whether the device has a flash unit.
	HasFlashUnit() bool

	// TorchState returns the stream of torch states.
	TorchState() Observable[TorchState]

	// ZoomState returns the stream of zoom states.
	ZoomState() Observable[ZoomState]

	// ExposureState returns the current exposure compensation state.
	ExposureState() ExposureState

	// IsFocusMeteringSupported reports whether the action can be executed.
	IsFocusMeteringSupported(action FocusMeteringAction) bool

	// IsZSLSupported reports whether zero-shutter-lag capture is supported.
	IsZSLSupported() bool

	// IsPostviewSupported reports whether postview images are supported.
	IsPostviewSupported() bool

	// IsCaptureProcessProgressSupported reports whether capture processing
	// progress is reported.
	IsCaptureProcessProgressSupported() bool
}

// InfoInternal extends Info with queries used inside the session layer.
type InfoInternal interface {
	Info

	// DeviceID returns the device identifier.
	DeviceID() string

	// SupportedResolutions returns the output sizes for a format.
	SupportedResolutions(format Format) []Size

	// Implementation returns the underlying implementation. Wrappers return
	// what they wrap.
	Implementation() InfoInternal
}

// Control is the device control capability. Asynchronous operations return
// a Future that fails if the operation cannot be carried out.
type Control interface {
	// EnableTorch turns the torch on or off.
	EnableTorch(on bool) *Future

	// StartFocusAndMetering starts a focus and metering action.
	StartFocusAndMetering(action FocusMeteringAction) *Future

	// CancelFocusAndMetering cancels the running focus and metering action.
	CancelFocusAndMetering() *Future

	// SetZoomRatio sets the zoom ratio.
	SetZoomRatio(ratio float32) *Future

	// SetLinearZoom sets zoom on a linear 0..1 scale.
	SetLinearZoom(linear float32) *Future

	// SetExposureCompensationIndex sets the exposure compensation index.
	SetExposureCompensationIndex(index int) *Future
}

// ControlInternal extends Control with operations used inside the session
// layer.
type ControlInternal interface {
	Control

	// SetFlashMode sets the flash mode used for captures.
	SetFlashMode(mode FlashMode) error

	// FlashMode returns the current flash mode.
	FlashMode() FlashMode

	// SensorRect returns the active sensor area.
	SensorRect() Rect

	// AddInteropConfig merges options into the interop configuration.
	AddInteropConfig(options map[string]any)

	// ClearInteropConfig removes every interop option.
	ClearInteropConfig()

	// InteropConfig returns a copy of the interop configuration.
	InteropConfig() map[string]any

	// Implementation returns the underlying implementation. Wrappers return
	// what they wrap.
	Implementation() ControlInternal
}
