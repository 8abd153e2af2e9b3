package session

import (
	"errors"

	"github.com/mash-protocol/mash-session/pkg/policy"
)

// Session errors.
var (
	ErrSessionReleased    = errors.New("session released")
	ErrUseCaseAttached    = errors.New("use case already attached")
	ErrArgumentOutOfRange = errors.New("argument out of range")
	ErrNoFlashUnit        = errors.New("device has no flash unit")
	ErrOperationCanceled  = errors.New("operation canceled")
)

// State is a session lifecycle state.
type State uint8

const (
	StatePendingOpen State = iota
	StateOpening
	StateOpen
	StateConfigured
	StateClosing
	StateClosed
	StateReleasing
	StateReleased
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePendingOpen:
		return "PENDING_OPEN"
	case StateOpening:
		return "OPENING"
	case StateOpen:
		return "OPEN"
	case StateConfigured:
		return "CONFIGURED"
	case StateClosing:
		return "CLOSING"
	case StateClosed:
		return "CLOSED"
	case StateReleasing:
		return "RELEASING"
	case StateReleased:
		return "RELEASED"
	default:
		return "UNKNOWN"
	}
}

// HoldsDevice reports whether the device is held open in this state.
func (s State) HoldsDevice() bool {
	switch s {
	case StateOpening, StateOpen, StateConfigured, StateClosing, StateReleasing:
		return true
	default:
		return false
	}
}

// LensFacing is the lens direction.
type LensFacing uint8

const (
	LensFacingUnknown LensFacing = iota
	LensFacingFront
	LensFacingBack
	LensFacingExternal
)

// String returns the lens facing name.
func (l LensFacing) String() string {
	switch l {
	case LensFacingFront:
		return "FRONT"
	case LensFacingBack:
		return "BACK"
	case LensFacingExternal:
		return "EXTERNAL"
	default:
		return "UNKNOWN"
	}
}

// TorchState is the torch state.
type TorchState uint8

const (
	TorchOff TorchState = iota
	TorchOn
)

// String returns the torch state name.
func (t TorchState) String() string {
	if t == TorchOn {
		return "ON"
	}
	return "OFF"
}

// ZoomState describes the current zoom.
type ZoomState struct {
	Ratio      float32
	MinRatio   float32
	MaxRatio   float32
	LinearZoom float32
}

// ExposureState describes the exposure compensation range and current index.
type ExposureState struct {
	Index     int
	MinIndex  int
	MaxIndex  int
	Supported bool
}

// FlashMode is the capture flash mode.
type FlashMode uint8

const (
	FlashModeOff FlashMode = iota
	FlashModeOn
	FlashModeAuto
)

// String returns the flash mode name.
func (f FlashMode) String() string {
	switch f {
	case FlashModeOn:
		return "ON"
	case FlashModeAuto:
		return "AUTO"
	default:
		return "OFF"
	}
}

// MeteringMode is a bit in a FocusMeteringAction.
type MeteringMode uint8

const (
	MeteringAF MeteringMode = 1 << iota
	MeteringAE
	MeteringAWB
)

// Operations returns the control operations a metering mode set requires.
func (m MeteringMode) Operations() []policy.Operation {
	var ops []policy.Operation
	if m&MeteringAF != 0 {
		ops = append(ops, policy.OperationAutoFocus)
	}
	if m&MeteringAE != 0 {
		ops = append(ops, policy.OperationAutoExposure)
	}
	if m&MeteringAWB != 0 {
		ops = append(ops, policy.OperationAutoWhiteBalance)
	}
	return ops
}

// MeteringPoint is a normalized point on the sensor.
type MeteringPoint struct {
	X, Y float32
	Size float32
}

// FocusMeteringAction requests focus and metering on a set of points.
type FocusMeteringAction struct {
	Points []MeteringPoint
	Modes  MeteringMode
}

// Format is an output image format.
type Format int

const (
	FormatPrivate Format = 0x22
	FormatYUV420  Format = 0x23
	FormatJPEG    Format = 0x100
)

// Size is an output resolution.
type Size struct {
	Width  int
	Height int
}

// Rect is a sensor area.
type Rect struct {
	Left, Top, Right, Bottom int
}

// UseCaseKind distinguishes use case types.
type UseCaseKind uint8

const (
	UseCasePreview UseCaseKind = iota
	UseCaseImageCapture
	UseCaseImageAnalysis
	UseCaseVideoCapture
	UseCaseStreamSharing
)

// String returns the use case kind name.
func (k UseCaseKind) String() string {
	switch k {
	case UseCasePreview:
		return "PREVIEW"
	case UseCaseImageCapture:
		return "IMAGE_CAPTURE"
	case UseCaseImageAnalysis:
		return "IMAGE_ANALYSIS"
	case UseCaseVideoCapture:
		return "VIDEO_CAPTURE"
	case UseCaseStreamSharing:
		return "STREAM_SHARING"
	default:
		return "UNKNOWN"
	}
}

// UseCase is a consumer of device output bound to a session. Use cases are
// compared by identity.
type UseCase interface {
	Name() string
	Kind() UseCaseKind
}

type useCase struct {
	name string
	kind UseCaseKind
}

// NewUseCase creates a use case. Every call returns a distinct use case.
func NewUseCase(name string, kind UseCaseKind) UseCase {
	return &useCase{name: name, kind: kind}
}

func (u *useCase) Name() string      { return u.name }
func (u *useCase) Kind() UseCaseKind { return u.kind }
