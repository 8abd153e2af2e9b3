package log

import "time"

// Event is a session trace event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// DeviceID identifies the device behind the session.
	DeviceID string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Source is the component that emitted the event.
	Source Source `cbor:"5,keyasint"`

	// Type-specific payload (one of these will be set).
	Lifecycle   *LifecycleEvent   `cbor:"10,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Binding     *BindingEvent     `cbor:"12,keyasint,omitempty"`
	UseCase     *UseCaseEvent     `cbor:"13,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	CategoryLifecycle Category = 0
	CategoryState     Category = 1
	CategoryBinding   Category = 2
	CategoryUseCase   Category = 3
	CategoryError     Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryLifecycle:
		return "LIFECYCLE"
	case CategoryState:
		return "STATE"
	case CategoryBinding:
		return "BINDING"
	case CategoryUseCase:
		return "USECASE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Source is the component that emitted an event.
type Source uint8

const (
	// SourceSession is the device session implementation.
	SourceSession Source = 0
	// SourceAdapter is the capability-overriding adapter.
	SourceAdapter Source = 1
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceSession:
		return "SESSION"
	case SourceAdapter:
		return "ADAPTER"
	default:
		return "UNKNOWN"
	}
}

// LifecycleEvent captures a lifecycle call.
type LifecycleEvent struct {
	Action LifecycleAction `cbor:"1,keyasint"`
}

// LifecycleAction is a lifecycle call.
type LifecycleAction uint8

const (
	LifecycleOpen     LifecycleAction = 0
	LifecycleClose    LifecycleAction = 1
	LifecycleRelease  LifecycleAction = 2
	LifecycleReleased LifecycleAction = 3
)

// String returns the action name.
func (a LifecycleAction) String() string {
	switch a {
	case LifecycleOpen:
		return "OPEN"
	case LifecycleClose:
		return "CLOSE"
	case LifecycleRelease:
		return "RELEASE"
	case LifecycleReleased:
		return "RELEASED"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures a session state transition.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// BindingEvent records the processor an adapter bound at construction.
type BindingEvent struct {
	// ConfigID is the policy configuration the binding was resolved from.
	ConfigID string `cbor:"1,keyasint"`

	// ProcessorID is the bound processor; empty when none is bound.
	ProcessorID string `cbor:"2,keyasint,omitempty"`
}

// Bound reports whether a processor was bound.
func (b *BindingEvent) Bound() bool {
	return b.ProcessorID != ""
}

// UseCaseEvent captures use case changes.
type UseCaseEvent struct {
	Action UseCaseAction `cbor:"1,keyasint"`

	// UseCases names the affected use cases.
	UseCases []string `cbor:"2,keyasint,omitempty"`
}

// UseCaseAction is a use case change.
type UseCaseAction uint8

const (
	UseCaseAttach   UseCaseAction = 0
	UseCaseDetach   UseCaseAction = 1
	UseCaseActive   UseCaseAction = 2
	UseCaseInactive UseCaseAction = 3
	UseCaseUpdated  UseCaseAction = 4
	UseCaseReset    UseCaseAction = 5
)

// String returns the action name.
func (a UseCaseAction) String() string {
	switch a {
	case UseCaseAttach:
		return "ATTACH"
	case UseCaseDetach:
		return "DETACH"
	case UseCaseActive:
		return "ACTIVE"
	case UseCaseInactive:
		return "INACTIVE"
	case UseCaseUpdated:
		return "UPDATED"
	case UseCaseReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures a failure.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
