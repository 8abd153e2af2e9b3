package sim

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mash-protocol/mash-session/pkg/log"
	"github.com/mash-protocol/mash-session/pkg/policy"
	"github.com/mash-protocol/mash-session/pkg/session"
)

// Use case combination limits.
const (
	// MaxUseCases is the most use cases the device can stream at once.
	MaxUseCases = 3

	// MaxFrameworkUseCases is the most use cases the framework can bind,
	// ignoring device limits.
	MaxFrameworkUseCases = 4
)

// Session is a simulated device session. It is safe for concurrent use.
type Session struct {
	config Config
	id     string

	mu       sync.Mutex
	state    *session.LiveValue[session.State]
	attached []session.UseCase
	active   map[session.UseCase]bool
	resuming bool
	primary  bool
	extended policy.Config
	release  *session.Future

	info    *Info
	control *Control
}

// New creates a simulated session in the PENDING_OPEN state.
func New(config Config) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		config:   config,
		id:       uuid.NewString(),
		state:    session.NewLiveValue(session.StatePendingOpen),
		active:   make(map[session.UseCase]bool),
		extended: policy.Default(),
	}
	s.info = newInfo(s)
	s.control = newControl(s)
	return s, nil
}

// ID returns the session identifier used in trace events.
func (s *Session) ID() string {
	return s.id
}

// Open opens the device.
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.release != nil {
		return session.ErrSessionReleased
	}
	s.traceLifecycle(log.LifecycleOpen)

	switch s.state.Value() {
	case session.StatePendingOpen, session.StateClosed, session.StateClosing:
		s.setState(session.StateOpening, "open requested")
		s.setState(s.openState(), "device opened")
	}
	return nil
}

// Close closes the device. Attached use cases stay attached.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.release != nil {
		return session.ErrSessionReleased
	}
	s.traceLifecycle(log.LifecycleClose)

	switch s.state.Value() {
	case session.StateOpening, session.StateOpen, session.StateConfigured:
		s.setState(session.StateClosing, "close requested")
		s.control.cancelFocus()
		s.setState(session.StateClosed, "device closed")
	}
	return nil
}

// Release releases the device. Every call returns the same future.
func (s *Session) Release() *session.Future {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.release != nil {
		return s.release
	}
	s.release = session.NewFuture()
	s.traceLifecycle(log.LifecycleRelease)
	s.control.cancelFocus()
	s.setState(session.StateReleasing, "release requested")

	time.AfterFunc(s.config.ReleaseDelay, s.finishRelease)
	return s.release
}

func (s *Session) finishRelease() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attached = nil
	clear(s.active)
	s.setState(session.StateReleased, "device released")
	s.traceLifecycle(log.LifecycleReleased)

	s.state.Close()
	s.control.closeObservables()
	s.release.Complete()
}

// State returns the stream of session states.
func (s *Session) State() session.Observable[session.State] {
	return s.state
}

// SetActiveResumingMode records whether the session reopens automatically.
func (s *Session) SetActiveResumingMode(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resuming = enabled
}

// ActiveResumingMode reports the mode set by SetActiveResumingMode.
func (s *Session) ActiveResumingMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resuming
}

// IsFrontFacing reports whether the lens faces the user.
func (s *Session) IsFrontFacing() bool {
	return s.config.LensFacing == session.LensFacingFront
}

// AttachUseCases attaches use cases. Attaching a use case twice fails
// without attaching any of the batch.
func (s *Session) AttachUseCases(useCases []session.UseCase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.release != nil {
		return session.ErrSessionReleased
	}
	for i, uc := range useCases {
		if slices.Contains(s.attached, uc) || slices.Contains(useCases[:i], uc) {
			return fmt.Errorf("%w: %s", session.ErrUseCaseAttached, uc.Name())
		}
	}
	if len(useCases) == 0 {
		return nil
	}

	s.attached = append(s.attached, useCases...)
	s.traceUseCases(log.UseCaseAttach, useCases)
	if s.state.Value() == session.StateOpen {
		s.setState(session.StateConfigured, "use cases attached")
	}
	return nil
}

// DetachUseCases detaches use cases. Unknown use cases are ignored.
func (s *Session) DetachUseCases(useCases []session.UseCase) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var detached []session.UseCase
	for _, uc := range useCases {
		if i := slices.Index(s.attached, uc); i >= 0 {
			s.attached = slices.Delete(s.attached, i, i+1)
			delete(s.active, uc)
			detached = append(detached, uc)
		}
	}
	if len(detached) == 0 {
		return
	}

	s.traceUseCases(log.UseCaseDetach, detached)
	if len(s.attached) == 0 && s.state.Value() == session.StateConfigured {
		s.setState(session.StateOpen, "use cases detached")
	}
}

// Attached returns the attached use cases in attach order.
func (s *Session) Attached() []session.UseCase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.attached)
}

// IsActive reports whether an attached use case is streaming.
func (s *Session) IsActive(useCase session.UseCase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[useCase]
}

func (s *Session) Control() session.Control                 { return s.control }
func (s *Session) ControlInternal() session.ControlInternal { return s.control }
func (s *Session) Info() session.Info                       { return s.info }
func (s *Session) InfoInternal() session.InfoInternal       { return s.info }

// HasTransform reports true: the simulator rotates and mirrors output.
func (s *Session) HasTransform() bool {
	return true
}

// SetPrimary marks the session as the primary of a concurrent pair.
func (s *Session) SetPrimary(primary bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary = primary
}

// IsPrimary reports the value set by SetPrimary.
func (s *Session) IsPrimary() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.primary
}

// ExtendedConfig returns the extended configuration.
func (s *Session) ExtendedConfig() policy.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extended
}

// SetExtendedConfig applies an extended configuration; nil restores the
// default configuration.
func (s *Session) SetExtendedConfig(cfg *policy.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg == nil {
		s.extended = policy.Default()
		return
	}
	s.extended = *cfg
}

// IsUseCasesCombinationSupported reports whether the device can stream the
// use cases together: at most MaxUseCases, one per kind.
func (s *Session) IsUseCasesCombinationSupported(useCases ...session.UseCase) bool {
	return s.IsUseCasesCombinationSupportedWithStreamSharing(false, useCases...)
}

// IsUseCasesCombinationSupportedWithStreamSharing is like
// IsUseCasesCombinationSupported, but with stream sharing preview and video
// capture use cases share one stream.
func (s *Session) IsUseCasesCombinationSupportedWithStreamSharing(withStreamSharing bool, useCases ...session.UseCase) bool {
	if !s.IsUseCasesCombinationSupportedByFramework(useCases...) {
		return false
	}

	streams := 0
	kinds := make(map[session.UseCaseKind]bool)
	shared := false
	for _, uc := range useCases {
		kind := uc.Kind()
		if withStreamSharing && (kind == session.UseCasePreview || kind == session.UseCaseVideoCapture) {
			if !shared {
				shared = true
				streams++
			}
			continue
		}
		if kinds[kind] {
			return false
		}
		kinds[kind] = true
		streams++
	}
	return streams <= MaxUseCases
}

// IsUseCasesCombinationSupportedByFramework reports whether the framework
// can bind the use cases at all.
func (s *Session) IsUseCasesCombinationSupportedByFramework(useCases ...session.UseCase) bool {
	return len(useCases) > 0 && len(useCases) <= MaxFrameworkUseCases
}

func (s *Session) OnUseCaseActive(useCase session.UseCase) {
	s.useCaseEvent(useCase, log.UseCaseActive)
}

func (s *Session) OnUseCaseInactive(useCase session.UseCase) {
	s.useCaseEvent(useCase, log.UseCaseInactive)
}

func (s *Session) OnUseCaseUpdated(useCase session.UseCase) {
	s.useCaseEvent(useCase, log.UseCaseUpdated)
}

func (s *Session) OnUseCaseReset(useCase session.UseCase) {
	s.useCaseEvent(useCase, log.UseCaseReset)
}

func (s *Session) useCaseEvent(useCase session.UseCase, action log.UseCaseAction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.attached, useCase) {
		s.debugLog("sim: event for detached use case ignored", "useCase", useCase.Name(), "action", action.String())
		return
	}
	switch action {
	case log.UseCaseActive:
		s.active[useCase] = true
	case log.UseCaseInactive:
		delete(s.active, useCase)
	}
	s.traceUseCases(action, []session.UseCase{useCase})
}

// openState is the state an opened device lands in. Caller holds s.mu.
func (s *Session) openState() session.State {
	if len(s.attached) > 0 {
		return session.StateConfigured
	}
	return session.StateOpen
}

// activeLocked returns an error unless the device is open. Caller holds s.mu.
func (s *Session) activeLocked() error {
	if s.release != nil {
		return session.ErrSessionReleased
	}
	switch s.state.Value() {
	case session.StateOpen, session.StateConfigured:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrNotActive, s.state.Value())
	}
}

// setState publishes a transition. Caller holds s.mu.
func (s *Session) setState(state session.State, reason string) {
	old := s.state.Value()
	if old == state {
		return
	}
	s.state.Set(state)
	s.debugLog("sim: state change", "sessionID", s.id, "from", old.String(), "to", state.String(), "reason", reason)
	s.trace(log.Event{
		Category: log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: old.String(),
			NewState: state.String(),
			Reason:   reason,
		},
	})
}

func (s *Session) traceLifecycle(action log.LifecycleAction) {
	s.trace(log.Event{
		Category:  log.CategoryLifecycle,
		Lifecycle: &log.LifecycleEvent{Action: action},
	})
}

func (s *Session) traceUseCases(action log.UseCaseAction, useCases []session.UseCase) {
	names := make([]string, len(useCases))
	for i, uc := range useCases {
		names[i] = uc.Name()
	}
	s.trace(log.Event{
		Category: log.CategoryUseCase,
		UseCase:  &log.UseCaseEvent{Action: action, UseCases: names},
	})
}

func (s *Session) traceError(err error, context string) {
	if err == nil || errors.Is(err, session.ErrOperationCanceled) {
		return
	}
	s.trace(log.Event{
		Category: log.CategoryError,
		Error:    &log.ErrorEventData{Message: err.Error(), Context: context},
	})
}

func (s *Session) trace(event log.Event) {
	if s.config.Trace == nil {
		return
	}
	event.Timestamp = time.Now()
	event.SessionID = s.id
	event.DeviceID = s.config.DeviceID
	event.Source = log.SourceSession
	s.config.Trace.Log(event)
}

func (s *Session) debugLog(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, args...)
	}
}

// Compile-time interface satisfaction check.
var _ session.Session = (*Session)(nil)
