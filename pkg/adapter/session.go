package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mash-protocol/mash-session/pkg/log"
	"github.com/mash-protocol/mash-session/pkg/policy"
	"github.com/mash-protocol/mash-session/pkg/session"
)

// Construction errors.
var (
	ErrConstruction = errors.New("adapter construction failed")
	ErrNilSession   = errors.New("nil session")
	ErrNilInfo      = errors.New("nil info override")
)

// Options configures adapter construction.
type Options struct {
	// Resolver maps the policy config to a processor. Nil resolves only
	// configs that name no processor.
	Resolver policy.Resolver

	// Logger receives operational logs. Nil disables logging.
	Logger *slog.Logger

	// Trace receives the binding event emitted at construction.
	Trace log.Logger

	// TraceID identifies the adapter in trace events. Generated when empty.
	TraceID string
}

// Session is a session.Session whose info and control capabilities are
// replaced by policy-aware overrides. All other operations forward to the
// wrapped session.
type Session struct {
	impl    session.Session
	info    *Info
	control *Control
}

// New creates an adapter around impl.
//
// The processor is resolved exactly once, here, from info's policy config.
// On failure the returned error wraps ErrConstruction and no adapter is
// returned.
func New(impl session.Session, info *Info, opts Options) (*Session, error) {
	if impl == nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, ErrNilSession)
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, ErrNilInfo)
	}

	cfg := info.PolicyConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: reading policy config: %w", ErrConstruction, err)
	}

	processor, err := policy.Resolve(opts.Resolver, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving processor for %q: %w", ErrConstruction, cfg.ID, err)
	}

	s := &Session{
		impl:    impl,
		info:    info,
		control: NewControl(impl.ControlInternal(), processor),
	}

	s.logBinding(opts, cfg, processor)

	return s, nil
}

// Wrap builds the info override from impl's native info and cfg, then
// creates the adapter.
func Wrap(impl session.Session, cfg policy.Config, opts Options) (*Session, error) {
	if impl == nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, ErrNilSession)
	}
	return New(impl, NewInfo(impl.InfoInternal(), cfg), opts)
}

func (s *Session) logBinding(opts Options, cfg policy.Config, processor policy.Processor) {
	deviceID := s.info.DeviceID()
	binding := &log.BindingEvent{ConfigID: cfg.ID}
	if processor != nil {
		binding.ProcessorID = processor.ID()
	}

	if opts.Logger != nil {
		if binding.Bound() {
			opts.Logger.Debug("adapter: processor bound",
				"deviceID", deviceID,
				"configID", cfg.ID,
				"processorID", binding.ProcessorID)
		} else {
			opts.Logger.Debug("adapter: no processor bound",
				"deviceID", deviceID,
				"configID", cfg.ID)
		}
	}

	if opts.Trace == nil {
		return
	}
	traceID := opts.TraceID
	if traceID == "" {
		traceID = uuid.NewString()
	}
	opts.Trace.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: traceID,
		DeviceID:  deviceID,
		Category:  log.CategoryBinding,
		Source:    log.SourceAdapter,
		Binding:   binding,
	})
}

// Implementation returns the wrapped session.
func (s *Session) Implementation() session.Session {
	return s.impl
}

// Open forwards to the wrapped session.
func (s *Session) Open() error {
	return s.impl.Open()
}

// Close forwards to the wrapped session.
func (s *Session) Close() error {
	return s.impl.Close()
}

// SetActiveResumingMode forwards to the wrapped session.
func (s *Session) SetActiveResumingMode(enabled bool) {
	s.impl.SetActiveResumingMode(enabled)
}

// IsFrontFacing forwards to the wrapped session.
func (s *Session) IsFrontFacing() bool {
	return s.impl.IsFrontFacing()
}

// Release forwards to the wrapped session and returns its future unchanged.
func (s *Session) Release() *session.Future {
	return s.impl.Release()
}

// State forwards to the wrapped session.
func (s *Session) State() session.Observable[session.State] {
	return s.impl.State()
}

// AttachUseCases forwards to the wrapped session.
func (s *Session) AttachUseCases(useCases []session.UseCase) error {
	return s.impl.AttachUseCases(useCases)
}

// DetachUseCases forwards to the wrapped session.
func (s *Session) DetachUseCases(useCases []session.UseCase) {
	s.impl.DetachUseCases(useCases)
}

// Control returns the control override.
func (s *Session) Control() session.Control {
	return s.control
}

// ControlInternal returns the control override.
func (s *Session) ControlInternal() session.ControlInternal {
	return s.control
}

// Info returns the info override.
func (s *Session) Info() session.Info {
	return s.info
}

// InfoInternal returns the info override.
func (s *Session) InfoInternal() session.InfoInternal {
	return s.info
}

// AdapterControl returns the control override with its concrete type.
func (s *Session) AdapterControl() *Control {
	return s.control
}

// AdapterInfo returns the info override with its concrete type.
func (s *Session) AdapterInfo() *Info {
	return s.info
}

// HasTransform forwards to the wrapped session.
func (s *Session) HasTransform() bool {
	return s.impl.HasTransform()
}

// SetPrimary forwards to the wrapped session.
func (s *Session) SetPrimary(primary bool) {
	s.impl.SetPrimary(primary)
}

// ExtendedConfig forwards to the wrapped session.
func (s *Session) ExtendedConfig() policy.Config {
	return s.impl.ExtendedConfig()
}

// SetExtendedConfig forwards to the wrapped session.
// The adapter's own policy config and processor binding are not affected.
func (s *Session) SetExtendedConfig(cfg *policy.Config) {
	s.impl.SetExtendedConfig(cfg)
}

// IsUseCasesCombinationSupported forwards to the wrapped session.
func (s *Session) IsUseCasesCombinationSupported(useCases ...session.UseCase) bool {
	return s.impl.IsUseCasesCombinationSupported(useCases...)
}

// IsUseCasesCombinationSupportedWithStreamSharing forwards to the wrapped
// session.
func (s *Session) IsUseCasesCombinationSupportedWithStreamSharing(withStreamSharing bool, useCases ...session.UseCase) bool {
	return s.impl.IsUseCasesCombinationSupportedWithStreamSharing(withStreamSharing, useCases...)
}

// IsUseCasesCombinationSupportedByFramework forwards to the wrapped session.
func (s *Session) IsUseCasesCombinationSupportedByFramework(useCases ...session.UseCase) bool {
	return s.impl.IsUseCasesCombinationSupportedByFramework(useCases...)
}

// OnUseCaseActive forwards to the wrapped session.
func (s *Session) OnUseCaseActive(useCase session.UseCase) {
	s.impl.OnUseCaseActive(useCase)
}

// OnUseCaseInactive forwards to the wrapped session.
func (s *Session) OnUseCaseInactive(useCase session.UseCase) {
	s.impl.OnUseCaseInactive(useCase)
}

// OnUseCaseUpdated forwards to the wrapped session.
func (s *Session) OnUseCaseUpdated(useCase session.UseCase) {
	s.impl.OnUseCaseUpdated(useCase)
}

// OnUseCaseReset forwards to the wrapped session.
func (s *Session) OnUseCaseReset(useCase session.UseCase) {
	s.impl.OnUseCaseReset(useCase)
}

// Compile-time interface satisfaction check.
var _ session.Session = (*Session)(nil)
