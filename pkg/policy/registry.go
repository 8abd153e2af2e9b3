package policy

import (
	"errors"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

// Registry errors.
var (
	ErrDuplicateProcessor = errors.New("processor already registered")
	ErrInvalidProcessor   = errors.New("invalid processor")
)

// Registry is a concurrent table of processors keyed by ID.
// It implements Resolver.
type Registry struct {
	processors *xsync.MapOf[string, Processor]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		processors: xsync.NewMapOf[string, Processor](),
	}
}

// Register adds p to the registry.
func (r *Registry) Register(p Processor) error {
	if IsNil(p) || p.ID() == "" {
		return ErrInvalidProcessor
	}
	if _, loaded := r.processors.LoadOrStore(p.ID(), p); loaded {
		return fmt.Errorf("%w: %q", ErrDuplicateProcessor, p.ID())
	}
	return nil
}

// Unregister removes the processor with the given ID.
func (r *Registry) Unregister(id string) {
	r.processors.Delete(id)
}

// Lookup returns the processor with the given ID.
func (r *Registry) Lookup(id string) (Processor, bool) {
	return r.processors.Load(id)
}

// Len returns the number of registered processors.
func (r *Registry) Len() int {
	return r.processors.Size()
}

// Resolve returns the processor named by cfg.ProcessorID, or nil if cfg names
// no processor.
func (r *Registry) Resolve(cfg Config) (Processor, error) {
	if !cfg.HasProcessor() {
		return nil, nil
	}
	p, ok := r.processors.Load(cfg.ProcessorID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProcessor, cfg.ProcessorID)
	}
	return p, nil
}

// Compile-time interface satisfaction check.
var _ Resolver = (*Registry)(nil)
