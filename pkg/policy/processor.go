package policy

import (
	"fmt"
	"reflect"
)

// Processor is a session processing collaborator. The session layer only
// cares about its presence and identity.
type Processor interface {
	// ID returns the processor identifier.
	ID() string
}

// IsNil reports whether p is nil or an interface holding a nil pointer,
// map, slice, func or channel.
func IsNil(p Processor) bool {
	if p == nil {
		return true
	}
	switch v := reflect.ValueOf(p); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// OperationFilter is implemented by processors that restrict which control
// operations may reach the device.
type OperationFilter interface {
	// Supports reports whether op may be forwarded to the device.
	Supports(op Operation) bool
}

// Resolver maps a Config to the processor it names.
//
// A nil Processor with a nil error means the configuration binds no
// processor; it must be an untyped nil. Resolution must be free of side
// effects.
type Resolver interface {
	Resolve(cfg Config) (Processor, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(cfg Config) (Processor, error)

// Resolve calls f(cfg).
func (f ResolverFunc) Resolve(cfg Config) (Processor, error) {
	return f(cfg)
}

// Resolve resolves cfg with r. A nil resolver resolves configurations
// without a processor and rejects those that name one.
func Resolve(r Resolver, cfg Config) (Processor, error) {
	if r == nil {
		if cfg.HasProcessor() {
			return nil, fmt.Errorf("%w: %q (no resolver)", ErrUnknownProcessor, cfg.ProcessorID)
		}
		return nil, nil
	}
	p, err := r.Resolve(cfg)
	if err != nil {
		return nil, err
	}
	if p != nil && IsNil(p) {
		return nil, fmt.Errorf("%w: resolver returned nil %T for %q", ErrInvalidProcessor, p, cfg.ProcessorID)
	}
	return p, nil
}

// StaticProcessor is a Processor with a fixed set of supported operations.
type StaticProcessor struct {
	id        string
	supported map[Operation]bool
}

// NewProcessor creates a processor supporting exactly the given operations.
func NewProcessor(id string, supported ...Operation) *StaticProcessor {
	p := &StaticProcessor{
		id:        id,
		supported: make(map[Operation]bool, len(supported)),
	}
	for _, op := range supported {
		p.supported[op] = true
	}
	return p
}

// ID returns the processor identifier.
func (p *StaticProcessor) ID() string {
	return p.id
}

// Supports reports whether op is in the processor's supported set.
func (p *StaticProcessor) Supports(op Operation) bool {
	return p.supported[op]
}

// SupportedOperations returns the supported operations in declaration order.
func (p *StaticProcessor) SupportedOperations() []Operation {
	var ops []Operation
	for _, op := range Operations() {
		if p.supported[op] {
			ops = append(ops, op)
		}
	}
	return ops
}

// Compile-time interface satisfaction checks.
var (
	_ Processor       = (*StaticProcessor)(nil)
	_ OperationFilter = (*StaticProcessor)(nil)
)
