// Package policy describes how a device session is overridden by a
// processing layer.
//
// A Config names the processor (if any) that should be bound to a session,
// along with the session-level capability flags the processing layer
// advertises. A Resolver maps a Config to a Processor:
//
//	registry := policy.NewRegistry()
//	_ = registry.Register(policy.NewProcessor("night", policy.OperationZoom))
//
//	cfg := policy.Config{ID: "vendor-night", ProcessorID: "night"}
//	p, err := registry.Resolve(cfg) // p.ID() == "night"
//
// A Config without a ProcessorID resolves to no processor. That is a normal
// outcome, not an error.
//
// # Operation Filtering
//
// Processors are opaque to the session layer. A processor that restricts
// which control operations may reach the device implements OperationFilter;
// operations it does not support fail with ErrOperationNotSupported.
//
// # Documents
//
// Policy documents are YAML files holding a policy and the processors it may
// refer to. See ParseYAML and LoadFile.
package policy
