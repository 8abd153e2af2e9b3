// Package log provides structured session tracing.
//
// This package defines the Logger interface and Event types for capturing
// session-level events: lifecycle calls, state transitions, use case
// changes and processor bindings. It is separate from operational logging
// (slog); a trace is a complete machine-readable record of what a session
// did, for debugging and analysis.
//
// # Basic Usage
//
// Applications configure tracing by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Trace = log.NewSlogAdapter(slog.Default())
//
//	// For analysis: write to binary file
//	cfg.Trace, _ = log.NewFileLogger("/var/log/mash/session.slog")
//
//	// Both: use MultiLogger
//	cfg.Trace = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events carry one payload:
//   - Lifecycle: open/close/release calls (LifecycleEvent)
//   - State: session state transitions (StateChangeEvent)
//   - Binding: processor bound to an adapter at construction (BindingEvent)
//   - UseCase: attach/detach and use case callbacks (UseCaseEvent)
//   - Error: failures (ErrorEventData)
//
// # File Format
//
// Trace files are a sequence of CBOR-encoded events with integer keys, by
// convention with the .slog extension. The mash-log CLI tool views them.
package log
