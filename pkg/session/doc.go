// Package session defines the device session capability set.
//
// A Session is the controller-side handle of an attached device. It exposes:
//
//   - Lifecycle: Open, Close and Release. Release is asynchronous and returns
//     a Future that completes once the device has been released.
//   - State observation: State returns an Observable stream of State values.
//   - Use cases: AttachUseCases, DetachUseCases, the combination queries and
//     the UseCaseObserver callbacks.
//   - Capabilities: Info/InfoInternal for queries, Control/ControlInternal
//     for device control.
//
// # State Machine
//
//	PENDING_OPEN -> OPENING -> OPEN <-> CONFIGURED
//	      ^                     |
//	      +---- CLOSED <- CLOSING
//	RELEASING -> RELEASED (terminal, reachable from any state)
//
// The package holds no implementation of Session itself. Implementations
// live with the device backends; the adapter package wraps any of them.
package session
