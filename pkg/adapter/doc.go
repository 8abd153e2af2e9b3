// Package adapter wraps a device session so that its information and
// control capabilities are served by policy-aware overrides.
//
// A Session forwards every operation of the wrapped session.Session
// unchanged, except:
//
//   - Info and InfoInternal return the adapter's *Info, which carries the
//     policy.Config the adapter was built with.
//   - Control and ControlInternal return the adapter's *Control, which is
//     bound to the processor resolved from that config.
//
// Both overrides are built once, in New, and returned by identity on every
// call afterwards:
//
//	info := adapter.NewInfo(dev.InfoInternal(), cfg)
//	s, err := adapter.New(dev, info, adapter.Options{Resolver: registry})
//	if err != nil {
//	    return err
//	}
//	s.Control() == s.ControlInternal() // same *adapter.Control
//
// Implementation returns the wrapped session for collaborators that must
// bypass the adapter.
//
// Forwarded calls are not logged, buffered or locked; errors, futures and
// observables come back exactly as the wrapped session produced them.
package adapter
