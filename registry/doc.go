// Package registry is the process-wide table of registered types.
//
// # Overview
//
// A type is registered under a TypeID (module, version, name) with an
// immutable TypeDescriptor: the meta-object of the Go type it was declared
// with, a singleton flag, an optional extended proxy meta-object, and, for
// singletons, the factory an engine runs on first access.
//
// Registration happens once, at startup, usually grouped into Modules:
//
//	type analyticsModule struct{}
//
//	func (analyticsModule) Register(r *registry.Registry) error {
//	    _, err := r.Describe("analytics", 1, 0, "Tracker").
//	        Of(&Tracker{}).
//	        Singleton(func(h registry.Handle) any { return NewTracker() }).
//	        Register()
//	    return err
//	}
//
//	reg := registry.New()
//	err := reg.Install(analyticsModule{})
//
// Descriptors never change after Register returns; engines and the
// inspector read them concurrently without coordination.
//
// The declared meta-object is a registration-time declaration only. A
// singleton factory may return a more derived type, and dispatch must then
// go through the meta-object the engine resolves from the live instance,
// never through the declared one (see package engine).
package registry
