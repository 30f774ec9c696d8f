// Package slate is the type system of a declarative scene engine for Go.
//
// Go types are registered under a (module, version, name) identifier and
// exposed to declarative documents and script code through runtime
// meta-objects: inspectable tables of properties and invokable methods.
// A registered type may be a singleton, in which case each engine keeps
// exactly one lazily created instance of it.
//
// # Packages
//
//   - registry:  process-wide table of type descriptors
//   - meta:      reflective property/method tables and overload dispatch
//   - engine:    per-engine state, singleton instance cache, meta resolution
//   - value:     script-facing singleton wrapper (Get / Set / Call)
//   - manifest:  declarative YAML module manifests and validation
//   - config:    .env driven engine configuration
//   - inspect:   HTTP introspection API over the registry and engines
//
// # The resolution problem
//
// A descriptor's declared meta-object is fixed at registration time, but a
// singleton factory is free to return a more derived type than the one it
// was registered with. Dispatching through the declared table would then
// silently miss every method the derived type adds. The engine therefore
// resolves singleton meta-objects against the live instance:
//
//	desc, _ := reg.Lookup(id)
//	mo, _ := eng.ResolveMeta(desc) // describes what the factory actually built
//
// This package holds the shared error type; everything else lives in the
// subpackages above.
package slate
