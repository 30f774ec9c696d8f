package registry

import (
	"fmt"

	"github.com/km-arc/go-slate/meta"
)

// Builder is the fluent registration API.
//
//	desc, err := reg.Describe("analytics", 1, 0, "Tracker").
//	    Of(&Tracker{}).
//	    Singleton(newTracker).
//	    Register()
type Builder struct {
	registry  *Registry
	id        TypeID
	prototype any
	extension any
	singleton bool
	factory   Factory
}

// Describe starts a registration chain for (module, version, name).
func (r *Registry) Describe(module string, major, minor int, name string) *Builder {
	return &Builder{
		registry: r,
		id:       TypeID{Module: module, Major: major, Minor: minor, Name: name},
	}
}

// Of declares the registered Go type via a prototype value (typically a
// zero-value pointer). The declared meta-object is built from its type.
func (b *Builder) Of(prototype any) *Builder {
	b.prototype = prototype
	return b
}

// Singleton marks the type as a singleton created by factory. The factory
// runs at most once per engine, on first access.
func (b *Builder) Singleton(factory Factory) *Builder {
	b.singleton = true
	b.factory = factory
	return b
}

// Extended declares a registration-time proxy type via a prototype value.
// The proxy meta-object is built from the proxy's static type, before any
// instance exists; resolution returns it as-is. A proxy normally embeds the
// declared type so its member tables stay a superset of the base.
func (b *Builder) Extended(proxyPrototype any) *Builder {
	b.extension = proxyPrototype
	return b
}

// Register builds the descriptor and publishes it. Malformed chains
// (no prototype, a singleton without a factory) panic: they are wiring
// mistakes in registration code, not runtime conditions.
func (b *Builder) Register() (*TypeDescriptor, error) {
	if b.prototype == nil {
		panic(fmt.Sprintf("registry: %s registered without a prototype", b.id))
	}
	if b.singleton && b.factory == nil {
		panic(fmt.Sprintf("registry: singleton %s registered without a factory", b.id))
	}

	d := &TypeDescriptor{
		id:        b.id,
		declared:  meta.Of(b.prototype),
		singleton: b.singleton,
		factory:   b.factory,
	}
	if b.extension != nil {
		d.extended = meta.Of(b.extension)
	}

	if err := b.registry.Register(d); err != nil {
		return nil, err
	}
	return d, nil
}
