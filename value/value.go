// Package value is the script-facing wrapper around singleton types.
//
// A value.Singleton stands in for a singleton inside script code: property
// reads, writes and method calls route through the engine's meta-object
// resolution, so dispatch always sees the members of whatever type the
// factory actually built.
package value

import (
	slate "github.com/km-arc/go-slate"
	"github.com/km-arc/go-slate/engine"
	"github.com/km-arc/go-slate/meta"
	"github.com/km-arc/go-slate/registry"
)

// Singleton wraps one singleton descriptor for one engine.
type Singleton struct {
	eng  *engine.Engine
	desc *registry.TypeDescriptor
}

// Wrap builds the script wrapper for a singleton descriptor. Wrapping a
// non-singleton fails with a NOT_SINGLETON error; those go through the
// general element paths, not this one.
func Wrap(e *engine.Engine, desc *registry.TypeDescriptor) (*Singleton, error) {
	if !desc.Singleton() {
		return nil, slate.NewNotSingleton(desc.ID().String())
	}
	return &Singleton{eng: e, desc: desc}, nil
}

// Lookup resolves id in the engine's registry and wraps it.
func Lookup(e *engine.Engine, id registry.TypeID) (*Singleton, error) {
	desc, err := e.Registry().Lookup(id)
	if err != nil {
		return nil, err
	}
	return Wrap(e, desc)
}

// Descriptor returns the wrapped type descriptor.
func (s *Singleton) Descriptor() *registry.TypeDescriptor { return s.desc }

// Get reads a property off the live instance. When the factory produced no
// instance, the property resolves against the declared descriptor: known
// names read as nil (script-level "undefined"), unknown names are still
// MEMBER_NOT_FOUND. Strict engines turn the missing instance into a
// FACTORY_RETURNED_NIL error instead.
func (s *Singleton) Get(name string) (any, error) {
	mo, instance, err := s.resolve()
	if err != nil {
		return nil, err
	}
	if instance == nil {
		if s.eng.Strict() {
			return nil, slate.NewFactoryReturnedNil(s.desc.ID().String())
		}
		if _, ok := mo.Property(name); !ok {
			return nil, slate.NewMemberNotFound(mo.TypeName(), name)
		}
		return nil, nil
	}
	return mo.Get(instance, name)
}

// Set writes a property on the live instance.
func (s *Singleton) Set(name string, v any) error {
	mo, instance, err := s.resolve()
	if err != nil {
		return err
	}
	if instance == nil {
		return slate.NewFactoryReturnedNil(s.desc.ID().String())
	}
	return mo.Set(instance, name, v)
}

// Call invokes a method on the live instance. Overload selection runs
// against the resolved meta-object, so an overload added by the factory's
// actual subclass is callable even though registration never saw it.
func (s *Singleton) Call(name string, args ...any) (any, error) {
	mo, instance, err := s.resolve()
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, slate.NewFactoryReturnedNil(s.desc.ID().String())
	}
	return mo.Call(instance, name, args...)
}

// resolve pairs the resolved meta-object with the live instance. The
// instance may be nil (factory produced nothing); callers decide how far
// that carries.
//
// An extended type's proxy meta describes the proxy type, but the factory
// is free to build the declared type (or a subclass of it) instead. When
// the proxy's type is nowhere inside the instance, dispatch switches to
// the instance's own meta-object so the declared members keep working;
// only the proxy's additions need a proxy instance.
func (s *Singleton) resolve() (*meta.Object, any, error) {
	mo, err := s.eng.ResolveMeta(s.desc)
	if err != nil {
		return nil, nil, err
	}
	instance, err := s.eng.Singleton(s.desc)
	if err != nil {
		return nil, nil, err
	}
	if instance != nil && meta.Introspectable(instance) && !mo.Describes(instance) {
		mo = meta.Of(instance)
	}
	return mo, instance, nil
}
