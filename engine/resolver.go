package engine

import (
	"reflect"

	slate "github.com/km-arc/go-slate"
	"github.com/km-arc/go-slate/meta"
	"github.com/km-arc/go-slate/registry"
)

// ── Meta-object resolution ───────────────────────────────────────────────────

// ResolveMeta answers: which meta-object should represent this singleton
// right now?
//
// The declared meta-object is a registration-time snapshot, and a factory
// is free to return a subclass of the declared type. Dispatching through
// the stale descriptor would drop every member the subclass adds, so the
// plain-singleton path always introspects the live instance:
//
//  1. An extended type's proxy meta-object is returned as-is. Proxy
//     construction happened at registration, it already encodes whatever
//     specialization the type wanted, and re-deriving it here would need
//     an instance the registration step never had.
//  2. Otherwise the instance is requested from the cache (creating it on
//     first access) and its own runtime meta-object is returned.
//  3. If the factory produced no instance, the declared meta-object is the
//     fallback; the type may legitimately have no instance yet.
//
// A reentrant initialization error from the cache propagates to the
// caller. Failures are local to the singleton being resolved and never
// affect what other types resolve to.
//
// Known limitation: a type that is both extended and built by a
// subclass-returning factory resolves to the registration-time proxy, so
// the subclass's additions stay invisible. Fixing that would require proxy
// construction to see an instance that does not exist yet; callers needing
// both must register the exact concrete type. The value layer still
// dispatches declared members when the proxy type is absent from the live
// instance, see value.Singleton.
func (e *Engine) ResolveMeta(desc *registry.TypeDescriptor) (*meta.Object, error) {
	if !desc.Singleton() {
		return nil, slate.NewNotSingleton(desc.ID().String())
	}

	if proxy := desc.ExtendedMeta(); proxy != nil {
		return proxy, nil
	}

	instance, err := e.Singleton(desc)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return desc.DeclaredMeta(), nil
	}
	// A factory handing back something that cannot carry a meta-object is
	// a registration-side mistake; it surfaces as an error scoped to this
	// one type, not as a panic.
	if !meta.Introspectable(instance) {
		return nil, slate.NewFactoryResultInvalid(desc.ID().String(), reflect.TypeOf(instance).String())
	}
	return meta.Of(instance), nil
}
