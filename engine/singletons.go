package engine

import (
	slate "github.com/km-arc/go-slate"
	"github.com/km-arc/go-slate/registry"
)

// ── Singleton instance cache ─────────────────────────────────────────────────

type singletonState uint8

const (
	stateInProgress singletonState = iota + 1
	stateReady
)

// singletonEntry tracks one (engine, descriptor) pair. The explicit
// in-progress state is the recursion sentinel: a mutex alone would deadlock
// when a factory reenters the engine on the same goroutine.
type singletonEntry struct {
	state    singletonState
	instance any
}

// Singleton returns the one live instance for desc, creating it on first
// access. Every later call observes the same reference, and the factory
// runs at most once per engine: a nil factory result is cached as the
// outcome rather than retried.
//
// A reentrant request for the same descriptor while its factory is still
// running fails with a RECURSIVE_SINGLETON_INIT error.
func (e *Engine) Singleton(desc *registry.TypeDescriptor) (any, error) {
	if !desc.Singleton() {
		return nil, slate.NewNotSingleton(desc.ID().String())
	}

	id := desc.ID()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, slate.NewEngineClosed(e.id)
	}
	if entry, ok := e.singletons[id]; ok {
		switch entry.state {
		case stateReady:
			e.mu.Unlock()
			return entry.instance, nil
		case stateInProgress:
			e.mu.Unlock()
			e.log.Warn("recursive singleton initialization", "type", id.String())
			return nil, slate.NewRecursiveSingletonInit(id.String())
		}
	}
	entry := &singletonEntry{state: stateInProgress}
	e.singletons[id] = entry
	e.mu.Unlock()

	// The factory runs outside the lock: it may reenter the engine for
	// other singletons, and that must not block them.
	instance := desc.Factory()(e)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, slate.NewEngineClosed(e.id)
	}
	entry.state = stateReady
	entry.instance = instance
	e.mu.Unlock()

	if instance == nil {
		e.log.Warn("singleton factory returned no instance", "type", id.String())
	} else {
		e.log.Debug("singleton created", "type", id.String())
	}
	return instance, nil
}

// SingletonStates reports the cache state per registered singleton type,
// for the inspect API: "uninitialized", "in-progress", "ready" or
// "no-instance" (factory ran and returned nil).
func (e *Engine) SingletonStates() map[string]string {
	out := make(map[string]string)

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, id := range e.reg.Types() {
		desc, err := e.reg.Lookup(id)
		if err != nil || !desc.Singleton() {
			continue
		}
		entry, ok := e.singletons[id]
		switch {
		case !ok:
			out[id.String()] = "uninitialized"
		case entry.state == stateInProgress:
			out[id.String()] = "in-progress"
		case entry.instance == nil:
			out[id.String()] = "no-instance"
		default:
			out[id.String()] = "ready"
		}
	}
	return out
}
