package engine_test

import (
	"testing"

	slate "github.com/km-arc/go-slate"
	"github.com/km-arc/go-slate/engine"
	"github.com/km-arc/go-slate/registry"
)

// ── fixtures ─────────────────────────────────────────────────────────────────

type Store struct {
	Items int
}

func (s *Store) Put() { s.Items++ }

func registerSingleton(t *testing.T, reg *registry.Registry, name string, f registry.Factory) *registry.TypeDescriptor {
	t.Helper()
	desc, err := reg.Describe("core", 1, 0, name).Of(&Store{}).Singleton(f).Register()
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return desc
}

// ── identity and factory invocation ──────────────────────────────────────────

func TestSingleton_IdentityStable(t *testing.T) {
	reg := registry.New()
	desc := registerSingleton(t, reg, "Store", func(h registry.Handle) any { return &Store{} })
	eng := engine.New(reg)
	defer eng.Close()

	a, err := eng.Singleton(desc)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	b, err := eng.Singleton(desc)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if a != b {
		t.Error("expected the same instance on every call")
	}
}

func TestSingleton_FactoryRunsOnce(t *testing.T) {
	reg := registry.New()
	calls := 0
	desc := registerSingleton(t, reg, "Store", func(h registry.Handle) any {
		calls++
		return &Store{}
	})
	eng := engine.New(reg)
	defer eng.Close()

	for i := 0; i < 5; i++ {
		if _, err := eng.Singleton(desc); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Errorf("factory calls: got %d want 1", calls)
	}
}

func TestSingleton_NilResultCached(t *testing.T) {
	reg := registry.New()
	calls := 0
	desc := registerSingleton(t, reg, "Store", func(h registry.Handle) any {
		calls++
		return nil
	})
	eng := engine.New(reg)
	defer eng.Close()

	for i := 0; i < 3; i++ {
		instance, err := eng.Singleton(desc)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if instance != nil {
			t.Fatalf("call %d: got %v want nil", i, instance)
		}
	}
	if calls != 1 {
		t.Errorf("factory calls: got %d want 1", calls)
	}
}

func TestSingleton_FactoryReceivesEngineHandle(t *testing.T) {
	reg := registry.New()
	var got string
	desc := registerSingleton(t, reg, "Store", func(h registry.Handle) any {
		got = h.ID()
		return &Store{}
	})
	eng := engine.New(reg)
	defer eng.Close()

	if _, err := eng.Singleton(desc); err != nil {
		t.Fatalf("singleton: %v", err)
	}
	if got != eng.ID() {
		t.Errorf("handle id: got %q want %q", got, eng.ID())
	}
}

// ── isolation ────────────────────────────────────────────────────────────────

func TestSingleton_PerEngineInstances(t *testing.T) {
	reg := registry.New()
	desc := registerSingleton(t, reg, "Store", func(h registry.Handle) any { return &Store{} })

	e1 := engine.New(reg)
	defer e1.Close()
	e2 := engine.New(reg)
	defer e2.Close()

	a, _ := e1.Singleton(desc)
	b, _ := e2.Singleton(desc)
	if a == b {
		t.Error("engines must not share singleton instances")
	}
}

// ── reentrancy ───────────────────────────────────────────────────────────────

func TestSingleton_ReentrantSamePairFails(t *testing.T) {
	reg := registry.New()
	var eng *engine.Engine
	var desc *registry.TypeDescriptor
	var reentrant error

	desc = registerSingleton(t, reg, "Store", func(h registry.Handle) any {
		// The factory triggers evaluation that asks for the same
		// singleton again before the first instance is published.
		_, reentrant = eng.Singleton(desc)
		return &Store{}
	})
	eng = engine.New(reg)
	defer eng.Close()

	if _, err := eng.Singleton(desc); err != nil {
		t.Fatalf("outer call: %v", err)
	}
	if !slate.IsRecursiveSingletonInit(reentrant) {
		t.Errorf("inner call: got %v want RECURSIVE_SINGLETON_INIT", reentrant)
	}
}

func TestSingleton_ReentrantOtherPairAllowed(t *testing.T) {
	reg := registry.New()
	var eng *engine.Engine

	other := registerSingleton(t, reg, "Other", func(h registry.Handle) any { return &Store{} })
	var innerErr error
	desc := registerSingleton(t, reg, "Store", func(h registry.Handle) any {
		_, innerErr = eng.Singleton(other)
		return &Store{}
	})
	eng = engine.New(reg)
	defer eng.Close()

	if _, err := eng.Singleton(desc); err != nil {
		t.Fatalf("outer call: %v", err)
	}
	if innerErr != nil {
		t.Errorf("cross-type reentrancy must work: %v", innerErr)
	}
}

// ── misuse and teardown ──────────────────────────────────────────────────────

func TestSingleton_NonSingletonDescriptor(t *testing.T) {
	reg := registry.New()
	desc, err := reg.Describe("core", 1, 0, "Plain").Of(&Store{}).Register()
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	eng := engine.New(reg)
	defer eng.Close()

	if _, err := eng.Singleton(desc); !slate.IsNotSingleton(err) {
		t.Errorf("got %v want NOT_SINGLETON", err)
	}
}

func TestSingleton_ClosedEngine(t *testing.T) {
	reg := registry.New()
	desc := registerSingleton(t, reg, "Store", func(h registry.Handle) any { return &Store{} })
	eng := engine.New(reg)
	eng.Close()

	if _, err := eng.Singleton(desc); !slate.IsEngineClosed(err) {
		t.Errorf("got %v want ENGINE_CLOSED", err)
	}
}

// ── state reporting ──────────────────────────────────────────────────────────

func TestSingletonStates(t *testing.T) {
	reg := registry.New()
	ready := registerSingleton(t, reg, "Ready", func(h registry.Handle) any { return &Store{} })
	registerSingleton(t, reg, "Cold", func(h registry.Handle) any { return &Store{} })
	empty := registerSingleton(t, reg, "Empty", func(h registry.Handle) any { return nil })

	eng := engine.New(reg)
	defer eng.Close()
	if _, err := eng.Singleton(ready); err != nil {
		t.Fatalf("ready: %v", err)
	}
	if _, err := eng.Singleton(empty); err != nil {
		t.Fatalf("empty: %v", err)
	}

	states := eng.SingletonStates()
	want := map[string]string{
		ready.ID().String():                 "ready",
		"core/Cold 1.0":                     "uninitialized",
		empty.ID().String():                 "no-instance",
	}
	for id, state := range want {
		if states[id] != state {
			t.Errorf("%s: got %q want %q", id, states[id], state)
		}
	}
}
