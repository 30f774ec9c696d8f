package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	slate "github.com/km-arc/go-slate"
	"github.com/km-arc/go-slate/meta"
)

// ── Identifiers ──────────────────────────────────────────────────────────────

// TypeID identifies a registered type: module URI, module version, type name.
type TypeID struct {
	Module string
	Major  int
	Minor  int
	Name   string
}

func (id TypeID) String() string {
	return fmt.Sprintf("%s/%s %d.%d", id.Module, id.Name, id.Major, id.Minor)
}

// ── Descriptors ──────────────────────────────────────────────────────────────

// Handle is the engine-side view a singleton factory receives. The concrete
// value is always the engine the singleton is being created for; factories
// that need more than identity and logging can type-assert it.
type Handle interface {
	ID() string
	Logger() *slog.Logger
}

// Factory builds the one singleton instance for an engine. Returning nil is
// legal: it means the type has no instance in the engine's current
// lifecycle state, and resolution falls back to the declared meta-object.
type Factory func(h Handle) any

// TypeDescriptor is the immutable registration record of one type. All
// fields are fixed before the descriptor is published to the registry.
type TypeDescriptor struct {
	id        TypeID
	declared  *meta.Object
	extended  *meta.Object // non-nil only for extended types
	singleton bool
	factory   Factory
}

// ID returns the type identifier.
func (d *TypeDescriptor) ID() TypeID { return d.id }

// DeclaredMeta returns the meta-object of the type as registered. It never
// reflects subclassing a factory performs at instantiation time.
func (d *TypeDescriptor) DeclaredMeta() *meta.Object { return d.declared }

// ExtendedMeta returns the registration-time proxy meta-object, or nil for
// plain types.
func (d *TypeDescriptor) ExtendedMeta() *meta.Object { return d.extended }

// Extended reports whether a proxy meta-object was registered.
func (d *TypeDescriptor) Extended() bool { return d.extended != nil }

// Singleton reports whether the engine keeps one instance of this type.
func (d *TypeDescriptor) Singleton() bool { return d.singleton }

// Factory returns the singleton factory, nil for non-singletons.
func (d *TypeDescriptor) Factory() Factory { return d.factory }

// ── Registry ─────────────────────────────────────────────────────────────────

// Registry maps TypeIDs to published descriptors. Registration is guarded;
// lookups after the registration phase need no coordination because
// descriptors are immutable.
type Registry struct {
	mu    sync.RWMutex
	types map[TypeID]*TypeDescriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{types: make(map[TypeID]*TypeDescriptor)}
}

// Register publishes a descriptor. An identifier collision fails with a
// DUPLICATE_REGISTRATION error and leaves the existing descriptor in place;
// registration failures are startup failures, not something to retry at
// runtime.
func (r *Registry) Register(d *TypeDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[d.id]; exists {
		return slate.NewDuplicateRegistration(d.id.String())
	}
	r.types[d.id] = d
	return nil
}

// Lookup returns the descriptor for id, or a TYPE_NOT_FOUND error. It never
// returns a partially constructed descriptor: either the id was published
// via Register, or the lookup fails.
func (r *Registry) Lookup(id TypeID) (*TypeDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.types[id]
	if !ok {
		return nil, slate.NewTypeNotFound(id.String())
	}
	return d, nil
}

// Types returns all registered identifiers, sorted for stable output.
func (r *Registry) Types() []TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TypeID, 0, len(r.types))
	for id := range r.types {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}
