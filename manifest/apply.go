package manifest

import (
	"fmt"

	slate "github.com/km-arc/go-slate"
	"github.com/km-arc/go-slate/registry"
)

// Binding is the Go side of one declared type: the prototype the declared
// meta-object is built from, the singleton factory, and the optional
// extension proxy prototype.
type Binding struct {
	Prototype any
	Factory   registry.Factory
	Extension any
}

// Apply cross-checks a manifest against its Go bindings and registers the
// result. Both directions are enforced: a declared type without a binding
// and a binding without a declaration each fail, as do flag mismatches
// (singleton without a factory, extended without a proxy prototype, or
// either the other way around). Nothing is registered until declarations
// and bindings agree; identifier collisions then still fail in Register.
func Apply(reg *registry.Registry, m *Manifest, bindings map[string]Binding) error {
	if errs := m.Validate(); errs.Has() {
		return slate.NewManifestInvalid(m.Module, errs)
	}

	declared := make(map[string]TypeEntry, len(m.Types))
	for _, t := range m.Types {
		declared[t.Name] = t
	}
	for name := range bindings {
		if _, ok := declared[name]; !ok {
			return slate.NewManifestInvalid(m.Module,
				fmt.Errorf("binding for %q has no manifest declaration", name))
		}
	}
	for _, t := range m.Types {
		b, ok := bindings[t.Name]
		if !ok {
			return slate.NewManifestInvalid(m.Module,
				fmt.Errorf("declared type %q has no Go binding", t.Name))
		}
		if b.Prototype == nil {
			return slate.NewManifestInvalid(m.Module,
				fmt.Errorf("binding for %q has no prototype", t.Name))
		}
		if t.Singleton != (b.Factory != nil) {
			return slate.NewManifestInvalid(m.Module,
				fmt.Errorf("type %q: singleton flag and factory do not agree", t.Name))
		}
		if t.Extended != (b.Extension != nil) {
			return slate.NewManifestInvalid(m.Module,
				fmt.Errorf("type %q: extended flag and proxy prototype do not agree", t.Name))
		}
	}

	major, minor := m.MajorMinor()
	for _, t := range m.Types {
		b := bindings[t.Name]
		builder := reg.Describe(m.Module, major, minor, t.Name).Of(b.Prototype)
		if t.Singleton {
			builder.Singleton(b.Factory)
		}
		if t.Extended {
			builder.Extended(b.Extension)
		}
		if _, err := builder.Register(); err != nil {
			return err
		}
	}
	return nil
}

// Module bundles a manifest with its bindings so it can be installed with
// registry.Install alongside hand-written modules.
type Module struct {
	Manifest *Manifest
	Bindings map[string]Binding
}

func (m Module) Register(r *registry.Registry) error {
	return Apply(r, m.Manifest, m.Bindings)
}
