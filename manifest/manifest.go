// Package manifest loads declarative module manifests.
//
// A manifest is the registration-time declaration of a module: which types
// it publishes, at what version, and whether each type is a plain type, a
// singleton, or an extended type with a registration-time proxy. The Go
// side supplies the matching prototypes and factories as Bindings, and
// Apply cross-checks the two before anything reaches the registry, so a
// manifest drifting out of sync with the code fails at startup instead of
// at dispatch time.
//
//	module: analytics
//	version: "1.0"
//	types:
//	  - name: Tracker
//	    singleton: true
package manifest

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	slate "github.com/km-arc/go-slate"
)

// Manifest is one declarative module declaration.
type Manifest struct {
	Module  string      `yaml:"module"`
	Version string      `yaml:"version"`
	Types   []TypeEntry `yaml:"types"`
}

// TypeEntry declares one published type.
type TypeEntry struct {
	Name      string `yaml:"name"`
	Singleton bool   `yaml:"singleton"`
	Extended  bool   `yaml:"extended"`
}

// Parse decodes and validates a manifest. Invalid manifests fail with a
// MANIFEST_INVALID error carrying the full validation bag.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, slate.NewManifestInvalid("", err)
	}
	if errs := m.Validate(); errs.Has() {
		return nil, slate.NewManifestInvalid(m.Module, errs)
	}
	return &m, nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// MajorMinor splits the declared "major.minor" version. Validate has
// already guaranteed the format by the time this runs.
func (m *Manifest) MajorMinor() (major, minor int) {
	before, after, _ := strings.Cut(m.Version, ".")
	major, _ = strconv.Atoi(before)
	minor, _ = strconv.Atoi(after)
	return major, minor
}

// Validate checks the declarative fields. The rule strings are the same
// pipe syntax the Validator documents; per-entry fields are keyed as
// "types.N.name" in the error bag.
func (m *Manifest) Validate() *Errors {
	v := Make(map[string]string{
		"module":  m.Module,
		"version": m.Version,
	}, Rules{
		"module":  "required|identifier|min:2|max:128",
		"version": "required|version",
	})
	v.Fails()
	errs := v.Errors()

	if len(m.Types) == 0 {
		errs.add("types", "The manifest must declare at least one type.")
	}
	seen := make(map[string]bool)
	for i, t := range m.Types {
		field := fmt.Sprintf("types.%d.name", i)
		tv := Make(map[string]string{field: t.Name}, Rules{field: "required|typename|max:128"})
		if tv.Fails() {
			errs.merge(tv.Errors())
			continue
		}
		if seen[t.Name] {
			errs.add(field, fmt.Sprintf("The type %s is declared twice.", t.Name))
		}
		seen[t.Name] = true
	}
	return errs
}
