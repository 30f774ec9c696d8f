package meta

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Object is the runtime meta-object of a single Go type: its property table
// and its method table, with methods grouped into overload sets by script
// name. Objects are immutable once built.
type Object struct {
	typ     reflect.Type // pointer-to-struct type being described
	name    string
	props   map[string]Property
	methods map[string][]Method
}

// Property describes one exported field, including fields reached through
// embedded structs.
type Property struct {
	Name   string // script name (lowerCamel)
	GoName string
	Type   reflect.Type

	index []int // field index path from the described struct
}

// Method describes one invokable method. Overloads of the same script name
// are stored most derived first: depth 0 is the described type's own method
// set, higher depths come from embedded structs whose promotion was
// shadowed.
type Method struct {
	Name   string // script name (lowerCamel)
	GoName string

	fn    reflect.Value // method func, receiver as first argument
	recv  reflect.Type
	path  []int // anonymous-field path from the described value to the receiver
	depth int
}

// NumArgs returns the number of call arguments the method takes, not
// counting the receiver.
func (m Method) NumArgs() int { return m.fn.Type().NumIn() - 1 }

// Signature renders the argument list, e.g. "(string, map[string]interface {})".
func (m Method) Signature() string {
	t := m.fn.Type()
	parts := make([]string, 0, t.NumIn()-1)
	for i := 1; i < t.NumIn(); i++ {
		parts = append(parts, t.In(i).String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ── Accessors ────────────────────────────────────────────────────────────────

// TypeName returns the described type's name, without package path.
func (o *Object) TypeName() string { return o.name }

// GoType returns the described pointer-to-struct type.
func (o *Object) GoType() reflect.Type { return o.typ }

// Property looks up a property by script name.
func (o *Object) Property(name string) (Property, bool) {
	p, ok := o.props[name]
	return p, ok
}

// Properties returns all properties sorted by script name.
func (o *Object) Properties() []Property {
	out := make([]Property, 0, len(o.props))
	for _, p := range o.props {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Overloads returns the overload set for a script name, most derived first.
// The returned slice must not be mutated.
func (o *Object) Overloads(name string) []Method {
	return o.methods[name]
}

// MethodNames returns all method script names, sorted.
func (o *Object) MethodNames() []string {
	out := make([]string, 0, len(o.methods))
	for name := range o.methods {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasMember reports whether name is a property or a method.
func (o *Object) HasMember(name string) bool {
	if _, ok := o.props[name]; ok {
		return true
	}
	_, ok := o.methods[name]
	return ok
}

// ── Construction ─────────────────────────────────────────────────────────────

// cache memoizes built objects per pointer-to-struct type.
var cache sync.Map // reflect.Type → *Object

// Of builds (or returns the memoized) meta-object for a live value's
// concrete type. This is the dynamic-introspection path: the result
// describes whatever type v actually is, not what a caller declared.
func Of(v any) *Object {
	if v == nil {
		panic("meta: Of(nil)")
	}
	return ForType(reflect.TypeOf(v))
}

// Introspectable reports whether v's concrete type can carry a meta-object,
// meaning a struct or a pointer to one. Of panics on anything else.
func Introspectable(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// ForType builds (or returns the memoized) meta-object for t, which must be
// a struct type or a pointer to one. Passing anything else is a programming
// error and panics, like registering a malformed binding would.
func ForType(t reflect.Type) *Object {
	pt := normalize(t)
	if mo, ok := cache.Load(pt); ok {
		return mo.(*Object)
	}
	mo := build(pt)
	actual, _ := cache.LoadOrStore(pt, mo)
	return actual.(*Object)
}

func normalize(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Struct {
		return reflect.PointerTo(t)
	}
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("meta: %s is not a struct or pointer to struct", t))
	}
	return t
}

func build(pt reflect.Type) *Object {
	st := pt.Elem()
	o := &Object{
		typ:     pt,
		name:    st.Name(),
		props:   make(map[string]Property),
		methods: make(map[string][]Method),
	}

	// Breadth first over the embedding tree, so a shallower member always
	// wins over a deeper one with the same script name, matching Go's own
	// promotion rules for the unambiguous cases. Within one level the
	// first embedding wins; Go would call that ambiguous and promote
	// nothing, which no registered type should rely on anyway.
	queue := []buildLevel{{pt: pt}}
	seen := make(map[string]bool)              // script name + sig, methods
	visited := map[reflect.Type]bool{pt: true} // guards cyclic and diamond embedding

	for depth := 0; len(queue) > 0; depth++ {
		var next []buildLevel
		for _, l := range queue {
			collectMethods(o, l, depth, seen)
			collectProps(o, l)

			st := l.pt.Elem()
			for i := 0; i < st.NumField(); i++ {
				f := st.Field(i)
				if !f.Anonymous {
					continue
				}
				et := f.Type
				if et.Kind() == reflect.Pointer {
					et = et.Elem()
				}
				if et.Kind() != reflect.Struct {
					continue
				}
				ept := reflect.PointerTo(et)
				if visited[ept] {
					continue
				}
				visited[ept] = true
				next = append(next, buildLevel{pt: ept, path: appendPath(l.path, i)})
			}
		}
		queue = next
	}

	// Overload sets stay ordered most derived first; append order already
	// is breadth order, the sort just documents the invariant.
	for name := range o.methods {
		ms := o.methods[name]
		sort.SliceStable(ms, func(i, j int) bool { return ms[i].depth < ms[j].depth })
	}
	return o
}

// buildLevel is one node of the embedding tree during descriptor build.
type buildLevel struct {
	pt   reflect.Type
	path []int
}

func collectProps(o *Object, l buildLevel) {
	st := l.pt.Elem()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if f.Anonymous || !f.IsExported() {
			continue
		}
		name := scriptName(f.Name)
		if _, taken := o.props[name]; taken {
			continue // shadowed by a shallower field
		}
		o.props[name] = Property{
			Name:   name,
			GoName: f.Name,
			Type:   f.Type,
			index:  appendPath(l.path, i),
		}
	}
}

// collectMethods records one level's method set. Level 0 is the described
// type itself, whose set already contains every promoted, non-shadowed
// method; deeper levels recover the signatures that shadowing removed.
func collectMethods(o *Object, l buildLevel, depth int, seen map[string]bool) {
	for i := 0; i < l.pt.NumMethod(); i++ {
		m := l.pt.Method(i)
		if !m.IsExported() {
			continue
		}
		name := scriptName(m.Name)
		key := name + sigKey(m.Func.Type())
		if seen[key] {
			continue // same signature already provided closer to the root
		}
		seen[key] = true
		o.methods[name] = append(o.methods[name], Method{
			Name:   name,
			GoName: m.Name,
			fn:     m.Func,
			recv:   l.pt,
			path:   l.path,
			depth:  depth,
		})
	}
}

// sigKey identifies a method signature independent of the receiver type.
func sigKey(fn reflect.Type) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := 1; i < fn.NumIn(); i++ {
		if i > 1 {
			b.WriteByte(',')
		}
		b.WriteString(fn.In(i).String())
	}
	b.WriteByte(')')
	for i := 0; i < fn.NumOut(); i++ {
		b.WriteByte(',')
		b.WriteString(fn.Out(i).String())
	}
	return b.String()
}

func appendPath(path []int, i int) []int {
	out := make([]int, len(path), len(path)+1)
	copy(out, path)
	return append(out, i)
}

// scriptName converts a Go identifier to its script-facing form:
// TrackPage → trackPage.
func scriptName(goName string) string {
	r, size := utf8.DecodeRuneInString(goName)
	return string(unicode.ToLower(r)) + goName[size:]
}
