package meta

import (
	"reflect"

	slate "github.com/km-arc/go-slate"
)

// ── Dynamic dispatch ─────────────────────────────────────────────────────────

// Get reads a property from instance. The instance may be of the described
// type itself or of a type embedding it, so a base descriptor keeps working
// for the members it declares even when handed a derived instance.
func (o *Object) Get(instance any, name string) (any, error) {
	p, ok := o.props[name]
	if !ok {
		return nil, slate.NewMemberNotFound(o.name, name)
	}
	root, ok := o.receiverRoot(instance)
	if !ok {
		return nil, slate.NewMemberNotFound(o.name, name)
	}
	fv, err := root.Elem().FieldByIndexErr(p.index)
	if err != nil {
		return nil, slate.NewMemberNotFound(o.name, name)
	}
	return fv.Interface(), nil
}

// Set writes a property on instance, converting script numbers where the
// conversion is loss-tolerant (float64 from a script into an int field).
func (o *Object) Set(instance any, name string, value any) error {
	p, ok := o.props[name]
	if !ok {
		return slate.NewMemberNotFound(o.name, name)
	}
	root, ok := o.receiverRoot(instance)
	if !ok {
		return slate.NewMemberNotFound(o.name, name)
	}
	fv, err := root.Elem().FieldByIndexErr(p.index)
	if err != nil {
		return slate.NewMemberNotFound(o.name, name)
	}
	converted, ok := convertArg(value, p.Type)
	if !ok {
		return slate.NewNoMatchingOverload(o.name, name, 1)
	}
	fv.Set(converted)
	return nil
}

// Call invokes the named method on instance, selecting the first overload
// (most derived first) whose receiver and arguments fit. A derived type's
// overload therefore beats the base type's when both accept the call.
func (o *Object) Call(instance any, name string, args ...any) (any, error) {
	overloads := o.methods[name]
	if len(overloads) == 0 {
		return nil, slate.NewMemberNotFound(o.name, name)
	}
	root, rootOK := o.receiverRoot(instance)

	for _, m := range overloads {
		if !rootOK {
			break
		}
		recv, ok := m.receiver(root)
		if !ok {
			continue
		}
		in, ok := m.convertArgs(args)
		if !ok {
			continue
		}
		return m.invoke(recv, in)
	}
	return nil, slate.NewNoMatchingOverload(o.name, name, len(args))
}

// ── Receiver navigation ──────────────────────────────────────────────────────

// Describes reports whether the described type is reachable from instance,
// either as the instance's own type or embedded somewhere inside it.
// Dispatch through this object only works when it is.
func (o *Object) Describes(instance any) bool {
	_, ok := o.receiverRoot(instance)
	return ok
}

// receiverRoot locates the described type inside instance: the instance
// itself when the types match, or the embedded field of that type when the
// instance is more derived than the descriptor.
func (o *Object) receiverRoot(instance any) (reflect.Value, bool) {
	if instance == nil {
		return reflect.Value{}, false
	}
	return embeddedValue(reflect.ValueOf(instance), o.typ)
}

func embeddedValue(v reflect.Value, want reflect.Type) (reflect.Value, bool) {
	if v.Type() == want {
		return v, true
	}
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	st := v.Elem()
	for i := 0; i < st.Type().NumField(); i++ {
		f := st.Type().Field(i)
		if !f.Anonymous {
			continue
		}
		fv := st.Field(i)
		if fv.Kind() != reflect.Pointer {
			if !fv.CanAddr() {
				continue
			}
			fv = fv.Addr()
		}
		if fv.Kind() != reflect.Pointer || fv.IsNil() {
			continue
		}
		if found, ok := embeddedValue(fv, want); ok {
			return found, ok
		}
	}
	return reflect.Value{}, false
}

// receiver walks the method's anonymous-field path down from the described
// value to the embedded struct the method was declared on.
func (m Method) receiver(root reflect.Value) (reflect.Value, bool) {
	cur := root
	for _, idx := range m.path {
		if cur.Kind() != reflect.Pointer || cur.IsNil() {
			return reflect.Value{}, false
		}
		fv := cur.Elem().Field(idx)
		if fv.Kind() != reflect.Pointer {
			if !fv.CanAddr() {
				return reflect.Value{}, false
			}
			fv = fv.Addr()
		}
		cur = fv
	}
	if !cur.Type().AssignableTo(m.recv) {
		return reflect.Value{}, false
	}
	return cur, true
}

// ── Argument conversion ──────────────────────────────────────────────────────

func (m Method) convertArgs(args []any) ([]reflect.Value, bool) {
	t := m.fn.Type()
	if t.IsVariadic() || t.NumIn()-1 != len(args) {
		return nil, false
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		v, ok := convertArg(a, t.In(i+1))
		if !ok {
			return nil, false
		}
		in[i] = v
	}
	return in, true
}

// convertArg adapts one script value to a parameter type. Assignability is
// taken as-is; numeric kinds convert to each other because script layers
// tend to hand every number over as float64. Nothing else converts.
func convertArg(a any, t reflect.Type) (reflect.Value, bool) {
	if a == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		default:
			return reflect.Value{}, false
		}
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(t) {
		return v, true
	}
	if isNumeric(v.Kind()) && isNumeric(t.Kind()) {
		return v.Convert(t), true
	}
	return reflect.Value{}, false
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// invoke calls the method and normalizes its results: a trailing error
// return is unwrapped, the first remaining value (if any) is the result.
func (m Method) invoke(recv reflect.Value, in []reflect.Value) (any, error) {
	out := m.fn.Call(append([]reflect.Value{recv}, in...))
	if len(out) == 0 {
		return nil, nil
	}
	last := out[len(out)-1]
	if last.Type() == errorType {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
