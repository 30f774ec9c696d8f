// Package meta builds runtime meta-objects: inspectable tables of the
// properties and invokable methods of a Go type, used for dynamic dispatch
// from declarative documents and script code.
//
// # Overview
//
// A meta.Object is built from a struct type (or a live value) by reflection.
// Exported fields become properties, exported methods become members of an
// overload set keyed by their script name (lowerCamel of the Go name).
//
// Go has no method overloading, so overloads are modelled through embedding:
// when an outer type declares a method with the same name as one promoted
// from an embedded struct, Go drops the promoted method from the outer
// method set entirely. The builder walks embedded structs and folds those
// shadowed signatures back into one overload set, most derived first:
//
//	type Tracker struct{}
//	func (t *Tracker) TrackPage(page string) {}
//
//	type TrackerImpl struct{ Tracker }
//	func (t *TrackerImpl) TrackPage(page string, props map[string]any) {}
//
//	mo := meta.Of(&TrackerImpl{})
//	mo.Overloads("trackPage") // both the 1-arg and the 2-arg form
//
// A derived type therefore always exposes a superset of its base type's
// members: embedding adds and shadows, it never removes.
//
// Built objects are immutable and memoized per reflect.Type, so describing
// the same type twice returns the same *Object.
package meta
