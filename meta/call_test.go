package meta_test

import (
	"errors"
	"testing"

	slate "github.com/km-arc/go-slate"
	"github.com/km-arc/go-slate/meta"
)

// ── fixtures ─────────────────────────────────────────────────────────────────

type counter struct {
	Count int
}

func (c *counter) Add(n int) int { c.Count += n; return c.Count }

func (c *counter) Fail() error { return errors.New("boom") }

func (c *counter) Both(n int) (int, error) {
	if n < 0 {
		return 0, errors.New("negative")
	}
	return n, nil
}

// ── Call ─────────────────────────────────────────────────────────────────────

func TestCall_PicksDerivedOverload(t *testing.T) {
	d := &Derived{}
	mo := meta.Of(d)

	got, err := mo.Call(d, "trackPage", "home", map[string]any{"ab": true})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != "derived:home" {
		t.Errorf("got %v want derived:home", got)
	}
}

func TestCall_FallsBackToBaseOverload(t *testing.T) {
	d := &Derived{}
	mo := meta.Of(d)

	got, err := mo.Call(d, "trackPage", "home")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != "base:home" {
		t.Errorf("got %v want base:home", got)
	}
}

func TestCall_BaseDescriptorOnDerivedInstance(t *testing.T) {
	// A base descriptor handed a derived instance still dispatches the
	// members it declares, through the embedded receiver.
	d := &Derived{}
	mo := meta.Of(&Base{})

	got, err := mo.Call(d, "trackPage", "home")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != "base:home" {
		t.Errorf("got %v want base:home", got)
	}
}

func TestCall_NumericConversion(t *testing.T) {
	c := &counter{}
	mo := meta.Of(c)

	// Script layers hand numbers over as float64.
	got, err := mo.Call(c, "add", float64(3))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != 3 {
		t.Errorf("got %v want 3", got)
	}
	if c.Count != 3 {
		t.Errorf("state: got %d want 3", c.Count)
	}
}

func TestCall_NilForMapParameter(t *testing.T) {
	d := &Derived{}
	mo := meta.Of(d)

	if _, err := mo.Call(d, "trackPage", "home", nil); err != nil {
		t.Fatalf("nil map arg: %v", err)
	}
}

func TestCall_ErrorReturnUnwrapped(t *testing.T) {
	c := &counter{}
	mo := meta.Of(c)

	if _, err := mo.Call(c, "fail"); err == nil || err.Error() != "boom" {
		t.Errorf("got %v want boom", err)
	}

	got, err := mo.Call(c, "both", 7)
	if err != nil || got != 7 {
		t.Errorf("both(7): got (%v, %v)", got, err)
	}
	if _, err := mo.Call(c, "both", -1); err == nil {
		t.Error("both(-1): expected error")
	}
}

func TestCall_UnknownMethod(t *testing.T) {
	c := &counter{}
	mo := meta.Of(c)

	_, err := mo.Call(c, "nope")
	if !slate.IsMemberNotFound(err) {
		t.Errorf("got %v want MEMBER_NOT_FOUND", err)
	}
}

func TestCall_NoMatchingOverload(t *testing.T) {
	c := &counter{}
	mo := meta.Of(c)

	_, err := mo.Call(c, "add", "not a number")
	if !slate.IsNoMatchingOverload(err) {
		t.Errorf("got %v want NO_MATCHING_OVERLOAD", err)
	}
	_, err = mo.Call(c, "add", 1, 2)
	if !slate.IsNoMatchingOverload(err) {
		t.Errorf("arity mismatch: got %v want NO_MATCHING_OVERLOAD", err)
	}
}

// ── Get / Set ────────────────────────────────────────────────────────────────

func TestGetSet(t *testing.T) {
	d := &Derived{}
	mo := meta.Of(d)

	if err := mo.Set(d, "label", "hello"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := mo.Get(d, "label")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %v want hello", got)
	}
}

func TestSet_NumericConversion(t *testing.T) {
	d := &Derived{}
	mo := meta.Of(d)

	if err := mo.Set(d, "hits", float64(4)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if d.Hits != 4 {
		t.Errorf("hits: got %d want 4", d.Hits)
	}
}

func TestGet_EmbeddedField(t *testing.T) {
	d := &Derived{Base: Base{Enabled: true}}
	mo := meta.Of(d)

	got, err := mo.Get(d, "enabled")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != true {
		t.Errorf("got %v want true", got)
	}
}

func TestGet_UnknownProperty(t *testing.T) {
	d := &Derived{}
	mo := meta.Of(d)

	if _, err := mo.Get(d, "missing"); !slate.IsMemberNotFound(err) {
		t.Errorf("got %v want MEMBER_NOT_FOUND", err)
	}
}
