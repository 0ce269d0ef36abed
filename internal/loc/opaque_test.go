package loc

import (
	"errors"
	"testing"
)

type externNode struct {
	id int
}

type otherNode struct {
	id int
}

func TestOpaqueRoundTrip(t *testing.T) {
	ctx := NewContext()
	fallback, _ := ctx.FileLineCol("gen.pr", 1, 1)
	ptr := &externNode{id: 7}

	l, err := ctx.Opaque(ptr, fallback)
	if err != nil {
		t.Fatalf("Opaque: %v", err)
	}
	got, ok := UnderlyingAs[*externNode](l)
	if !ok {
		t.Fatalf("expected the tagged type to round-trip")
	}
	if got != ptr {
		t.Fatalf("underlying pointer changed through the round trip")
	}

	if _, ok := UnderlyingAs[*otherNode](l); ok {
		t.Fatalf("an unrelated type must return the absence value")
	}
	if _, ok := UnderlyingAs[*externNode](fallback); ok {
		t.Fatalf("a non-opaque location has no underlying value")
	}
}

func TestMustUnderlyingAsPanicsOnMismatch(t *testing.T) {
	ctx := NewContext()
	l, err := ctx.Opaque(&externNode{}, Loc{})
	if err != nil {
		t.Fatalf("Opaque: %v", err)
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic on a proven-type mismatch")
		}
		if err, ok := r.(error); !ok || !errors.Is(err, ErrTypeTagMismatch) {
			t.Fatalf("panic value should wrap ErrTypeTagMismatch, got %v", r)
		}
	}()
	MustUnderlyingAs[*otherNode](l)
}

func TestOpaqueIdentityIsValueDependent(t *testing.T) {
	ctx := NewContext()
	p1 := &externNode{id: 1}
	p2 := &externNode{id: 1}

	a, _ := ctx.Opaque(p1, Loc{})
	b, _ := ctx.Opaque(p1, Loc{})
	c, _ := ctx.Opaque(p2, Loc{})
	if a != b {
		t.Fatalf("the same backing object must intern to one instance")
	}
	if a == c {
		t.Fatalf("a different backing object must intern a distinct instance")
	}
}

func TestOpaqueFallback(t *testing.T) {
	ctx := NewContext()
	l, err := ctx.Opaque(&externNode{}, Loc{})
	if err != nil {
		t.Fatalf("Opaque: %v", err)
	}
	o, ok := l.Opaque()
	if !ok || !o.Fallback.IsUnknown() {
		t.Fatalf("a zero fallback must default to the Unknown singleton")
	}

	fb, _ := ctx.FileLineCol("f", 2, 3)
	l2, err := ctx.Opaque(&externNode{}, fb)
	if err != nil {
		t.Fatalf("Opaque: %v", err)
	}
	if l2.String() != fb.String() {
		t.Fatalf("only the fallback serializes: got %q, want %q", l2, fb)
	}
}

func TestOpaqueRejectsBadUnderlying(t *testing.T) {
	ctx := NewContext()
	if _, err := ctx.Opaque(nil, Loc{}); !errors.Is(err, ErrBadUnderlying) {
		t.Fatalf("nil underlying: got %v, want ErrBadUnderlying", err)
	}
	if _, err := ctx.Opaque([]int{1}, Loc{}); !errors.Is(err, ErrBadUnderlying) {
		t.Fatalf("non-comparable underlying: got %v, want ErrBadUnderlying", err)
	}
}
