package loc

import (
	"errors"
	"testing"
)

func TestMissingRequiredField(t *testing.T) {
	ctx := NewContext()
	child, _ := ctx.FileLineCol("f", 1, 1)

	cases := []struct {
		name string
		call func() error
	}{
		{"empty filename", func() error { _, err := ctx.File("", 1, 1, 1, 1); return err }},
		{"empty name", func() error { _, err := ctx.Name(""); return err }},
		{"zero name child", func() error { _, err := ctx.NameChild("x", Loc{}); return err }},
		{"zero callee", func() error { _, err := ctx.CallSite(Loc{}, child); return err }},
		{"zero caller", func() error { _, err := ctx.CallSite(child, Loc{}); return err }},
		{"zero inferred callee", func() error { _, err := CallSite(Loc{}, child); return err }},
		{"zero fused element", func() error { _, err := ctx.Fused([]Loc{child, {}}); return err }},
		{"empty chain", func() error { _, err := CallSiteChain(nil); return err }},
	}
	for _, tc := range cases {
		if err := tc.call(); !errors.Is(err, ErrMissingRequiredField) {
			t.Fatalf("%s: got %v, want ErrMissingRequiredField", tc.name, err)
		}
	}
}

func TestContextMismatch(t *testing.T) {
	ctx := NewContext()
	other := NewContext()
	foreign, _ := other.FileLineCol("f", 1, 1)
	local, _ := ctx.FileLineCol("f", 1, 1)

	cases := []struct {
		name string
		call func() error
	}{
		{"name child", func() error { _, err := ctx.NameChild("x", foreign); return err }},
		{"callee", func() error { _, err := ctx.CallSite(foreign, local); return err }},
		{"caller", func() error { _, err := ctx.CallSite(local, foreign); return err }},
		{"fused element", func() error { _, err := ctx.Fused([]Loc{local, foreign}); return err }},
		{"opaque fallback", func() error { _, err := ctx.Opaque(new(int), foreign); return err }},
		{"chain", func() error { _, err := CallSiteChain([]Loc{local, foreign}); return err }},
	}
	for _, tc := range cases {
		if err := tc.call(); !errors.Is(err, ErrContextMismatch) {
			t.Fatalf("%s: got %v, want ErrContextMismatch", tc.name, err)
		}
	}
}

func TestCallSiteChainFoldDeterminism(t *testing.T) {
	ctx := NewContext()
	a, _ := ctx.Name("a")
	b, _ := ctx.Name("b")
	c, _ := ctx.Name("c")

	first, err := CallSiteChain([]Loc{a, b, c})
	if err != nil {
		t.Fatalf("CallSiteChain: %v", err)
	}
	second, err := CallSiteChain([]Loc{a, b, c})
	if err != nil {
		t.Fatalf("CallSiteChain: %v", err)
	}
	if first != second {
		t.Fatalf("chain folding must be deterministic")
	}

	// [A, B, C] folds innermost-first: CallSite(A, CallSite(B, C)).
	outer, ok := first.CallSite()
	if !ok {
		t.Fatalf("expected a call site, got %v", first.Kind())
	}
	if outer.Callee != a {
		t.Fatalf("outer callee must be the first frame")
	}
	inner, ok := outer.Caller.CallSite()
	if !ok {
		t.Fatalf("expected a nested call site, got %v", outer.Caller.Kind())
	}
	if inner.Callee != b || inner.Caller != c {
		t.Fatalf("inner link must combine the last two frames")
	}
}

func TestCallSiteChainSingleFrame(t *testing.T) {
	ctx := NewContext()
	a, _ := ctx.Name("a")
	got, err := CallSiteChain([]Loc{a})
	if err != nil {
		t.Fatalf("CallSiteChain: %v", err)
	}
	if got != a {
		t.Fatalf("a single frame must be returned as is")
	}
}
