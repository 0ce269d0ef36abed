package loc

import "testing"

func TestWalkVisitsPreOrder(t *testing.T) {
	ctx := NewContext()
	file, _ := ctx.FileLineCol("f", 1, 1)
	name, _ := ctx.NameChild("x", file)
	cs, _ := ctx.CallSite(name, file)

	var kinds []Kind
	cs.Walk(func(l Loc) bool {
		kinds = append(kinds, l.Kind())
		return true
	})
	want := []Kind{KindCallSite, KindName, KindFileRange, KindFileRange}
	if len(kinds) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("visit %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestWalkAborts(t *testing.T) {
	ctx := NewContext()
	file, _ := ctx.FileLineCol("f", 1, 1)
	name, _ := ctx.NameChild("x", file)

	n := 0
	name.Walk(func(Loc) bool {
		n++
		return false
	})
	if n != 1 {
		t.Fatalf("walk should stop after the first visit, visited %d", n)
	}
}

func TestZeroLocIsInert(t *testing.T) {
	var l Loc
	if l.IsValid() {
		t.Fatalf("zero Loc must be invalid")
	}
	if l.Kind() != KindInvalid {
		t.Fatalf("zero Loc kind = %v, want invalid", l.Kind())
	}
	if _, ok := l.File(); ok {
		t.Fatalf("zero Loc must not resolve")
	}
	l.Walk(func(Loc) bool {
		t.Fatalf("zero Loc must not be visited")
		return false
	})
}
