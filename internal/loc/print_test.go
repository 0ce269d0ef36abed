package loc

import "testing"

func TestCanonicalText(t *testing.T) {
	ctx := NewContext()

	file11, _ := ctx.FileLineCol("f.cc", 1, 1)
	file22, _ := ctx.FileLineCol("f.cc", 2, 2)
	nameA, _ := ctx.Name("a")
	named, _ := ctx.NameChild("x", file11)
	cs, _ := ctx.CallSite(nameA, file11)
	fused2, _ := ctx.Fused([]Loc{file11, file22})
	fusedMeta, _ := ctx.FusedWith([]Loc{file11}, "stage=fold")
	fusedEmpty, _ := ctx.Fused(nil)
	lineOnly, _ := ctx.FileLine("f.cc", 10)
	lineCol, _ := ctx.FileLineCol("f.cc", 10, 8)
	fullRange, _ := ctx.File("f.cc", 10, 8, 12, 18)
	colRange, _ := ctx.FileColRange("f.cc", 10, 8, 18)
	opaque, _ := ctx.Opaque(new(int), file11)

	cases := []struct {
		l    Loc
		want string
	}{
		{ctx.Unknown(), `?`},
		{lineOnly, `"f.cc":10`},
		{lineCol, `"f.cc":10:8`},
		{fullRange, `"f.cc":10:8 to 12:18`},
		{colRange, `"f.cc":10:8 to :18`},
		{nameA, `"a"`},
		{named, `"x"("f.cc":1:1)`},
		{cs, `callsite("a" at "f.cc":1:1)`},
		{fused2, `fused["f.cc":1:1,"f.cc":2:2]`},
		{fusedMeta, `fused<"stage=fold">["f.cc":1:1]`},
		{fusedEmpty, `fused[]`},
		{opaque, `"f.cc":1:1`},
	}
	for _, tc := range cases {
		if got := tc.l.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestStringQuotesEscapes(t *testing.T) {
	ctx := NewContext()
	l, err := ctx.FileLineCol(`dir\file "x".pr`, 1, 1)
	if err != nil {
		t.Fatalf("FileLineCol: %v", err)
	}
	want := `"dir\\file \"x\".pr":1:1`
	if got := l.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
