package loc

import "testing"

func TestCloseReleasesContext(t *testing.T) {
	ctx := NewContext()
	if _, err := ctx.FileLineCol("f", 1, 1); err != nil {
		t.Fatalf("FileLineCol: %v", err)
	}
	ctx.Close()

	mustPanic(t, "intern after close", func() {
		_, _ = ctx.FileLineCol("f", 1, 1)
	})
	mustPanic(t, "unknown after close", func() {
		l := ctx.Unknown()
		_ = l.Kind()
	})
	mustPanic(t, "double close", func() {
		ctx.Close()
	})
}

func TestHandlesOutliveNothing(t *testing.T) {
	ctx := NewContext()
	l, err := ctx.FileLineCol("f", 1, 1)
	if err != nil {
		t.Fatalf("FileLineCol: %v", err)
	}
	ctx.Close()
	mustPanic(t, "resolve after close", func() {
		_, _ = l.File()
	})
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected a panic", name)
		}
	}()
	fn()
}
