package loc

import (
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"
)

// TestConcurrentInterning hammers one context from many goroutines
// interning the same small content set. Every goroutine must observe
// identical canonical handles, and the table must not grow beyond the
// distinct-content count.
func TestConcurrentInterning(t *testing.T) {
	const workers = 16
	const distinct = 8

	ctx := NewContext()
	results := make([][]Loc, workers)

	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			row := make([]Loc, 0, distinct*3)
			for i := range distinct {
				file, err := ctx.FileLineCol("f.pr", uint32(i+1), 1)
				if err != nil {
					return err
				}
				name, err := ctx.NameChild(fmt.Sprintf("fn%d", i), file)
				if err != nil {
					return err
				}
				cs, err := ctx.CallSite(name, file)
				if err != nil {
					return err
				}
				row = append(row, file, name, cs)
			}
			results[w] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent interning failed: %v", err)
	}

	for w := 1; w < workers; w++ {
		for i := range results[0] {
			if results[w][i] != results[0][i] {
				t.Fatalf("worker %d observed a different canonical instance at %d", w, i)
			}
		}
	}

	// Unknown singleton + 3 nodes per distinct index.
	want := 1 + distinct*3
	if got := ctx.Len(); got != want {
		t.Fatalf("table holds %d nodes, want %d", got, want)
	}
}
