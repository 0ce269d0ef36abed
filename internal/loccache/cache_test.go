package loccache

import (
	"testing"

	"prism/internal/loc"
)

func TestDiskCachePutGet(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	ctx := loc.NewContext()
	roots := buildRoots(t, ctx)
	snap, err := Export(roots)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	key := DigestOf([]byte("module contents"))
	if err := cache.Put(key, snap); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got Snapshot
	ok, err := cache.Get(key, &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if got.Schema != snap.Schema || len(got.Nodes) != len(snap.Nodes) || len(got.Roots) != len(snap.Roots) {
		t.Fatalf("snapshot changed through the cache: %+v vs %+v", got, snap)
	}

	dst := loc.NewContext()
	restored, err := Import(dst, &got)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	for i := range roots {
		if roots[i].String() != restored[i].String() {
			t.Fatalf("root %d: %q became %q", i, roots[i], restored[i])
		}
	}
}

func TestDiskCacheMiss(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	var out Snapshot
	ok, err := cache.Get(DigestOf([]byte("absent")), &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss for an unknown key")
	}
}

func TestDigestIsStable(t *testing.T) {
	a := DigestOf([]byte("same"))
	b := DigestOf([]byte("same"))
	c := DigestOf([]byte("different"))
	if a != b {
		t.Fatalf("equal content must produce equal digests")
	}
	if a == c {
		t.Fatalf("different content must produce different digests")
	}
	if len(a.String()) != 64 {
		t.Fatalf("hex digest should be 64 chars, got %d", len(a.String()))
	}
}
