// Package loccache serializes interned location tables for reuse
// across compiler runs: a Snapshot is the portable form of a set of
// location values, and DiskCache stores snapshots keyed by content
// digest.
package loccache

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"prism/internal/loc"
)

// SnapshotSchemaVersion is bumped whenever the Snapshot layout changes.
const SnapshotSchemaVersion uint16 = 1

// ErrCorruptSnapshot reports a snapshot that cannot be imported:
// schema mismatch, out-of-range reference, or an unserializable kind.
var ErrCorruptSnapshot = errors.New("loccache: corrupt snapshot")

// Snapshot is the serialized form of a set of location values from one
// Context. Node references are 1-based indices into Nodes, with
// children always stored before their parents, so import can rebuild
// bottom-up in one pass. Opaque locations are exported as their
// fallback: the underlying pointer never serializes.
type Snapshot struct {
	Schema  uint16
	Strings []string
	Nodes   []Node
	Roots   []uint32
}

// Node is one serialized location, a flattened counterpart of the
// interner's descriptor. Str indexes Strings; Child/Caller/Elems index
// Nodes (0 means none).
type Node struct {
	Kind    uint8
	Str     uint32
	Line    uint32
	Col     uint32
	EndLine uint32
	EndCol  uint32
	Child   uint32
	Caller  uint32
	Elems   []uint32
	HasMeta bool
}

// Export snapshots the given roots and everything reachable from them.
// All roots must be valid and owned by one Context.
func Export(roots []loc.Loc) (*Snapshot, error) {
	snap := &Snapshot{
		Schema:  SnapshotSchemaVersion,
		Strings: []string{""},
	}
	e := &exporter{
		snap: snap,
		strs: map[string]uint32{"": 0},
		seen: make(map[loc.Loc]uint32),
	}
	for i, root := range roots {
		if !root.IsValid() {
			return nil, fmt.Errorf("%w: roots[%d]", loc.ErrMissingRequiredField, i)
		}
		if root.Context() != roots[0].Context() {
			return nil, fmt.Errorf("%w: roots[%d]", loc.ErrContextMismatch, i)
		}
		snap.Roots = append(snap.Roots, e.emit(root))
	}
	return snap, nil
}

type exporter struct {
	snap *Snapshot
	strs map[string]uint32
	seen map[loc.Loc]uint32
}

// emit serializes one location post-order and returns its node index.
// Shared subtrees serialize once: handles are canonical, so the memo
// key is the handle itself.
func (e *exporter) emit(l loc.Loc) uint32 {
	if idx, ok := e.seen[l]; ok {
		return idx
	}
	var n Node
	switch l.Kind() {
	case loc.KindUnknown:
		n = Node{Kind: uint8(loc.KindUnknown)}
	case loc.KindFileRange:
		f, _ := l.File()
		n = Node{
			Kind:    uint8(loc.KindFileRange),
			Str:     e.str(f.Filename),
			Line:    f.StartLine,
			Col:     f.StartCol,
			EndLine: f.EndLine,
			EndCol:  f.EndCol,
		}
	case loc.KindName:
		v, _ := l.Name()
		child := e.emit(v.Child)
		n = Node{Kind: uint8(loc.KindName), Str: e.str(v.Name), Child: child}
	case loc.KindCallSite:
		cs, _ := l.CallSite()
		callee := e.emit(cs.Callee)
		caller := e.emit(cs.Caller)
		n = Node{Kind: uint8(loc.KindCallSite), Child: callee, Caller: caller}
	case loc.KindFused:
		f, _ := l.Fused()
		elems := make([]uint32, len(f.Locs))
		for i, el := range f.Locs {
			elems[i] = e.emit(el)
		}
		n = Node{Kind: uint8(loc.KindFused), Elems: elems, HasMeta: f.HasMetadata}
		if f.HasMetadata {
			n.Str = e.str(f.Metadata)
		}
	case loc.KindOpaque:
		// Only the fallback serializes.
		o, _ := l.Opaque()
		idx := e.emit(o.Fallback)
		e.seen[l] = idx
		return idx
	}
	e.snap.Nodes = append(e.snap.Nodes, n)
	idx, err := safecast.Conv[uint32](len(e.snap.Nodes))
	if err != nil {
		panic(fmt.Errorf("snapshot node overflow: %w", err))
	}
	e.seen[l] = idx
	return idx
}

func (e *exporter) str(s string) uint32 {
	if idx, ok := e.strs[s]; ok {
		return idx
	}
	e.snap.Strings = append(e.snap.Strings, s)
	idx, err := safecast.Conv[uint32](len(e.snap.Strings) - 1)
	if err != nil {
		panic(fmt.Errorf("snapshot string overflow: %w", err))
	}
	e.strs[s] = idx
	return idx
}

// Import re-interns a snapshot's locations into ctx and returns its
// roots. Canonicalization is preserved (equal content collapses to one
// handle) but raw IDs are not: a round-trip guarantees structural
// equality, nothing about numbering.
func Import(ctx *loc.Context, snap *Snapshot) ([]loc.Loc, error) {
	if snap.Schema != SnapshotSchemaVersion {
		return nil, fmt.Errorf("%w: schema %d, want %d", ErrCorruptSnapshot, snap.Schema, SnapshotSchemaVersion)
	}
	built := make([]loc.Loc, len(snap.Nodes)+1)
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		idx := i + 1
		l, err := importNode(ctx, snap, built, n, idx)
		if err != nil {
			return nil, err
		}
		built[idx] = l
	}
	roots := make([]loc.Loc, len(snap.Roots))
	for i, r := range snap.Roots {
		if r == 0 || int(r) >= len(built) {
			return nil, fmt.Errorf("%w: root %d out of range", ErrCorruptSnapshot, r)
		}
		roots[i] = built[r]
	}
	return roots, nil
}

func importNode(ctx *loc.Context, snap *Snapshot, built []loc.Loc, n *Node, idx int) (loc.Loc, error) {
	child := func(ref uint32) (loc.Loc, error) {
		// Children precede parents; a forward or self reference is
		// corruption, and it is what makes cycles unrepresentable.
		if ref == 0 || int(ref) >= idx {
			return loc.Loc{}, fmt.Errorf("%w: node %d references %d", ErrCorruptSnapshot, idx, ref)
		}
		return built[ref], nil
	}
	str := func(ref uint32) (string, error) {
		if int(ref) >= len(snap.Strings) {
			return "", fmt.Errorf("%w: node %d string %d out of range", ErrCorruptSnapshot, idx, ref)
		}
		return snap.Strings[ref], nil
	}

	var l loc.Loc
	var err error
	switch loc.Kind(n.Kind) {
	case loc.KindUnknown:
		return ctx.Unknown(), nil
	case loc.KindFileRange:
		filename, serr := str(n.Str)
		if serr != nil {
			return loc.Loc{}, serr
		}
		l, err = ctx.File(filename, n.Line, n.Col, n.EndLine, n.EndCol)
	case loc.KindName:
		name, serr := str(n.Str)
		if serr != nil {
			return loc.Loc{}, serr
		}
		c, cerr := child(n.Child)
		if cerr != nil {
			return loc.Loc{}, cerr
		}
		l, err = ctx.NameChild(name, c)
	case loc.KindCallSite:
		callee, cerr := child(n.Child)
		if cerr != nil {
			return loc.Loc{}, cerr
		}
		caller, cerr := child(n.Caller)
		if cerr != nil {
			return loc.Loc{}, cerr
		}
		l, err = ctx.CallSite(callee, caller)
	case loc.KindFused:
		locs := make([]loc.Loc, len(n.Elems))
		for j, ref := range n.Elems {
			c, cerr := child(ref)
			if cerr != nil {
				return loc.Loc{}, cerr
			}
			locs[j] = c
		}
		if n.HasMeta {
			meta, serr := str(n.Str)
			if serr != nil {
				return loc.Loc{}, serr
			}
			l, err = ctx.FusedWith(locs, meta)
		} else {
			l, err = ctx.Fused(locs)
		}
	default:
		return loc.Loc{}, fmt.Errorf("%w: node %d has kind %d", ErrCorruptSnapshot, idx, n.Kind)
	}
	if err != nil {
		return loc.Loc{}, fmt.Errorf("%w: node %d: %v", ErrCorruptSnapshot, idx, err)
	}
	return l, nil
}
