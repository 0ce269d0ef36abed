package loc

import (
	"encoding/binary"

	"prism/internal/typetag"
)

// node is the compact descriptor for one interned location. One struct
// serves every kind so the arena stays dense; fields are overloaded per
// kind, and variable-length payloads live in side tables addressed by
// Payload.
//
//	KindUnknown:   no fields
//	KindFileRange: Str=filename, Line/Col/EndLine/EndCol
//	KindName:      Str=name, Child
//	KindCallSite:  Child=callee, Caller
//	KindFused:     Str=metadata (HasMeta when present), Payload=fused slot
//	KindOpaque:    Child=fallback, Payload=opaque slot
type node struct {
	Kind    Kind
	Str     StrID
	Line    uint32
	Col     uint32
	EndLine uint32
	EndCol  uint32
	Child   ID
	Caller  ID
	Payload uint32
	HasMeta bool
}

// fusedInfo stores the ordered element list for a fused location.
// Order is preserved, never sorted: fusion provenance order is itself
// meaningful for diagnostics. Slot 0 is reserved as an invalid sentinel.
type fusedInfo struct {
	Elems []ID
}

// opaqueInfo stores the type-erased payload for an opaque location. The
// underlying value is caller-owned: the location system stores it and
// its tag, never dereferences it, and only the fallback serializes.
// Slot 0 is reserved as an invalid sentinel.
type opaqueInfo struct {
	Under any
	Tag   typetag.Tag
}

// nodeKey is the structural content of a prospective node, used as the
// hash-consing map key. Which fields are populated per kind defines
// exactly which fields participate in identity; Go map equality is the
// equality/hash oracle.
//
// Elems packs fused element IDs into a byte string because map keys
// must be comparable and fixed-shape. Under holds the opaque payload's
// dynamic value directly: two opaque locations intern to one instance
// only when their payload values compare equal, so a fresh backing
// object yields a fresh interned instance.
type nodeKey struct {
	kind    Kind
	str     StrID
	line    uint32
	col     uint32
	endLine uint32
	endCol  uint32
	child   ID
	caller  ID
	hasMeta bool
	elems   string
	under   any
	tag     typetag.Tag
}

// packElems encodes an element ID sequence into the comparable string
// form used inside nodeKey.
func packElems(elems []ID) string {
	buf := make([]byte, 0, 4*len(elems))
	for _, e := range elems {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(e))
	}
	return string(buf)
}
