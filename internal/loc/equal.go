package loc

import (
	"encoding/binary"
	"hash/fnv"
	"io"
)

// Same reports structural equality of two locations, across Contexts.
// Within one Context this is handle identity (interning guarantees it);
// across Contexts the content is compared field by field, with the
// fields that participate in identity per variant: filename and all
// four integers for file ranges, name text and child for named
// locations, both links for call sites, the ordered element sequence
// plus metadata (presence included) for fusions, and underlying value,
// type tag, and fallback for opaque references.
func Same(a, b Loc) bool {
	if a.ctx == b.ctx {
		return a.id == b.id
	}
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	k := a.Kind()
	if k != b.Kind() {
		return false
	}
	switch k {
	case KindUnknown:
		return true
	case KindFileRange:
		fa, _ := a.File()
		fb, _ := b.File()
		return fa == fb
	case KindName:
		na, _ := a.Name()
		nb, _ := b.Name()
		return na.Name == nb.Name && Same(na.Child, nb.Child)
	case KindCallSite:
		ca, _ := a.CallSite()
		cb, _ := b.CallSite()
		return Same(ca.Callee, cb.Callee) && Same(ca.Caller, cb.Caller)
	case KindFused:
		fa, _ := a.Fused()
		fb, _ := b.Fused()
		if fa.HasMetadata != fb.HasMetadata || fa.Metadata != fb.Metadata {
			return false
		}
		if len(fa.Locs) != len(fb.Locs) {
			return false
		}
		for i := range fa.Locs {
			if !Same(fa.Locs[i], fb.Locs[i]) {
				return false
			}
		}
		return true
	case KindOpaque:
		pa, _ := a.opaquePayload()
		pb, _ := b.opaquePayload()
		oa, _ := a.Opaque()
		ob, _ := b.Opaque()
		return pa.Tag == pb.Tag && pa.Under == pb.Under && Same(oa.Fallback, ob.Fallback)
	default:
		return false
	}
}

// Hash returns a 64-bit structural hash consistent with Same: two
// locations for which Same holds hash identically, in any Context. The
// hash mixes every identity field except the opaque underlying value
// (its address has no stable byte form), which keeps the hash
// consistent, just not injective for opaque locations.
func Hash(l Loc) uint64 {
	h := fnv.New64a()
	hashInto(h, l)
	return h.Sum64()
}

func hashInto(w io.Writer, l Loc) {
	if !l.IsValid() {
		writeU32(w, 0)
		return
	}
	k := l.Kind()
	_, _ = w.Write([]byte{byte(k)})
	switch k {
	case KindFileRange:
		f, _ := l.File()
		writeStr(w, f.Filename)
		writeU32(w, f.StartLine)
		writeU32(w, f.StartCol)
		writeU32(w, f.EndLine)
		writeU32(w, f.EndCol)
	case KindName:
		n, _ := l.Name()
		writeStr(w, n.Name)
		hashInto(w, n.Child)
	case KindCallSite:
		cs, _ := l.CallSite()
		hashInto(w, cs.Callee)
		hashInto(w, cs.Caller)
	case KindFused:
		f, _ := l.Fused()
		if f.HasMetadata {
			_, _ = w.Write([]byte{1})
			writeStr(w, f.Metadata)
		} else {
			_, _ = w.Write([]byte{0})
		}
		writeU32(w, uint32(len(f.Locs)))
		for _, e := range f.Locs {
			hashInto(w, e)
		}
	case KindOpaque:
		o, _ := l.Opaque()
		writeU32(w, uint32(o.Tag))
		hashInto(w, o.Fallback)
	}
}

func writeU32(w io.Writer, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = w.Write(buf[:])
}

func writeStr(w io.Writer, s string) {
	writeU32(w, uint32(len(s)))
	_, _ = io.WriteString(w, s)
}
