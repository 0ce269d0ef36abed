package loc

import (
	"fmt"

	"prism/internal/typetag"
)

// Loc is a handle to an interned location value. It is a cheap value
// type: copy it freely, compare it with ==. Two handles are == exactly
// when they name the same canonical instance in the same Context.
//
// The zero Loc is invalid and means "no location". Builders never
// return it together with a nil error.
type Loc struct {
	ctx *Context
	id  ID
}

// IsValid reports whether the handle names an interned location.
func (l Loc) IsValid() bool { return l.ctx != nil && l.id.IsValid() }

// Context returns the owning Context, or nil for the zero Loc.
func (l Loc) Context() *Context { return l.ctx }

// Kind returns the variant kind, or KindInvalid for the zero Loc.
func (l Loc) Kind() Kind {
	if !l.IsValid() {
		return KindInvalid
	}
	return l.ctx.mustLookup(l.id).Kind
}

// IsUnknown reports whether l is the Unknown singleton.
func (l Loc) IsUnknown() bool { return l.Kind() == KindUnknown }

// FileInfo is the resolved view of a file-range location.
type FileInfo struct {
	Filename  string
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
}

// File resolves a file-range location.
func (l Loc) File() (FileInfo, bool) {
	if l.Kind() != KindFileRange {
		return FileInfo{}, false
	}
	n := l.ctx.mustLookup(l.id)
	return FileInfo{
		Filename:  l.ctx.str(n.Str),
		StartLine: n.Line,
		StartCol:  n.Col,
		EndLine:   n.EndLine,
		EndCol:    n.EndCol,
	}, true
}

// NameInfo is the resolved view of a named location.
type NameInfo struct {
	Name  string
	Child Loc
}

// Name resolves a named location.
func (l Loc) Name() (NameInfo, bool) {
	if l.Kind() != KindName {
		return NameInfo{}, false
	}
	n := l.ctx.mustLookup(l.id)
	return NameInfo{
		Name:  l.ctx.str(n.Str),
		Child: Loc{ctx: l.ctx, id: n.Child},
	}, true
}

// CallSiteInfo is the resolved view of one inlining link.
type CallSiteInfo struct {
	Callee Loc
	Caller Loc
}

// CallSite resolves a call-site location.
func (l Loc) CallSite() (CallSiteInfo, bool) {
	if l.Kind() != KindCallSite {
		return CallSiteInfo{}, false
	}
	n := l.ctx.mustLookup(l.id)
	return CallSiteInfo{
		Callee: Loc{ctx: l.ctx, id: n.Child},
		Caller: Loc{ctx: l.ctx, id: n.Caller},
	}, true
}

// FusedView is the resolved view of a fused location. Locs is in
// fusion order, never sorted.
type FusedView struct {
	Locs        []Loc
	Metadata    string
	HasMetadata bool
}

// Fused resolves a fused location.
func (l Loc) Fused() (FusedView, bool) {
	if l.Kind() != KindFused {
		return FusedView{}, false
	}
	n := l.ctx.mustLookup(l.id)
	elems := l.ctx.fusedAt(n.Payload)
	locs := make([]Loc, len(elems))
	for i, e := range elems {
		locs[i] = Loc{ctx: l.ctx, id: e}
	}
	v := FusedView{Locs: locs, HasMetadata: n.HasMeta}
	if n.HasMeta {
		v.Metadata = l.ctx.str(n.Str)
	}
	return v, true
}

// OpaqueView is the resolved view of an opaque location, without the
// underlying value: that is only reachable through the checked
// UnderlyingAs accessors.
type OpaqueView struct {
	Tag      typetag.Tag
	Fallback Loc
}

// Opaque resolves an opaque location.
func (l Loc) Opaque() (OpaqueView, bool) {
	if l.Kind() != KindOpaque {
		return OpaqueView{}, false
	}
	n := l.ctx.mustLookup(l.id)
	return OpaqueView{
		Tag:      l.ctx.opaqueAt(n.Payload).Tag,
		Fallback: Loc{ctx: l.ctx, id: n.Child},
	}, true
}

// opaquePayload returns the raw payload of an opaque location.
func (l Loc) opaquePayload() (opaqueInfo, bool) {
	if l.Kind() != KindOpaque {
		return opaqueInfo{}, false
	}
	n := l.ctx.mustLookup(l.id)
	return l.ctx.opaqueAt(n.Payload), true
}

// UnderlyingAs returns the underlying value of an opaque location typed
// as T. It returns the zero value and false when l is not opaque or was
// tagged with a different type; callers routinely probe for a type
// without knowing it in advance, so a mismatch is not an error.
func UnderlyingAs[T any](l Loc) (T, bool) {
	var zero T
	p, ok := l.opaquePayload()
	if !ok {
		return zero, false
	}
	if p.Tag != typetag.For[T]() {
		return zero, false
	}
	v, ok := p.Under.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// MustUnderlyingAs is UnderlyingAs for call sites that have already
// proven the type; a mismatch is a logic error and panics.
func MustUnderlyingAs[T any](l Loc) T {
	v, ok := UnderlyingAs[T](l)
	if !ok {
		panic(fmt.Errorf("%w: underlying is not %T", ErrTypeTagMismatch, v))
	}
	return v
}

// Walk visits l and every location reachable from it in pre-order:
// the node itself, then its children left to right (name child,
// callee/caller, fused elements, opaque fallback). Shared subtrees are
// visited once per reference. fn returning false aborts the walk.
func (l Loc) Walk(fn func(Loc) bool) {
	l.walk(fn)
}

func (l Loc) walk(fn func(Loc) bool) bool {
	if !l.IsValid() {
		return true
	}
	if !fn(l) {
		return false
	}
	switch l.Kind() {
	case KindName:
		n, _ := l.Name()
		return n.Child.walk(fn)
	case KindCallSite:
		cs, _ := l.CallSite()
		return cs.Callee.walk(fn) && cs.Caller.walk(fn)
	case KindFused:
		f, _ := l.Fused()
		for _, e := range f.Locs {
			if !e.walk(fn) {
				return false
			}
		}
	case KindOpaque:
		o, _ := l.Opaque()
		return o.Fallback.walk(fn)
	}
	return true
}
