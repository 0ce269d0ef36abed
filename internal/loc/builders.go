package loc

import (
	"fmt"
	"reflect"
	"slices"

	"prism/internal/typetag"
)

// Unknown returns the Context's Unknown singleton: the location carried
// by synthetic IR constructs that have no concrete origin.
func (c *Context) Unknown() Loc {
	return Loc{ctx: c, id: c.unknown}
}

// File interns a file range in its canonical four-integer form. Every
// narrower builder (FileLine, FileLineCol, FileColRange) normalizes
// into this shape before interning, so syntactic sugar never produces
// distinct identities for the same span. Unknown positions are Unset,
// never zero.
func (c *Context) File(filename string, startLine, startCol, endLine, endCol uint32) (Loc, error) {
	if filename == "" {
		return Loc{}, fmt.Errorf("%w: filename", ErrMissingRequiredField)
	}
	name := c.internStr(filename)
	key := nodeKey{
		kind:    KindFileRange,
		str:     name,
		line:    startLine,
		col:     startCol,
		endLine: endLine,
		endCol:  endCol,
	}
	id := c.intern(key, func(*Context) node {
		return node{
			Kind:    KindFileRange,
			Str:     name,
			Line:    startLine,
			Col:     startCol,
			EndLine: endLine,
			EndCol:  endCol,
		}
	})
	return Loc{ctx: c, id: id}, nil
}

// FileLine interns a file location known only down to a line.
func (c *Context) FileLine(filename string, line uint32) (Loc, error) {
	return c.File(filename, line, Unset, line, Unset)
}

// FileLineCol interns a single line/column position.
func (c *Context) FileLineCol(filename string, line, col uint32) (Loc, error) {
	return c.File(filename, line, col, line, col)
}

// FileColRange interns a column range within one line.
func (c *Context) FileColRange(filename string, line, startCol, endCol uint32) (Loc, error) {
	return c.File(filename, line, startCol, line, endCol)
}

// Name interns a named location with the Unknown singleton as child.
func (c *Context) Name(name string) (Loc, error) {
	return c.NameChild(name, c.Unknown())
}

// NameChild interns a named location wrapping a child location.
func (c *Context) NameChild(name string, child Loc) (Loc, error) {
	if name == "" {
		return Loc{}, fmt.Errorf("%w: name", ErrMissingRequiredField)
	}
	if err := c.checkChild(child, "child"); err != nil {
		return Loc{}, err
	}
	text := c.internStr(name)
	key := nodeKey{kind: KindName, str: text, child: child.id}
	id := c.intern(key, func(*Context) node {
		return node{Kind: KindName, Str: text, Child: child.id}
	})
	return Loc{ctx: c, id: id}, nil
}

// CallSite interns one link of an inlining chain: callee inlined at
// caller.
func (c *Context) CallSite(callee, caller Loc) (Loc, error) {
	if err := c.checkChild(callee, "callee"); err != nil {
		return Loc{}, err
	}
	if err := c.checkChild(caller, "caller"); err != nil {
		return Loc{}, err
	}
	key := nodeKey{kind: KindCallSite, child: callee.id, caller: caller.id}
	id := c.intern(key, func(*Context) node {
		return node{Kind: KindCallSite, Child: callee.id, Caller: caller.id}
	})
	return Loc{ctx: c, id: id}, nil
}

// CallSite interns a call-site link, inferring the owning Context from
// the callee. Convenience over (*Context).CallSite, not a separate
// identity rule.
func CallSite(callee, caller Loc) (Loc, error) {
	if !callee.IsValid() {
		return Loc{}, fmt.Errorf("%w: callee", ErrMissingRequiredField)
	}
	return callee.ctx.CallSite(callee, caller)
}

// CallSiteChain folds a flat frame sequence into right-nested call-site
// links. Frames are ordered from the innermost callee to the outermost
// caller: frames[0] is the deepest callee, frames[len-1] the outermost
// caller. The innermost two frames combine first, so [A, B, C] always
// yields CallSite(A, CallSite(B, C)). A single frame is returned as is.
func CallSiteChain(frames []Loc) (Loc, error) {
	if len(frames) == 0 {
		return Loc{}, fmt.Errorf("%w: frames", ErrMissingRequiredField)
	}
	acc := frames[len(frames)-1]
	for i := len(frames) - 2; i >= 0; i-- {
		var err error
		acc, err = CallSite(frames[i], acc)
		if err != nil {
			return Loc{}, err
		}
	}
	return acc, nil
}

// Fused interns an ordered fusion of locations with no metadata.
// Duplicates and empty input are permitted; order is preserved.
func (c *Context) Fused(locs []Loc) (Loc, error) {
	return c.fused2(locs, NoStrID, false)
}

// FusedWith interns an ordered fusion carrying a metadata attribute.
// Metadata participates in identity: a present-but-empty attribute is a
// distinct identity from an absent one.
func (c *Context) FusedWith(locs []Loc, metadata string) (Loc, error) {
	return c.fused2(locs, c.internStr(metadata), true)
}

func (c *Context) fused2(locs []Loc, meta StrID, hasMeta bool) (Loc, error) {
	elems := make([]ID, len(locs))
	for i, l := range locs {
		if err := c.checkChild(l, fmt.Sprintf("locations[%d]", i)); err != nil {
			return Loc{}, err
		}
		elems[i] = l.id
	}
	key := nodeKey{
		kind:    KindFused,
		str:     meta,
		hasMeta: hasMeta,
		elems:   packElems(elems),
	}
	id := c.intern(key, func(c *Context) node {
		slot := c.appendFused(slices.Clone(elems))
		return node{Kind: KindFused, Str: meta, HasMeta: hasMeta, Payload: slot}
	})
	return Loc{ctx: c, id: id}, nil
}

// Opaque interns a reference to an external, non-IR data structure.
// The underlying value is caller-owned and must be pointer-shaped
// (comparable); the location system records the value and its type tag,
// never dereferences it, and only the fallback participates in
// serialization. Identity follows the value: the same logical
// computation backed by a different object interns a distinct
// instance. A zero fallback defaults to the Unknown singleton.
func (c *Context) Opaque(under any, fallback Loc) (Loc, error) {
	if under == nil {
		return Loc{}, fmt.Errorf("%w: nil underlying", ErrBadUnderlying)
	}
	if !reflect.TypeOf(under).Comparable() {
		return Loc{}, fmt.Errorf("%w: %T is not comparable", ErrBadUnderlying, under)
	}
	if !fallback.IsValid() {
		fallback = c.Unknown()
	}
	if err := c.checkChild(fallback, "fallback"); err != nil {
		return Loc{}, err
	}
	tag := typetag.Of(under)
	key := nodeKey{kind: KindOpaque, child: fallback.id, under: under, tag: tag}
	id := c.intern(key, func(c *Context) node {
		slot := c.appendOpaque(opaqueInfo{Under: under, Tag: tag})
		return node{Kind: KindOpaque, Child: fallback.id, Payload: slot}
	})
	return Loc{ctx: c, id: id}, nil
}

// checkChild enforces the composite-variant invariant: the child must
// be present and owned by this Context.
func (c *Context) checkChild(l Loc, field string) error {
	if !l.IsValid() {
		return fmt.Errorf("%w: %s", ErrMissingRequiredField, field)
	}
	if l.ctx != c {
		return fmt.Errorf("%w: %s belongs to a different Context", ErrContextMismatch, field)
	}
	return nil
}
