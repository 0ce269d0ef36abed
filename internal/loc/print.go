package loc

import (
	"strconv"
	"strings"
)

// String renders the canonical textual form of a location:
//
//	?                                  unknown
//	"f.cc":10                          line only
//	"f.cc":10:8                        line and column
//	"f.cc":10:8 to :18                 column range within one line
//	"f.cc":10:8 to 12:18               full range
//	"name"                             name over Unknown
//	"name"("f.cc":1:1)                 name over a child
//	callsite("a" at "f.cc":1:1)        one inlining link
//	fused["f.cc":1:1,"f.cc":2:2]       fusion
//	fused<"meta">["f.cc":1:1]          fusion with metadata
//
// Opaque locations have no textual form; only their fallback prints.
// The form is canonical: parsing it and printing again reproduces the
// text byte for byte.
func (l Loc) String() string {
	var b strings.Builder
	l.format(&b)
	return b.String()
}

func (l Loc) format(b *strings.Builder) {
	switch l.Kind() {
	case KindUnknown:
		b.WriteByte('?')
	case KindFileRange:
		f, _ := l.File()
		b.WriteString(strconv.Quote(f.Filename))
		b.WriteByte(':')
		writeInt(b, f.StartLine)
		if f.StartCol == Unset && f.EndLine == f.StartLine && f.EndCol == Unset {
			return
		}
		b.WriteByte(':')
		writeInt(b, f.StartCol)
		if f.EndLine == f.StartLine && f.EndCol == f.StartCol {
			return
		}
		b.WriteString(" to ")
		if f.EndLine != f.StartLine {
			writeInt(b, f.EndLine)
		}
		b.WriteByte(':')
		writeInt(b, f.EndCol)
	case KindName:
		n, _ := l.Name()
		b.WriteString(strconv.Quote(n.Name))
		if !n.Child.IsUnknown() {
			b.WriteByte('(')
			n.Child.format(b)
			b.WriteByte(')')
		}
	case KindCallSite:
		cs, _ := l.CallSite()
		b.WriteString("callsite(")
		cs.Callee.format(b)
		b.WriteString(" at ")
		cs.Caller.format(b)
		b.WriteByte(')')
	case KindFused:
		f, _ := l.Fused()
		b.WriteString("fused")
		if f.HasMetadata {
			b.WriteByte('<')
			b.WriteString(strconv.Quote(f.Metadata))
			b.WriteByte('>')
		}
		b.WriteByte('[')
		for i, e := range f.Locs {
			if i > 0 {
				b.WriteByte(',')
			}
			e.format(b)
		}
		b.WriteByte(']')
	case KindOpaque:
		o, _ := l.Opaque()
		o.Fallback.format(b)
	default:
		b.WriteString("<invalid>")
	}
}

func writeInt(b *strings.Builder, v uint32) {
	b.WriteString(strconv.FormatUint(uint64(v), 10))
}
