// Package locparse parses the textual location grammar:
//
//	location         ::= unknown-location | file-location | name-location
//	                    | callsite-location | fused-location
//	unknown-location ::= "?"
//	file-location    ::= string-literal ":" integer (":" integer ("to" (integer)? ":" integer)?)?
//	name-location    ::= string-literal ("(" location ")")?
//	callsite-location::= "callsite" "(" location "at" location ")"
//	fused-location   ::= "fused" ("<" string-literal ">")? "[" (location ("," location)*)? "]"
//
// Opaque locations have no textual form and cannot be parsed; their
// fallback is what serializes. String literals use Go escaping, the
// same convention the printer quotes with, so parse-then-print
// round-trips canonical text byte for byte.
package locparse

import (
	"fmt"
	"strconv"

	"prism/internal/loc"
)

// Parse parses one location from src into ctx. The whole input must be
// consumed; trailing content is an error. Syntax errors wrap
// loc.ErrInvalidRange and carry the byte offset.
func Parse(ctx *loc.Context, src string) (loc.Loc, error) {
	p := &parser{ctx: ctx, cur: cursor{src: []byte(src)}}
	p.cur.skipSpace()
	l, err := p.parseLoc()
	if err != nil {
		return loc.Loc{}, err
	}
	p.cur.skipSpace()
	if !p.cur.eof() {
		return loc.Loc{}, p.errf("trailing input %q", string(p.cur.src[p.cur.off:]))
	}
	return l, nil
}

type parser struct {
	ctx *loc.Context
	cur cursor
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", loc.ErrInvalidRange, p.cur.off, fmt.Sprintf(format, args...))
}

func (p *parser) parseLoc() (loc.Loc, error) {
	switch b := p.cur.peek(); {
	case b == '?':
		p.cur.bump()
		return p.ctx.Unknown(), nil
	case b == '"':
		return p.parseStringPrefixed()
	case isAlpha(b):
		ident := p.scanIdent()
		switch ident {
		case "callsite":
			return p.parseCallSite()
		case "fused":
			return p.parseFused()
		default:
			return loc.Loc{}, p.errf("unexpected keyword %q", ident)
		}
	case p.cur.eof():
		return loc.Loc{}, p.errf("expected location")
	default:
		return loc.Loc{}, p.errf("unexpected byte %q", string(b))
	}
}

// parseStringPrefixed handles the two variants that open with a string
// literal: a file location (literal followed immediately by ':') and a
// named location (optionally wrapping a child in parentheses). The ':'
// and '(' must follow the literal without whitespace, which is what
// keeps `"a" at …` inside a callsite unambiguous.
func (p *parser) parseStringPrefixed() (loc.Loc, error) {
	s, err := p.scanString()
	if err != nil {
		return loc.Loc{}, err
	}
	switch p.cur.peek() {
	case ':':
		p.cur.bump()
		return p.parseFileTail(s)
	case '(':
		p.cur.bump()
		p.cur.skipSpace()
		child, err := p.parseLoc()
		if err != nil {
			return loc.Loc{}, err
		}
		p.cur.skipSpace()
		if err := p.expect(')'); err != nil {
			return loc.Loc{}, err
		}
		return p.ctx.NameChild(s, child)
	default:
		return p.ctx.Name(s)
	}
}

// parseFileTail parses everything after `string-literal ":"`.
func (p *parser) parseFileTail(filename string) (loc.Loc, error) {
	line, err := p.scanInt()
	if err != nil {
		return loc.Loc{}, err
	}
	if p.cur.peek() != ':' {
		return p.ctx.FileLine(filename, line)
	}
	p.cur.bump()
	col, err := p.scanInt()
	if err != nil {
		return loc.Loc{}, err
	}

	// Look ahead for a "to" range suffix; anything else (e.g. the "at"
	// of an enclosing callsite) belongs to the caller.
	mark := p.cur.off
	p.cur.skipSpace()
	if p.scanIdent() != "to" {
		p.cur.off = mark
		return p.ctx.FileLineCol(filename, line, col)
	}
	p.cur.skipSpace()
	if p.cur.peek() == ':' {
		p.cur.bump()
		endCol, err := p.scanInt()
		if err != nil {
			return loc.Loc{}, err
		}
		return p.ctx.FileColRange(filename, line, col, endCol)
	}
	endLine, err := p.scanInt()
	if err != nil {
		return loc.Loc{}, err
	}
	if err := p.expect(':'); err != nil {
		return loc.Loc{}, err
	}
	endCol, err := p.scanInt()
	if err != nil {
		return loc.Loc{}, err
	}
	return p.ctx.File(filename, line, col, endLine, endCol)
}

func (p *parser) parseCallSite() (loc.Loc, error) {
	if err := p.expect('('); err != nil {
		return loc.Loc{}, err
	}
	p.cur.skipSpace()
	callee, err := p.parseLoc()
	if err != nil {
		return loc.Loc{}, err
	}
	p.cur.skipSpace()
	if kw := p.scanIdent(); kw != "at" {
		return loc.Loc{}, p.errf("expected \"at\", got %q", kw)
	}
	p.cur.skipSpace()
	caller, err := p.parseLoc()
	if err != nil {
		return loc.Loc{}, err
	}
	p.cur.skipSpace()
	if err := p.expect(')'); err != nil {
		return loc.Loc{}, err
	}
	return p.ctx.CallSite(callee, caller)
}

func (p *parser) parseFused() (loc.Loc, error) {
	hasMeta := false
	meta := ""
	if p.cur.peek() == '<' {
		p.cur.bump()
		p.cur.skipSpace()
		if p.cur.peek() != '"' {
			return loc.Loc{}, p.errf("expected string metadata")
		}
		s, err := p.scanString()
		if err != nil {
			return loc.Loc{}, err
		}
		p.cur.skipSpace()
		if err := p.expect('>'); err != nil {
			return loc.Loc{}, err
		}
		hasMeta = true
		meta = s
	}
	if err := p.expect('['); err != nil {
		return loc.Loc{}, err
	}
	var locs []loc.Loc
	p.cur.skipSpace()
	if p.cur.peek() != ']' {
		for {
			l, err := p.parseLoc()
			if err != nil {
				return loc.Loc{}, err
			}
			locs = append(locs, l)
			p.cur.skipSpace()
			if p.cur.peek() != ',' {
				break
			}
			p.cur.bump()
			p.cur.skipSpace()
		}
	}
	if err := p.expect(']'); err != nil {
		return loc.Loc{}, err
	}
	if hasMeta {
		return p.ctx.FusedWith(locs, meta)
	}
	return p.ctx.Fused(locs)
}

func (p *parser) expect(b byte) error {
	if p.cur.peek() != b {
		return p.errf("expected %q", string(b))
	}
	p.cur.bump()
	return nil
}

// scanIdent consumes a run of letters; empty when the cursor is not on
// one.
func (p *parser) scanIdent() string {
	start := p.cur.off
	for isAlpha(p.cur.peek()) {
		p.cur.bump()
	}
	return string(p.cur.src[start:p.cur.off])
}

// scanInt consumes a decimal integer that must fit in 32 bits.
func (p *parser) scanInt() (uint32, error) {
	start := p.cur.off
	for isDigit(p.cur.peek()) {
		p.cur.bump()
	}
	if p.cur.off == start {
		return 0, p.errf("expected integer")
	}
	v, err := strconv.ParseUint(string(p.cur.src[start:p.cur.off]), 10, 32)
	if err != nil {
		return 0, p.errf("integer out of range")
	}
	return uint32(v), nil
}

// scanString consumes a quoted literal and unquotes it.
func (p *parser) scanString() (string, error) {
	start := p.cur.off
	p.cur.bump() // opening '"'
	for !p.cur.eof() {
		switch p.cur.peek() {
		case '"':
			p.cur.bump()
			s, err := strconv.Unquote(string(p.cur.src[start:p.cur.off]))
			if err != nil {
				return "", p.errf("bad string literal")
			}
			return s, nil
		case '\\':
			p.cur.bump()
			if p.cur.eof() {
				return "", p.errf("unterminated string literal")
			}
			p.cur.bump()
		case '\n':
			return "", p.errf("newline in string literal")
		default:
			p.cur.bump()
		}
	}
	return "", p.errf("unterminated string literal")
}
