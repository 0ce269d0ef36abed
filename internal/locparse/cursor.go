package locparse

// cursor is a byte position inside a location string.
type cursor struct {
	src []byte
	off int
}

// eof reports whether the cursor is past the last byte.
func (c *cursor) eof() bool {
	return c.off >= len(c.src)
}

// peek reads the current byte without advancing, 0 at eof.
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.off]
}

// bump advances one byte and returns it, 0 at eof.
func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}
	b := c.src[c.off]
	c.off++
	return b
}

// skipSpace advances over blanks and tabs.
func (c *cursor) skipSpace() {
	for !c.eof() {
		switch c.src[c.off] {
		case ' ', '\t':
			c.off++
		default:
			return
		}
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
