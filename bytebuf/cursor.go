// Package bytebuf provides the byte-level plumbing shared by the HTTP and
// WebSocket codecs: a read cursor over a caller-owned buffer and an
// overflow spool for state that must survive across decode calls. The
// spool grows on demand and enforces no size limit of its own.
//
// Nothing here performs I/O. Callers own every buffer; Cursor and Spool only
// track positions and stitch partial reads together.
package bytebuf

// Cursor walks a caller-owned byte slice without copying it. A decoder
// takes a Cursor over the bytes handed to it for one call, consumes as much
// as it can, and reports how far it got; the caller is responsible for
// carrying any unconsumed tail into the next call.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps buf for reading. The Cursor does not take ownership of
// buf beyond the lifetime of the call that constructed it.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unconsumed bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Bytes returns the unconsumed tail without advancing the cursor.
func (c *Cursor) Bytes() []byte { return c.buf[c.pos:] }

// Peek returns the next n bytes without advancing, or false if fewer than n
// remain.
func (c *Cursor) Peek(n int) ([]byte, bool) {
	if c.Remaining() < n {
		return nil, false
	}
	return c.buf[c.pos : c.pos+n], true
}

// PeekByte returns the next byte without advancing.
func (c *Cursor) PeekByte() (byte, bool) {
	if c.Remaining() < 1 {
		return 0, false
	}
	return c.buf[c.pos], true
}

// Advance moves the cursor forward by n bytes. n must not exceed Remaining.
func (c *Cursor) Advance(n int) { c.pos += n }

// Take returns the next n bytes and advances past them, or false if fewer
// than n remain (the cursor is left unchanged in that case).
func (c *Cursor) Take(n int) ([]byte, bool) {
	b, ok := c.Peek(n)
	if !ok {
		return nil, false
	}
	c.pos += n
	return b, true
}

// TakeByte returns the next byte and advances past it.
func (c *Cursor) TakeByte() (byte, bool) {
	b, ok := c.PeekByte()
	if ok {
		c.pos++
	}
	return b, ok
}

// IndexByte returns the offset of the first occurrence of b in the
// unconsumed tail, or -1 if not present.
func (c *Cursor) IndexByte(b byte) int {
	for i, v := range c.buf[c.pos:] {
		if v == b {
			return i
		}
	}
	return -1
}
