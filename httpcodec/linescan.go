package httpcodec

import "github.com/coregx/wire/bytebuf"

// lineScanner accumulates bytes from successive Cursor feeds until it sees
// a line terminator, carrying a partial line across calls instead of
// requiring the whole line to arrive at once (spec.md §4.2 point 8,
// "byte-stream continuation", spec.md §8 property 2). CRLF is the normal
// terminator; a bare LF is tolerated on receive (spec.md §4.2 point 1).
type lineScanner struct {
	spool bytebuf.Spool
}

// feed consumes bytes from c looking for a line terminator. If one is
// found, it returns the line (terminator stripped) and true, having
// advanced c past the terminator. If the cursor runs dry first, every
// remaining byte is consumed into the carry buffer and feed returns
// ("", false, nil) — the caller should treat this as Underflow and call
// feed again once more bytes are available. maxLen bounds the total line
// length (spool + pending) to guard against unbounded accumulation.
func (ls *lineScanner) feed(c *bytebuf.Cursor, maxLen int) (string, bool, error) {
	for {
		b, ok := c.PeekByte()
		if !ok {
			return "", false, nil
		}
		if b == '\n' {
			c.Advance(1)
			line := ls.spool.Bytes()
			line = trimCR(line)
			out := string(line)
			ls.spool.Reset()
			return out, true, nil
		}
		c.Advance(1)
		ls.spool.WriteByte(b)
		if ls.spool.Len() > maxLen {
			ls.spool.Reset()
			return "", false, newLimitError("header line too long")
		}
	}
}

// reset discards any partially accumulated line, used when the decoder
// itself resets between messages.
func (ls *lineScanner) reset() { ls.spool.Reset() }

func trimCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}
