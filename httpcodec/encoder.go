package httpcodec

import (
	"strconv"

	"github.com/coregx/wire/bytebuf"
	"github.com/coregx/wire/httpmsg"
)

// encoderState enumerates the states of both RequestEncoder and
// ResponseEncoder (spec.md §4.3). WRITING_START_LINE and WRITING_HEADERS
// are collapsed into one drain of a single pre-built buffer here: the
// encoder must inspect the whole header set to decide framing (inserting
// Transfer-Encoding: chunked when neither framing header is present)
// before it can emit a single byte, so there is no advantage to writing
// the start line and headers as separate passes the way the decoder's
// separate READING states exist for its line-at-a-time input.
type encoderState int

const (
	encInitial encoderState = iota
	encWritingHeaders
	encAwaitPayload
	encWritingBodyLengthed
	encWritingBodyChunked
	encFlushingTrailer
	encDone
)

// encoderCore is the shared body-framing half of RequestEncoder and
// ResponseEncoder: once a header has been serialized and framing chosen,
// draining the header bytes and then shepherding payload bytes through
// either a fixed-length or chunked body is identical in both directions.
type encoderCore struct {
	state     encoderState
	pending   bytebuf.Spool // header bytes, then (for chunked) one chunk frame at a time
	mode      bodyMode
	remaining int64 // bytes still expected for a lengthed body
	closeConn bool
}

func (e *encoderCore) reset() {
	e.state = encInitial
	e.pending.Reset()
	e.mode = bodyNone
	e.remaining = 0
	e.closeConn = false
}

// startHeader arms the core to drain headerText, then proceed to mode's
// body state.
func (e *encoderCore) startHeader(headerText string, mode bodyMode, length int64, closeConn bool) {
	e.pending.Reset()
	e.pending.Write([]byte(headerText))
	e.mode = mode
	e.remaining = length
	e.closeConn = closeConn
	e.state = encWritingHeaders
}

// drainPending writes as much of e.pending as sink has room for, shifting
// the remainder to the front. Returns true once pending is fully drained.
func (e *encoderCore) drainPending(sink *bytebuf.Sink) bool {
	b := e.pending.Bytes()
	n := sink.Write(b)
	if n == len(b) {
		e.pending.Reset()
		return true
	}
	remainder := append([]byte(nil), b[n:]...)
	e.pending.Reset()
	e.pending.Write(remainder)
	return false
}

// step drives the shared body-writing half of encode(in, out, endOfInput)
// once headers have drained. It returns the next state and the
// overflow/underflow flags for this one step; c tracks how much of in it
// consumed (never rewound).
func (e *encoderCore) step(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (next encoderState, underflow, overflow bool) {
	switch e.state {
	case encAwaitPayload:
		switch e.mode {
		case bodyNone:
			return encDone, false, false
		case bodyChunked:
			return e.beginChunk(c, sink, endOfInput)
		default:
			return e.writeLengthed(c, sink)
		}

	case encWritingBodyLengthed:
		return e.writeLengthed(c, sink)

	case encWritingBodyChunked:
		if !e.drainPending(sink) {
			return encWritingBodyChunked, false, true
		}
		if endOfInput {
			return encDone, false, false
		}
		return encAwaitPayload, false, false

	case encFlushingTrailer:
		if !e.drainPending(sink) {
			return encFlushingTrailer, false, true
		}
		return encDone, false, false

	default:
		return e.state, false, false
	}
}

func (e *encoderCore) writeLengthed(c *bytebuf.Cursor, sink *bytebuf.Sink) (encoderState, bool, bool) {
	for e.remaining > 0 && c.Remaining() > 0 {
		if sink.Room() == 0 {
			return encWritingBodyLengthed, false, true
		}
		n := c.Remaining()
		if int64(n) > e.remaining {
			n = int(e.remaining)
		}
		if n > sink.Room() {
			n = sink.Room()
		}
		data, _ := c.Take(n)
		sink.Write(data)
		e.remaining -= int64(n)
	}
	if e.remaining == 0 {
		return encDone, false, false
	}
	return encWritingBodyLengthed, true, false
}

// beginChunk frames whatever of c is currently available as a single
// chunk (spec.md §4.3: "the encoder emits chunks as body bytes arrive"),
// then on endOfInput appends the terminating zero-chunk, all as one
// pending buffer drained by the encWritingBodyChunked state.
func (e *encoderCore) beginChunk(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (encoderState, bool, bool) {
	e.pending.Reset()
	if n := c.Remaining(); n > 0 {
		data, _ := c.Take(n)
		e.pending.Write([]byte(strconv.FormatInt(int64(n), 16)))
		e.pending.Write(crlf)
		e.pending.Write(data)
		e.pending.Write(crlf)
	}
	if endOfInput {
		e.pending.Write(lastChunk)
	}
	if e.pending.Len() == 0 {
		if endOfInput {
			return encDone, false, false
		}
		return encAwaitPayload, true, false
	}
	if !e.drainPending(sink) {
		return encWritingBodyChunked, false, true
	}
	if endOfInput {
		return encDone, false, false
	}
	return encAwaitPayload, false, false
}

var (
	crlf      = []byte("\r\n")
	lastChunk = []byte("0\r\n\r\n")
)

// serializeHeader renders a start line plus every header field in
// insertion order, CRLF-terminated, with the required empty line — the
// library's only emitted line ending (spec.md §6: "MUST produce
// byte-identical framing on encode").
func serializeHeader(startLine string, h *httpmsg.Header) string {
	var b []byte
	b = append(b, startLine...)
	b = append(b, crlf...)
	h.Range(func(name, value string) bool {
		b = append(b, name...)
		b = append(b, ':', ' ')
		b = append(b, value...)
		b = append(b, crlf...)
		return true
	})
	b = append(b, crlf...)
	return string(b)
}
