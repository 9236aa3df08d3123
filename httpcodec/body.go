package httpcodec

import (
	"github.com/coregx/wire/bytebuf"
	"github.com/coregx/wire/httpmsg"
)

// decoderState enumerates the states of both RequestDecoder and
// ResponseDecoder (spec.md §4.2): the start-line and header states differ
// per direction, but body framing is identical once the mode is chosen,
// so it lives here and is embedded by both.
type decoderState int

const (
	stAwaitStartLine decoderState = iota
	stReadingHeaders
	stReadingBodyLengthed
	stReadingBodyChunkHeader
	stReadingBodyChunked
	stReadingTrailer
	stReadingBodyUntilClose
	stComplete
	stUpgradeSwitch
)

// bodyFramer is the shared body-reading half of both decoders: once
// headers are parsed and framing is decided (lengthed / chunked /
// until-close / none), the remaining mechanics — draining a fixed byte
// count, walking a chunked body's chunk-size/data/trailer structure — are
// identical regardless of request-vs-response, so they live in one place
// instead of being duplicated (spec.md §4.2 steps 4 and 7).
type bodyFramer struct {
	ls        lineScanner
	limits    Limits
	chunked   bool
	remaining int64 // bytes left in the current lengthed body or chunk
	untilEOF  bool
	trailer   *httpmsg.Header
}

// startLengthed arms the framer to read exactly n bytes of body.
func (b *bodyFramer) startLengthed(n int64) decoderState {
	b.chunked = false
	b.untilEOF = false
	b.remaining = n
	if n == 0 {
		return stComplete
	}
	return stReadingBodyLengthed
}

// startChunked arms the framer to read a chunked body.
func (b *bodyFramer) startChunked() decoderState {
	b.chunked = true
	b.untilEOF = false
	b.remaining = 0
	return stReadingBodyChunkHeader
}

// startUntilClose arms the framer to read until the caller signals
// endOfInput (close-delimited body, spec.md §4.2 step 4's last bullet).
func (b *bodyFramer) startUntilClose() decoderState {
	b.chunked = false
	b.untilEOF = true
	b.remaining = 0
	return stReadingBodyUntilClose
}

// step advances body decoding by one call's worth of cursor/sink, driven
// by the current state. It returns the next state (stComplete once the
// body, and any trailer, has been fully consumed) plus underflow/overflow
// flags mirroring CodecResult's meaning for this one step.
func (b *bodyFramer) step(state decoderState, c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (next decoderState, underflow, overflow bool, err error) {
	switch state {
	case stReadingBodyLengthed:
		return b.drainLengthed(c, sink)

	case stReadingBodyUntilClose:
		return b.drainUntilClose(c, sink, endOfInput)

	case stReadingBodyChunkHeader:
		return b.readChunkHeader(c)

	case stReadingBodyChunked:
		return b.drainChunk(c, sink)

	case stReadingTrailer:
		return b.readTrailer(c)

	default:
		return state, false, false, nil
	}
}

func (b *bodyFramer) drainLengthed(c *bytebuf.Cursor, sink *bytebuf.Sink) (decoderState, bool, bool, error) {
	for b.remaining > 0 {
		if sink.Room() == 0 {
			return stReadingBodyLengthed, false, true, nil
		}
		n := c.Remaining()
		if n == 0 {
			return stReadingBodyLengthed, true, false, nil
		}
		if int64(n) > b.remaining {
			n = int(b.remaining)
		}
		if n > sink.Room() {
			n = sink.Room()
		}
		data, _ := c.Take(n)
		sink.Write(data)
		b.remaining -= int64(n)
	}
	return stComplete, false, false, nil
}

func (b *bodyFramer) drainUntilClose(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (decoderState, bool, bool, error) {
	for c.Remaining() > 0 {
		if sink.Room() == 0 {
			return stReadingBodyUntilClose, false, true, nil
		}
		n := c.Remaining()
		if n > sink.Room() {
			n = sink.Room()
		}
		data, _ := c.Take(n)
		sink.Write(data)
	}
	if endOfInput {
		return stComplete, false, false, nil
	}
	return stReadingBodyUntilClose, true, false, nil
}

func (b *bodyFramer) readChunkHeader(c *bytebuf.Cursor) (decoderState, bool, bool, error) {
	line, complete, err := b.ls.feed(c, b.limits.MaxLineLength)
	if err != nil {
		return stReadingBodyChunkHeader, false, false, err
	}
	if !complete {
		return stReadingBodyChunkHeader, true, false, nil
	}
	size, err := parseChunkSize(line)
	if err != nil {
		return stReadingBodyChunkHeader, false, false, err
	}
	if size == 0 {
		return stReadingTrailer, false, false, nil
	}
	b.remaining = int64(size)
	return stReadingBodyChunked, false, false, nil
}

func (b *bodyFramer) drainChunk(c *bytebuf.Cursor, sink *bytebuf.Sink) (decoderState, bool, bool, error) {
	next, underflow, overflow, err := b.drainLengthed(c, sink)
	if err != nil || underflow || overflow {
		return stReadingBodyChunked, underflow, overflow, err
	}
	if next != stComplete {
		return stReadingBodyChunked, false, false, nil
	}
	// Consume the CRLF that terminates every chunk's data.
	line, complete, err := b.ls.feed(c, 2)
	if err != nil {
		return stReadingBodyChunkHeader, false, false, err
	}
	if !complete {
		return stReadingBodyChunked, true, false, nil
	}
	if line != "" {
		return stReadingBodyChunked, false, false, newProtocolError("malformed chunk terminator")
	}
	return stReadingBodyChunkHeader, false, false, nil
}

func (b *bodyFramer) readTrailer(c *bytebuf.Cursor) (decoderState, bool, bool, error) {
	for {
		line, complete, err := b.ls.feed(c, b.limits.MaxLineLength)
		if err != nil {
			return stReadingTrailer, false, false, err
		}
		if !complete {
			return stReadingTrailer, true, false, nil
		}
		if line == "" {
			return stComplete, false, false, nil
		}
		if b.trailer == nil {
			b.trailer = httpmsg.NewHeader()
		}
		name, value, ok := splitHeaderLine(line)
		if !ok {
			return stReadingTrailer, false, false, newParseError(line, 0, "malformed trailer field")
		}
		b.trailer.Add(name, value)
	}
}

// parseChunkSize parses a chunk-size line (hex digits, optionally
// followed by `;` chunk-extensions which are ignored) the way
// packetd-packetd's parseHexUint accumulates a hex value byte by byte,
// rather than delegating to strconv so overflow is caught explicitly
// (spec.md §4.2 step 7: "negative or overflow ⇒ 400").
func parseChunkSize(line string) (uint64, error) {
	if semi := indexByte(line, ';'); semi >= 0 {
		line = line[:semi]
	}
	if line == "" {
		return 0, newParseError(line, 0, "empty chunk size")
	}
	var n uint64
	for i := 0; i < len(line); i++ {
		c := line[i]
		var d uint64
		switch {
		case '0' <= c && c <= '9':
			d = uint64(c - '0')
		case 'a' <= c && c <= 'f':
			d = uint64(c-'a') + 10
		case 'A' <= c && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			return 0, newParseError(line, i, "invalid chunk size digit")
		}
		if i == 16 {
			return 0, newProtocolError("chunk size overflow")
		}
		n = n<<4 | d
	}
	return n, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
