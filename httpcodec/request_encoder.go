package httpcodec

import (
	"strconv"

	"github.com/coregx/wire/bytebuf"
	"github.com/coregx/wire/httpmsg"
)

// RequestEncoder is the client-side half of spec.md §4.3: it serializes
// an httpmsg.Request and its body onto the wire.
type RequestEncoder struct {
	encoderCore
}

// NewRequestEncoder returns a RequestEncoder ready for its first
// PushHeader call.
func NewRequestEncoder() *RequestEncoder {
	e := &RequestEncoder{}
	e.reset()
	return e
}

// PushHeader begins encoding req. hasPayload tells the encoder whether a
// body will follow when neither Content-Length nor Transfer-Encoding is
// already set.
func (e *RequestEncoder) PushHeader(req *httpmsg.Request, hasPayload bool) error {
	if e.state != encInitial && e.state != encDone {
		return ErrUnexpectedCall
	}

	closeConn := headerContainsToken(req.Header.Get("Connection"), "close")

	var mode bodyMode
	var length int64
	switch {
	case req.Header.Get("Content-Length") != "":
		n, _, err := parseContentLengthHeader(req.Header.Get("Content-Length"))
		if err != nil {
			return err
		}
		mode, length = bodyLengthed, n
	case isChunked(req.Header):
		mode = bodyChunked
	case !hasPayload:
		mode = bodyNone
	default:
		req.Header.Set("Transfer-Encoding", "chunked")
		mode = bodyChunked
	}

	startLine := req.Method + " " + req.Target + " HTTP/" + strconv.Itoa(req.ProtoMajor) + "." + strconv.Itoa(req.ProtoMinor)
	e.startHeader(serializeHeader(startLine, req.Header), mode, length, closeConn)
	return nil
}

// Encode drains header and body bytes into sink, consuming body bytes
// from c.
func (e *RequestEncoder) Encode(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (CodecResult, error) {
	var res CodecResult
	for {
		switch e.state {
		case encWritingHeaders:
			if !e.drainPending(sink) {
				res.Overflow = true
				return res, nil
			}
			e.state = encAwaitPayload
			continue

		case encAwaitPayload, encWritingBodyLengthed, encWritingBodyChunked, encFlushingTrailer:
			next, underflow, overflow := e.step(c, sink, endOfInput)
			e.state = next
			if overflow {
				res.Overflow = true
				return res, nil
			}
			if underflow {
				res.Underflow = true
				return res, nil
			}
			if e.state != encDone {
				continue
			}
			res.CloseConnection = e.closeConn
			e.reset()
			return res, nil

		default:
			return res, nil
		}
	}
}
