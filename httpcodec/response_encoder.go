package httpcodec

import (
	"strconv"
	"strings"

	"github.com/coregx/wire/bytebuf"
	"github.com/coregx/wire/httpmsg"
)

// ResponseEncoder is the server-side half of spec.md §4.3: it serializes
// an httpmsg.Response and its body onto the wire.
type ResponseEncoder struct {
	encoderCore
}

// NewResponseEncoder returns a ResponseEncoder ready for its first
// PushHeader call.
func NewResponseEncoder() *ResponseEncoder {
	e := &ResponseEncoder{}
	e.reset()
	return e
}

// PushHeader begins encoding resp. req is the request resp answers (used
// to detect a HEAD reply and an inbound Connection: close); hasPayload
// tells the encoder whether the caller intends to follow with body bytes
// at all, for messages that carry neither Content-Length nor
// Transfer-Encoding (spec.md §4.3).
func (e *ResponseEncoder) PushHeader(resp *httpmsg.Response, req *httpmsg.Request, hasPayload bool) error {
	if e.state != encInitial && e.state != encDone {
		return ErrUnexpectedCall
	}

	hadFraming := resp.Header.Get("Content-Length") != "" || isChunked(resp.Header)
	isHead := req != nil && strings.EqualFold(req.Method, "HEAD")
	statusForbidsBody := isHead || resp.Status == 204 || resp.Status == 304 || (resp.Status >= 100 && resp.Status < 200)

	reqWantsClose := req != nil && headerContainsToken(req.Header.Get("Connection"), "close")
	versionForcesClose := resp.ProtoMajor == 1 && resp.ProtoMinor == 0 && !hadFraming
	closeConn := reqWantsClose || versionForcesClose
	if closeConn {
		resp.Header.Set("Connection", "close")
	}

	var mode bodyMode
	var length int64
	switch {
	case resp.Header.Get("Content-Length") != "":
		n, _, err := parseContentLengthHeader(resp.Header.Get("Content-Length"))
		if err != nil {
			return err
		}
		mode, length = bodyLengthed, n
	case isChunked(resp.Header):
		mode = bodyChunked
	case !hasPayload || statusForbidsBody:
		mode = bodyNone
	default:
		resp.Header.Set("Transfer-Encoding", "chunked")
		mode = bodyChunked
	}

	startLine := "HTTP/" + strconv.Itoa(resp.ProtoMajor) + "." + strconv.Itoa(resp.ProtoMinor) + " " +
		strconv.Itoa(resp.Status) + " " + resp.Reason
	e.startHeader(serializeHeader(startLine, resp.Header), mode, length, closeConn)
	return nil
}

// Encode drains header and body bytes into sink, consuming body bytes
// from c (empty for a headers-only drain call, per spec.md §4.3:
// "encode(ByteBuffer out) ... used when the caller declared no body").
func (e *ResponseEncoder) Encode(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (CodecResult, error) {
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

func parseContentLengthHeader(s string) (int64, int, error) {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, 0, newParseError(s, 0, "malformed Content-Length")
	}
	v, err := strconv.ParseInt(s[:n], 10, 64)
	if err != nil {
		return 0, 0, newParseError(s, 0, "Content-Length out of range")
	}
	return v, n, nil
}
