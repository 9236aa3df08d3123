package httpcodec

import (
	"strings"

	"github.com/coregx/wire/bytebuf"
	"github.com/coregx/wire/httpmsg"
)

// ResponseDecoder is the client-side half of spec.md §4.2: it turns bytes
// received from a server into an httpmsg.Response, then drains the body.
// Framing for a response to HEAD, or to a 1xx/204/304 status, never
// carries a body regardless of headers (spec.md §4.2 step 4), so Decode
// takes the originating request so the caller doesn't have to track that
// itself.
type ResponseDecoder struct {
	state  decoderState
	ls     lineScanner
	hdr    headerReader
	body   bodyFramer
	limits Limits
	resp   *httpmsg.Response
}

// NewResponseDecoder returns a ResponseDecoder ready to decode the first
// message.
func NewResponseDecoder(limits Limits) *ResponseDecoder {
	limits = limits.withDefaults()
	d := &ResponseDecoder{limits: limits}
	d.reset()
	return d
}

func (d *ResponseDecoder) reset() {
	d.state = stAwaitStartLine
	d.ls.reset()
	d.hdr = headerReader{limits: d.limits}
	d.hdr.reset()
	d.body = bodyFramer{limits: d.limits}
	d.resp = nil
}

// Response returns the most recently decoded response header.
func (d *ResponseDecoder) Response() *httpmsg.Response { return d.resp }

// Decode implements spec.md §4.2's decode(in, out, endOfInput) contract
// for the response direction. req is the request this response answers,
// used only to detect a HEAD reply; it may be nil if unknown.
func (d *ResponseDecoder) Decode(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool, req *httpmsg.Request) (DecodeResult, error) {
	var res DecodeResult

	for {
		switch d.state {
		case stAwaitStartLine:
			line, complete, err := d.ls.feed(c, d.limits.MaxLineLength)
			if err != nil {
				return d.fail(err)
			}
			if !complete {
				res.Underflow = true
				return res, nil
			}
			if line == "" {
				continue
			}
			resp, err := parseStatusLine(line)
			if err != nil {
				return d.fail(err)
			}
			resp.Request = req
			d.resp = resp
			d.hdr.reset()
			d.state = stReadingHeaders

		case stReadingHeaders:
			done, underflow, err := d.hdr.feed(c)
			if err != nil {
				return d.fail(err)
			}
			if underflow {
				res.Underflow = true
				return res, nil
			}
			if !done {
				continue
			}
			d.resp.Header = d.hdr.header
			res.HeaderCompleted = true

			isHead := req != nil && strings.EqualFold(req.Method, "HEAD")
			mode, n, err := decideResponseFraming(d.resp.Header, d.resp.Status, isHead)
			if err != nil {
				return d.fail(err)
			}
			switch mode {
			case bodyChunked:
				d.state = d.body.startChunked()
			case bodyUntilClose:
				d.state = d.body.startUntilClose()
			default:
				d.state = d.body.startLengthed(n)
			}

			// A bodyless response (HEAD reply, 1xx/204/304, or an
			// explicit Content-Length: 0) reaches stComplete here rather
			// than via the body-reading states below. The reset needed
			// for a second response on a persistent connection is
			// deferred to the stComplete case below, so Response()
			// stays valid for the caller that just decoded it.
			return res, nil

		case stReadingBodyLengthed, stReadingBodyUntilClose, stReadingBodyChunkHeader, stReadingBodyChunked, stReadingTrailer:
			next, underflow, overflow, err := d.body.step(d.state, c, sink, endOfInput)
			if err != nil {
				return d.fail(err)
			}
			d.state = next
			if overflow {
				res.Overflow = true
				return res, nil
			}
			if underflow {
				res.Underflow = true
				return res, nil
			}
			if d.state != stComplete {
				continue
			}
			return res, nil

		case stComplete:
			if c.Remaining() == 0 {
				return res, nil
			}
			// More bytes already sit in the cursor: a second
			// response on a persistent connection. Reset now,
			// just before parsing it, so the response just
			// completed stays readable via Response() for as
			// long as possible.
			d.reset()
			continue

		default:
			return res, nil
		}
	}
}

// fail reports a decode error as a Go error rather than a synthesized
// response — spec.md §7: malformed responses are "surfaced as
// exceptional return" to a client, which has no transport-level response
// channel of its own to answer with.
func (d *ResponseDecoder) fail(err error) (DecodeResult, error) {
	d.reset()
	return DecodeResult{CodecResult: CodecResult{CloseConnection: true}}, err
}

// parseStatusLine parses "HTTP/<d>.<d> SP status SP reason" (spec.md
// §4.2 step 2).
func parseStatusLine(line string) (*httpmsg.Response, error) {
	sp1 := indexByte(line, ' ')
	if sp1 <= 0 {
		return nil, newParseError(line, 0, "malformed status-line")
	}
	versionTok := line[:sp1]
	rest := line[sp1+1:]

	major, minor, err := parseHTTPVersion(versionTok)
	if err != nil {
		return nil, err
	}
	if major != 1 {
		return nil, &UnsupportedVersionError{Major: major}
	}

	sp2 := indexByte(rest, ' ')
	statusTok := rest
	reason := ""
	if sp2 >= 0 {
		statusTok = rest[:sp2]
		reason = rest[sp2+1:]
	}
	if len(statusTok) != 3 {
		return nil, newParseError(line, sp1+1, "malformed status code")
	}
	status := 0
	for i := 0; i < 3; i++ {
		if statusTok[i] < '0' || statusTok[i] > '9' {
			return nil, newParseError(line, sp1+1+i, "malformed status code")
		}
		status = status*10 + int(statusTok[i]-'0')
	}
	return httpmsg.NewResponse(major, minor, status, reason), nil
}
