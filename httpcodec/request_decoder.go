package httpcodec

import (
	"strconv"
	"strings"

	"github.com/coregx/wire/bytebuf"
	"github.com/coregx/wire/httpmsg"
)

// RequestDecoder is the server-side half of spec.md §4.2: it turns bytes
// received from a client into an httpmsg.Request, then drains the body
// into the caller's out buffer.
type RequestDecoder struct {
	state   decoderState
	ls      lineScanner
	hdr     headerReader
	body    bodyFramer
	limits  Limits
	req     *httpmsg.Request
	upgrade string // non-empty once an Upgrade request has been fully decoded
}

// NewRequestDecoder returns a RequestDecoder ready to decode the first
// message; limits' zero value applies sane defaults.
func NewRequestDecoder(limits Limits) *RequestDecoder {
	limits = limits.withDefaults()
	d := &RequestDecoder{limits: limits}
	d.reset()
	return d
}

func (d *RequestDecoder) reset() {
	d.state = stAwaitStartLine
	d.ls.reset()
	d.hdr = headerReader{limits: d.limits}
	d.hdr.reset()
	d.body = bodyFramer{limits: d.limits}
	d.req = nil
	d.upgrade = ""
}

// finishBody is called exactly when d.state has just become stComplete,
// from either the header state (zero-length body) or the body-reading
// states (body fully drained). A request that asked to upgrade advances
// to stUpgradeSwitch immediately so UpgradeRequested() reports it within
// the same Decode call; otherwise the decoder is left in stComplete and
// the actual reset is deferred to the next Decode call (see the
// stComplete case below), so Request() stays valid for the caller that
// just finished decoding it instead of being wiped out from under them.
func (d *RequestDecoder) finishBody() {
	if d.upgrade != "" {
		d.state = stUpgradeSwitch
	}
}

// Request returns the most recently decoded request header, valid from
// the call that set HeaderCompleted until the next reset (i.e. until the
// next request begins decoding).
func (d *RequestDecoder) Request() *httpmsg.Request { return d.req }

// UpgradeRequested returns the protocol name requested by Connection:
// upgrade / Upgrade, once the current request's body has fully drained
// and decoding has reached UPGRADE_SWITCH.
func (d *RequestDecoder) UpgradeRequested() (string, bool) {
	if d.state == stUpgradeSwitch {
		return d.upgrade, true
	}
	return "", false
}

// Decode implements spec.md §4.2's decode(in, out, endOfInput) contract
// for the request direction. c and sink are caller-owned: c retains its
// read position across calls (the caller appends more bytes and resets
// position as needed), and sink retains whatever room the caller gave it
// for this call only.
func (d *RequestDecoder) Decode(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (DecodeResult, error) {
	var res DecodeResult

	for {
		switch d.state {
		case stAwaitStartLine:
			line, complete, err := d.ls.feed(c, d.limits.MaxLineLength)
			if err != nil {
				return d.synthesizeLineError(err)
			}
			if !complete {
				res.Underflow = true
				return res, nil
			}
			if line == "" {
				continue // tolerate a stray blank line before the request-line
			}
			req, err := parseRequestLine(line)
			if err != nil {
				return d.synthesizeBadRequest(err)
			}
			d.req = req
			d.hdr.reset()
			d.state = stReadingHeaders

		case stReadingHeaders:
			done, underflow, err := d.hdr.feed(c)
			if err != nil {
				return d.synthesizeHeaderError(err)
			}
			if underflow {
				res.Underflow = true
				return res, nil
			}
			if !done {
				continue
			}
			d.req.Header = d.hdr.header
			res.HeaderCompleted = true

			mode, n, err := decideRequestFraming(d.req.Header)
			if err != nil {
				return d.synthesizeBadRequest(err)
			}
			switch mode {
			case bodyChunked:
				d.state = d.body.startChunked()
			default:
				d.state = d.body.startLengthed(n)
			}

			if proto, ok := wantsUpgrade(d.req.Header); ok {
				d.upgrade = proto
			}

			// A zero-length body (the common bodyless-request case)
			// reaches stComplete here rather than via the body-reading
			// states below; drive it through the same completion
			// handling (the upgrade-vs-stay-complete decision) so an
			// upgrade request is detected even without a body.
			if d.state == stComplete {
				d.finishBody()
			}

			if headerContainsToken(d.req.Header.Get("Expect"), "100-continue") {
				res.Response = httpmsg.NewResponse(1, 1, 100, "Continue")
				return res, nil
			}
			return res, nil

		case stReadingBodyLengthed, stReadingBodyUntilClose, stReadingBodyChunkHeader, stReadingBodyChunked, stReadingTrailer:
			next, underflow, overflow, err := d.body.step(d.state, c, sink, endOfInput)
			if err != nil {
				return d.synthesizeBadRequest(err)
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
			d.finishBody()
			return res, nil

		case stComplete:
			if c.Remaining() == 0 {
				return res, nil
			}
			// More bytes already sit in the cursor: a pipelined
			// second request. Reset now, just before parsing it,
			// so the request just completed stays readable via
			// Request() for as long as possible.
			d.reset()
			continue

		case stUpgradeSwitch:
			res.Underflow = c.Remaining() == 0
			return res, nil

		default:
			return res, nil
		}
	}
}

func (d *RequestDecoder) synthesizeBadRequest(cause error) (DecodeResult, error) {
	status, reason := 400, "Bad Request"
	if _, ok := cause.(*UnsupportedVersionError); ok {
		status, reason = 505, "HTTP Version Not Supported"
	}
	resp := httpmsg.NewResponse(1, 1, status, reason)
	resp.Header.Set("Connection", "close")
	d.reset()
	return DecodeResult{
		CodecResult:  CodecResult{CloseConnection: true},
		Response:     resp,
		ResponseOnly: true,
	}, nil
}

func (d *RequestDecoder) synthesizeLineError(cause error) (DecodeResult, error) {
	if _, ok := cause.(*LimitError); ok {
		resp := httpmsg.NewResponse(1, 1, 431, "Request Header Fields Too Large")
		resp.Header.Set("Connection", "close")
		d.reset()
		return DecodeResult{
			CodecResult:  CodecResult{CloseConnection: true},
			Response:     resp,
			ResponseOnly: true,
		}, nil
	}
	return d.synthesizeBadRequest(cause)
}

func (d *RequestDecoder) synthesizeHeaderError(cause error) (DecodeResult, error) {
	return d.synthesizeLineError(cause)
}

// parseRequestLine parses "METHOD SP request-target SP HTTP/<d>.<d>"
// (spec.md §4.2 step 2).
func parseRequestLine(line string) (*httpmsg.Request, error) {
	sp1 := indexByte(line, ' ')
	if sp1 <= 0 {
		return nil, newParseError(line, 0, "malformed request-line")
	}
	rest := line[sp1+1:]
	sp2 := indexByte(rest, ' ')
	if sp2 <= 0 {
		return nil, newParseError(line, sp1+1, "malformed request-line")
	}
	method := line[:sp1]
	target := rest[:sp2]
	versionTok := rest[sp2+1:]

	major, minor, err := parseHTTPVersion(versionTok)
	if err != nil {
		return nil, err
	}
	if major != 1 {
		return nil, &UnsupportedVersionError{Major: major}
	}
	return httpmsg.NewRequest(method, target, major, minor), nil
}

func parseHTTPVersion(tok string) (major, minor int, err error) {
	const prefix = "HTTP/"
	if !strings.HasPrefix(tok, prefix) {
		return 0, 0, newParseError(tok, 0, "malformed protocol version")
	}
	tok = tok[len(prefix):]
	dot := indexByte(tok, '.')
	if dot <= 0 || dot == len(tok)-1 {
		return 0, 0, newParseError(tok, 0, "malformed protocol version")
	}
	major, err1 := strconv.Atoi(tok[:dot])
	minor, err2 := strconv.Atoi(tok[dot+1:])
	if err1 != nil || err2 != nil {
		return 0, 0, newParseError(tok, 0, "malformed protocol version")
	}
	return major, minor, nil
}
