package engine

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/coregx/wire/bytebuf"
	"github.com/coregx/wire/httpcodec"
	"github.com/coregx/wire/httpmsg"
	"github.com/coregx/wire/wsframe"
	"github.com/coregx/wire/wsupgrade"
)

// ServerEngine owns a request-decoder and a response-encoder (spec.md
// §4.6). It stashes each fully-decoded request as the current inbound
// message and — when the application pushes a 101 Switching Protocols
// response and a matching upgrade provider exists — swaps its
// decoder/encoder pair for the provider's post-switch codecs. No response
// is attached to a decoded request; the application obtains a response
// skeleton by calling BuildResponseSkeleton.
type ServerEngine struct {
	opts    Options
	log     *zap.Logger
	closing *ClosingState

	decoder *httpcodec.RequestDecoder
	encoder *httpcodec.ResponseEncoder

	currentReq  *httpmsg.Request
	pendingSwap wsupgrade.Provider

	switched      bool
	switchedProto string
	wsDecoder     *wsframe.Decoder
	wsEncoder     *wsframe.Encoder
}

// NewServerEngine returns a ServerEngine ready to decode the first
// request.
func NewServerEngine(opts Options) *ServerEngine {
	closing := NewClosingState()
	return &ServerEngine{
		opts:    opts,
		log:     opts.logger(),
		closing: closing,
		decoder: httpcodec.NewRequestDecoder(opts.httpLimits()),
		encoder: httpcodec.NewResponseEncoder(),
	}
}

// Switched reports whether this engine has completed a protocol switch.
func (e *ServerEngine) Switched() (proto string, ok bool) {
	return e.switchedProto, e.switched
}

// CurrentRequest returns the most recently decoded request header.
func (e *ServerEngine) CurrentRequest() *httpmsg.Request { return e.currentReq }

// Decode feeds inbound bytes through the current phase's decoder.
func (e *ServerEngine) Decode(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (DecodeResult, error) {
	if e.switched {
		wr, err := e.wsDecoder.Decode(c, sink, endOfInput)
		return wsResultToEngine(wr), err
	}

	hr, err := e.decoder.Decode(c, sink, endOfInput)
	if err != nil {
		return DecodeResult{}, err
	}

	if hr.HeaderCompleted {
		e.currentReq = e.decoder.Request()
		if ce := e.log.Check(zap.DebugLevel, "request header decoded"); ce != nil {
			ce.Write(zap.String("method", e.currentReq.Method), zap.String("target", e.currentReq.Target))
		}
	}

	if hr.ResponseOnly {
		if ce := e.log.Check(zap.WarnLevel, "synthesized protocol response"); ce != nil {
			ce.Write(zap.Int("status", hr.Response.Status))
		}
	}

	return DecodeResult{
		CodecResult:     CodecResult{Overflow: hr.Overflow, Underflow: hr.Underflow, CloseConnection: hr.CloseConnection},
		HeaderCompleted: hr.HeaderCompleted,
		Response:        hr.Response,
		ResponseOnly:    hr.ResponseOnly,
	}, nil
}

// BuildResponseSkeleton pre-populates a Response for the current request
// the way spec.md §4.6 describes: protocol version, a Date field, and a
// Connection: close iff the inbound carries it or is HTTP/1.0 without
// keep-alive.
func (e *ServerEngine) BuildResponseSkeleton(now time.Time) *httpmsg.Response {
	req := e.currentReq
	resp := httpmsg.NewResponse(req.ProtoMajor, req.ProtoMinor, 200, "OK")
	resp.Request = req
	resp.Header.Set("Date", now.UTC().Format(time.RFC1123))
	conn := req.Header.Get("Connection")
	keepAlive := false
	for _, part := range strings.Split(conn, ",") {
		if strings.EqualFold(strings.TrimSpace(part), "keep-alive") {
			keepAlive = true
		}
	}
	if (!resp.KeepAliveByDefault() && !keepAlive) || headerWantsClose(conn) {
		resp.Header.Set("Connection", "close")
	}
	return resp
}

// PushResponse begins encoding resp as the reply to the current request.
// If resp.Status is 101 and the request's Upgrade header names a
// registered provider, the engine arranges to switch protocols once this
// response finishes encoding.
func (e *ServerEngine) PushResponse(resp *httpmsg.Response, hasPayload bool) error {
	e.pendingSwap = nil
	if resp.Status == 101 && e.opts.Providers != nil {
		if proto := e.currentReq.Header.Get("Upgrade"); proto != "" {
			if p, ok := e.opts.Providers.Lookup(proto); ok && p.AugmentInitialResponse(e.currentReq, resp) {
				e.pendingSwap = p
				e.switchedProto = p.Name()
			}
		}
	}
	return e.encoder.PushHeader(resp, e.currentReq, hasPayload)
}

// Encode drains header and body bytes for the current phase. Once a
// pushed 101 response finishes encoding with a pending provider, the
// engine completes the switch before returning.
func (e *ServerEngine) Encode(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (CodecResult, error) {
	if e.switched {
		wr, err := e.wsEncoder.Encode(c, sink, endOfInput)
		return CodecResult{Overflow: wr.Overflow, Underflow: wr.Underflow, CloseConnection: wr.CloseConnection}, err
	}

	res, err := e.encoder.Encode(c, sink, endOfInput)
	if err != nil {
		return CodecResult{}, err
	}
	if !res.Overflow && !res.Underflow && e.pendingSwap != nil {
		e.completeSwitch()
	}
	return CodecResult{Overflow: res.Overflow, Underflow: res.Underflow, CloseConnection: res.CloseConnection}, nil
}

// PushControlFrame/PushMessageFrame delegate to the post-switch wsframe.Encoder;
// valid only once Switched() is true.
func (e *ServerEngine) PushControlFrame(opcode byte, payload []byte) error {
	if !e.switched {
		return ErrUnexpectedCall
	}
	return e.wsEncoder.PushControl(opcode, payload)
}

func (e *ServerEngine) PushMessageFrame(opcode byte) error {
	if !e.switched {
		return ErrUnexpectedCall
	}
	return e.wsEncoder.PushMessage(opcode)
}

func (e *ServerEngine) completeSwitch() {
	p := e.pendingSwap
	e.wsDecoder, e.wsEncoder = p.NewServerCodecs(e.closing)
	e.switched = true
	e.pendingSwap = nil
	if ce := e.log.Check(zap.DebugLevel, "protocol switch complete"); ce != nil {
		ce.Write(zap.String("protocol", e.switchedProto))
	}
}

// headerWantsClose reports whether a Connection header value names the
// close token, case-insensitively.
func headerWantsClose(connection string) bool {
	for _, part := range strings.Split(connection, ",") {
		if strings.EqualFold(strings.TrimSpace(part), "close") {
			return true
		}
	}
	return false
}

func wsResultToEngine(wr wsframe.DecodeResult) DecodeResult {
	return DecodeResult{
		CodecResult:     CodecResult{Overflow: wr.Overflow, Underflow: wr.Underflow, CloseConnection: wr.CloseConnection},
		FrameComplete:   wr.FrameComplete,
		MessageComplete: wr.MessageComplete,
		MessageType:     wr.MessageType,
		AutoFrame:       wr.AutoReply,
		ResponseOnly:    wr.ResponseOnly,
	}
}
