package engine

import (
	"go.uber.org/zap"

	"github.com/coregx/wire/bytebuf"
	"github.com/coregx/wire/httpcodec"
	"github.com/coregx/wire/httpmsg"
	"github.com/coregx/wire/wsframe"
	"github.com/coregx/wire/wsupgrade"
)

// ClientEngine owns a response-decoder and a request-encoder — the
// mirror of ServerEngine (spec.md §4.6).
type ClientEngine struct {
	opts    Options
	log     *zap.Logger
	closing *ClosingState

	decoder *httpcodec.ResponseDecoder
	encoder *httpcodec.RequestEncoder

	currentReq  *httpmsg.Request
	pendingSwap wsupgrade.Provider

	switched      bool
	switchedProto string
	wsDecoder     *wsframe.Decoder
	wsEncoder     *wsframe.Encoder
}

// NewClientEngine returns a ClientEngine ready for its first request.
func NewClientEngine(opts Options) *ClientEngine {
	closing := NewClosingState()
	return &ClientEngine{
		opts:    opts,
		log:     opts.logger(),
		closing: closing,
		decoder: httpcodec.NewResponseDecoder(opts.httpLimits()),
		encoder: httpcodec.NewRequestEncoder(),
	}
}

// Switched reports whether this engine has completed a protocol switch.
func (e *ClientEngine) Switched() (proto string, ok bool) {
	return e.switchedProto, e.switched
}

// PushRequest begins encoding req. When protocol is non-empty, the
// matching provider (if registered) augments req with its handshake
// headers before encoding, and the engine arranges to switch protocols
// once a matching 101 response is decoded and validated.
func (e *ClientEngine) PushRequest(req *httpmsg.Request, protocol string, hasPayload bool) error {
	e.currentReq = req
	e.pendingSwap = nil
	if protocol != "" && e.opts.Providers != nil {
		if p, ok := e.opts.Providers.Lookup(protocol); ok {
			p.AugmentInitialRequest(req)
			e.pendingSwap = p
			e.switchedProto = p.Name()
		}
	}
	return e.encoder.PushHeader(req, hasPayload)
}

// Encode drains header and body bytes for the request (or, post-switch,
// the current WebSocket frame).
func (e *ClientEngine) Encode(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (CodecResult, error) {
	if e.switched {
		wr, err := e.wsEncoder.Encode(c, sink, endOfInput)
		return CodecResult{Overflow: wr.Overflow, Underflow: wr.Underflow, CloseConnection: wr.CloseConnection}, err
	}
	res, err := e.encoder.Encode(c, sink, endOfInput)
	if err != nil {
		return CodecResult{}, err
	}
	return CodecResult{Overflow: res.Overflow, Underflow: res.Underflow, CloseConnection: res.CloseConnection}, nil
}

// Decode feeds inbound bytes through the current phase's decoder. Once a
// 101 response matching a pending provider has been fully decoded and
// validated, the engine completes the switch before returning.
func (e *ClientEngine) Decode(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (DecodeResult, error) {
	if e.switched {
		wr, err := e.wsDecoder.Decode(c, sink, endOfInput)
		return wsResultToEngine(wr), err
	}

	hr, err := e.decoder.Decode(c, sink, endOfInput, e.currentReq)
	if err != nil {
		return DecodeResult{}, err
	}

	if hr.HeaderCompleted {
		resp := e.decoder.Response()
		if resp.Status == 101 && e.pendingSwap != nil && e.pendingSwap.CheckSwitchingResponse(e.currentReq, resp) {
			e.completeSwitch()
		}
	}

	return DecodeResult{
		CodecResult:     CodecResult{Overflow: hr.Overflow, Underflow: hr.Underflow, CloseConnection: hr.CloseConnection},
		HeaderCompleted: hr.HeaderCompleted,
		Response:        nil,
		ResponseOnly:    hr.ResponseOnly,
	}, nil
}

// Response returns the most recently decoded response header.
func (e *ClientEngine) Response() *httpmsg.Response { return e.decoder.Response() }

func (e *ClientEngine) PushControlFrame(opcode byte, payload []byte) error {
	if !e.switched {
		return ErrUnexpectedCall
	}
	return e.wsEncoder.PushControl(opcode, payload)
}

func (e *ClientEngine) PushMessageFrame(opcode byte) error {
	if !e.switched {
		return ErrUnexpectedCall
	}
	return e.wsEncoder.PushMessage(opcode)
}

func (e *ClientEngine) completeSwitch() {
	p := e.pendingSwap
	e.wsDecoder, e.wsEncoder = p.NewClientCodecs(e.closing)
	e.switched = true
	e.pendingSwap = nil
	if ce := e.log.Check(zap.DebugLevel, "protocol switch complete"); ce != nil {
		ce.Write(zap.String("protocol", e.switchedProto))
	}
}
