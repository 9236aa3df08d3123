package httpcodec

import "github.com/coregx/wire/httpmsg"

// CodecResult is the status every encode/decode call returns (spec.md
// §6): whether the caller must supply more input, whether out ran out of
// room, and whether the transport must be closed once any attached
// response has been sent.
type CodecResult struct {
	Overflow        bool
	Underflow       bool
	CloseConnection bool
}

// DecodeResult extends CodecResult with the decoder-only signals: whether
// this call finished the current message's header, an optional
// synthesized response the caller must encode immediately (100-continue,
// 400/431/505), and whether that response is the entire handling required
// for this call (responseOnly — a protocol violation, nothing further to
// decode).
type DecodeResult struct {
	CodecResult
	HeaderCompleted bool
	Response        *httpmsg.Response
	ResponseOnly    bool
}
