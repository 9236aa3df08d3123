package engine

import (
	"github.com/coregx/wire/httpmsg"
	"github.com/coregx/wire/wsframe"
)

// CodecResult mirrors the three flags every decode/encode call can
// return, carried forward regardless of which phase (HTTP or,
// post-switch, WebSocket) produced it.
type CodecResult struct {
	Overflow        bool
	Underflow       bool
	CloseConnection bool
}

// DecodeResult unifies httpcodec.DecodeResult and wsframe.DecodeResult
// behind one shape, since an Engine's current phase can switch mid-life
// (spec.md §4.6): the caller checks Switched once and thereafter reads
// whichever of the HTTP/WebSocket-specific fields apply.
type DecodeResult struct {
	CodecResult

	// HTTP phase.
	HeaderCompleted bool
	Response        *httpmsg.Response
	ResponseOnly    bool

	// WebSocket phase (valid once Switched() is true).
	FrameComplete   bool
	MessageComplete bool
	MessageType     wsframe.MessageType
	AutoFrame       *wsframe.AutoReply
}
