package wsframe

// CodecResult mirrors httpcodec.CodecResult for the frame codecs: the
// three flags every decode/encode call can return regardless of what
// else happened.
type CodecResult struct {
	Overflow        bool
	Underflow       bool
	CloseConnection bool
}

// AutoReply is a frame the decoder has already assembled and the caller
// must hand to the paired Encoder immediately: an auto-pong for a ping,
// or a close frame synthesized in response to a protocol violation or an
// inbound close (spec.md §4.4).
type AutoReply struct {
	Opcode  byte
	Payload []byte
}

// DecodeResult is the WebSocket-side analogue of httpcodec.DecodeResult.
type DecodeResult struct {
	CodecResult

	// FrameComplete is true on the call that finished decoding one
	// frame (control frame, or one fragment of a data message).
	FrameComplete bool

	// MessageComplete is true once a full text/binary message (all of
	// its fragments) has been decoded into the caller's sink.
	MessageComplete bool

	// MessageType is valid when MessageComplete is true.
	MessageType MessageType

	// AutoReply is set when this decode produced a frame that must be
	// encoded and sent back without application involvement.
	AutoReply *AutoReply

	// ResponseOnly mirrors httpcodec: true when AutoReply is the sole
	// outcome of this call (no sink bytes were produced).
	ResponseOnly bool
}
