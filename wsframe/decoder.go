package wsframe

import (
	"encoding/binary"

	"github.com/coregx/wire/bytebuf"
)

type decState int

const (
	stHead2 decState = iota
	stExtLength
	stMaskKey
	stPayload
)

// Decoder is a streaming, non-blocking RFC 6455 frame decoder (spec.md
// §4.4). isServer selects which side of the masking rule it enforces: a
// server decoder requires every frame masked, a client decoder requires
// every frame unmasked.
type Decoder struct {
	isServer bool
	limits   Limits
	closing  *ClosingState

	state   decState
	scratch bytebuf.Spool
	extNeed int
	hdr     frameHeader

	payloadRemaining uint64
	maskIndex        int

	fragmented bool
	fragOpcode byte
	msgUTF8    utf8Validator
	msgLen     uint64

	controlSpool bytebuf.Spool
}

// NewDecoder returns a Decoder. closing must be the same ClosingState
// shared with the paired Encoder for this logical connection.
func NewDecoder(isServer bool, limits Limits, closing *ClosingState) *Decoder {
	d := &Decoder{isServer: isServer, limits: limits.withDefaults(), closing: closing}
	d.resetFrame()
	return d
}

func (d *Decoder) resetFrame() {
	d.state = stHead2
	d.scratch.Reset()
	d.hdr = frameHeader{}
	d.maskIndex = 0
}

func (d *Decoder) resetMessage() {
	d.fragmented = false
	d.fragOpcode = 0
	d.msgUTF8 = utf8Validator{}
	d.msgLen = 0
}

// Decode consumes frame bytes from c, writing data-frame payload into
// sink, until a frame or message completes, input underflows, or sink
// overflows. Closing is shared-state-aware: once the ClosingState has
// reached Closed, Decode reports end-of-stream via Underflow without
// consuming anything further.
func (d *Decoder) Decode(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (DecodeResult, error) {
	var res DecodeResult

	if d.closing.Get() == Closed {
		res.Underflow = true
		return res, nil
	}

	for {
		switch d.state {
		case stHead2:
			if !readFixed(c, &d.scratch, 2) {
				res.Underflow = true
				return res, nil
			}
			b := d.scratch.Bytes()
			d.hdr.fin = b[0]&0x80 != 0
			d.hdr.rsv1 = b[0]&0x40 != 0
			d.hdr.rsv2 = b[0]&0x20 != 0
			d.hdr.rsv3 = b[0]&0x10 != 0
			d.hdr.opcode = b[0] & 0x0F
			d.hdr.masked = b[1]&0x80 != 0
			lenTier := b[1] & 0x7F
			d.scratch.Reset()

			if err := d.validateHead(); err != nil {
				return d.protocolFail(err)
			}

			switch lenTier {
			case payloadLen16Bit:
				d.extNeed = 2
				d.state = stExtLength
			case payloadLen64Bit:
				d.extNeed = 8
				d.state = stExtLength
			default:
				d.hdr.length = uint64(lenTier)
				if err := d.validateLength(); err != nil {
					return d.protocolFail(err)
				}
				d.state = stMaskKey
			}

		case stExtLength:
			if !readFixed(c, &d.scratch, d.extNeed) {
				res.Underflow = true
				return res, nil
			}
			b := d.scratch.Bytes()
			if d.extNeed == 2 {
				d.hdr.length = uint64(binary.BigEndian.Uint16(b))
			} else {
				v := binary.BigEndian.Uint64(b)
				if v&(1<<63) != 0 {
					d.scratch.Reset()
					return d.protocolFail(ErrFrameTooLarge)
				}
				d.hdr.length = v
			}
			d.scratch.Reset()
			if err := d.validateLength(); err != nil {
				return d.protocolFail(err)
			}
			d.state = stMaskKey

		case stMaskKey:
			if d.hdr.masked {
				if !readFixed(c, &d.scratch, 4) {
					res.Underflow = true
					return res, nil
				}
				copy(d.hdr.mask[:], d.scratch.Bytes())
				d.scratch.Reset()
			}
			d.payloadRemaining = d.hdr.length
			d.maskIndex = 0
			if IsControlFrame(d.hdr.opcode) {
				d.controlSpool.Reset()
			}
			d.state = stPayload

		case stPayload:
			if IsControlFrame(d.hdr.opcode) {
				done, underflow := d.drainControlPayload(c)
				if underflow {
					res.Underflow = true
					return res, nil
				}
				if !done {
					continue
				}
				return d.finishControlFrame()
			}

			underflow, overflow, err := d.drainDataPayload(c, sink)
			if err != nil {
				return d.protocolFail(err)
			}
			if overflow {
				res.Overflow = true
				return res, nil
			}
			if underflow {
				res.Underflow = true
				return res, nil
			}

			res.FrameComplete = true
			if !d.hdr.fin {
				if !d.fragmented {
					d.fragmented = true
					d.fragOpcode = d.hdr.opcode
				}
				d.resetFrame()
				return res, nil
			}

			if d.fragmented || d.hdr.opcode != OpcodeContinuation {
				opcode := d.hdr.opcode
				if d.fragmented {
					opcode = d.fragOpcode
				}
				if opcode == OpcodeText && !d.msgUTF8.Complete() {
					d.resetFrame()
					d.resetMessage()
					return d.protocolFail(ErrInvalidUTF8)
				}
				res.MessageComplete = true
				if opcode == OpcodeText {
					res.MessageType = TextMessage
				} else {
					res.MessageType = BinaryMessage
				}
			}
			d.resetMessage()
			d.resetFrame()
			return res, nil

		default:
			return res, nil
		}
	}
}

func (d *Decoder) validateHead() error {
	if !IsValidOpcode(d.hdr.opcode) {
		return ErrInvalidOpcode
	}
	if d.hdr.rsv1 || d.hdr.rsv2 || d.hdr.rsv3 {
		return ErrReservedBits
	}
	if IsControlFrame(d.hdr.opcode) && !d.hdr.fin {
		return ErrControlFragmented
	}
	if d.isServer && !d.hdr.masked {
		return ErrMaskRequired
	}
	if !d.isServer && d.hdr.masked {
		return ErrMaskUnexpected
	}
	if !IsControlFrame(d.hdr.opcode) {
		if d.hdr.opcode == OpcodeContinuation && !d.fragmented {
			return ErrUnexpectedContinuation
		}
		if d.hdr.opcode != OpcodeContinuation && d.fragmented {
			return ErrExpectedContinuation
		}
	}
	return nil
}

func (d *Decoder) validateLength() error {
	if IsControlFrame(d.hdr.opcode) && d.hdr.length > maxControlPayload {
		return ErrControlTooLarge
	}
	if d.hdr.length > uint64(d.limits.MaxFramePayload) {
		return newFrameError(CloseMessageTooBig, ErrFrameTooLarge)
	}
	if !IsControlFrame(d.hdr.opcode) && d.msgLen+d.hdr.length > uint64(d.limits.MaxMessagePayload) {
		return newFrameError(CloseMessageTooBig, ErrPayloadTooLarge)
	}
	return nil
}

// drainDataPayload copies as much of the current frame's payload as
// possible from c into sink, unmasking in place as bytes are copied
// (spec.md §4.4: "preserving index when the caller's output buffer
// fills mid-frame"), and feeds text-message bytes to the running UTF-8
// validator.
func (d *Decoder) drainDataPayload(c *bytebuf.Cursor, sink *bytebuf.Sink) (underflow, overflow bool, err error) {
	for d.payloadRemaining > 0 {
		avail := c.Remaining()
		if avail == 0 {
			return true, false, nil
		}
		room := sink.Room()
		if room == 0 {
			return false, true, nil
		}
		n := avail
		if uint64(n) > d.payloadRemaining {
			n = int(d.payloadRemaining)
		}
		if n > room {
			n = room
		}
		chunk, _ := c.Take(n)
		if d.hdr.masked {
			unmaskInto(chunk, d.hdr.mask, d.maskIndex)
		}
		sink.Write(chunk)

		opcode := d.hdr.opcode
		if d.fragmented {
			opcode = d.fragOpcode
		}
		if opcode == OpcodeText {
			d.msgUTF8.Write(chunk)
		}

		d.maskIndex += n
		d.payloadRemaining -= uint64(n)
		d.msgLen += uint64(n)
	}
	if d.msgUTF8.invalid {
		return false, false, ErrInvalidUTF8
	}
	return false, false, nil
}

func (d *Decoder) drainControlPayload(c *bytebuf.Cursor) (done, underflow bool) {
	for uint64(d.controlSpool.Len()) < d.hdr.length {
		b, ok := c.TakeByte()
		if !ok {
			return false, true
		}
		if d.hdr.masked {
			b ^= d.hdr.mask[d.controlSpool.Len()%4]
		}
		d.controlSpool.WriteByte(b)
	}
	return true, false
}

func (d *Decoder) finishControlFrame() (DecodeResult, error) {
	payload := append([]byte(nil), d.controlSpool.Bytes()...)
	opcode := d.hdr.opcode
	d.resetFrame()

	var res DecodeResult
	res.FrameComplete = true

	switch opcode {
	case OpcodePing:
		res.AutoReply = &AutoReply{Opcode: OpcodePong, Payload: payload}
		res.ResponseOnly = true
		return res, nil

	case OpcodePong:
		return res, nil

	case OpcodeClose:
		code := CloseNormalClosure
		reason := payload
		if len(payload) == 1 {
			return d.protocolFail(ErrInvalidClosePayload)
		}
		if len(payload) >= 2 {
			c := int(binary.BigEndian.Uint16(payload[:2]))
			if !isValidCloseCodeOnWire(c) {
				return d.protocolFail(ErrInvalidCloseCode)
			}
			code = CloseCode(c)
			reason = payload[2:]
		}
		prev := d.closing.OnReceiveClose()
		res.CloseConnection = prev == Closed
		if prev != Closed {
			// Our side has not already sent a close; echo one back.
			echoPayload := make([]byte, 2, 2+len(reason))
			binary.BigEndian.PutUint16(echoPayload, uint16(code))
			echoPayload = append(echoPayload, reason...)
			res.AutoReply = &AutoReply{Opcode: OpcodeClose, Payload: echoPayload}
			res.ResponseOnly = true
			res.CloseConnection = true
		}
		return res, nil

	default:
		return res, nil
	}
}

func (d *Decoder) protocolFail(cause error) (DecodeResult, error) {
	code := CloseCodeFor(cause)
	payload := make([]byte, 2)
	binary.BigEndian.PutUint16(payload, uint16(code))

	d.closing.OnSendClose()
	d.resetFrame()
	d.resetMessage()

	return DecodeResult{
		CodecResult:  CodecResult{CloseConnection: true},
		AutoReply:    &AutoReply{Opcode: OpcodeClose, Payload: payload},
		ResponseOnly: true,
	}, nil
}

// readFixed accumulates bytes from c into spool until it holds need
// bytes, returning false (without erroring) if c runs out first —
// the caller carries the partial spool into its next Decode call.
func readFixed(c *bytebuf.Cursor, spool *bytebuf.Spool, need int) bool {
	for spool.Len() < need {
		b, ok := c.TakeByte()
		if !ok {
			return false
		}
		spool.WriteByte(b)
	}
	return true
}

// unmaskInto XORs data in place against mask, with i0 the payload-wide
// byte offset data[0] corresponds to (so the mask cycle lines up
// correctly across calls split mid-frame).
func unmaskInto(data []byte, mask [4]byte, i0 int) {
	for i := range data {
		data[i] ^= mask[(i0+i)%4]
	}
}
