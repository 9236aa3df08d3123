package wsframe

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/coregx/wire/bytebuf"
)

type encState int

const (
	encIdle encState = iota
	encWritingFrame // draining a fully-built header+payload from pending
	encStreamingData
)

// Encoder is a streaming, non-blocking RFC 6455 frame encoder (spec.md
// §4.5). isServer selects whether outbound frames are masked: a client
// encoder masks every frame with a fresh random key, a server encoder
// never masks.
type Encoder struct {
	isServer bool
	closing  *ClosingState

	state   encState
	pending bytebuf.Spool

	dataOpcode   byte
	firstFrame   bool
	dataFinished bool
	streaming    bool
}

// NewEncoder returns an Encoder. closing must be the same ClosingState
// shared with the paired Decoder for this logical connection.
func NewEncoder(isServer bool, closing *ClosingState) *Encoder {
	e := &Encoder{isServer: isServer, closing: closing}
	return e
}

// PushControl begins a control frame (ping, pong, or close) with a
// complete payload known up front (<=125 bytes, enforced here). Close
// transitions the shared closing state as this side sending a close
// frame (spec.md §3).
func (e *Encoder) PushControl(opcode byte, payload []byte) error {
	if e.state != encIdle {
		return ErrUnexpectedCall
	}
	if len(payload) > maxControlPayload {
		return ErrControlTooLarge
	}
	if opcode == OpcodeClose {
		e.closing.OnSendClose()
	}
	e.streaming = false
	e.buildFrame(opcode, payload, true)
	e.state = encWritingFrame
	return nil
}

// PushMessage begins a text or binary message whose payload will be
// supplied across one or more Encode calls. opcode must be OpcodeText or
// OpcodeBinary.
func (e *Encoder) PushMessage(opcode byte) error {
	if e.state != encIdle {
		return ErrUnexpectedCall
	}
	e.dataOpcode = opcode
	e.firstFrame = true
	e.dataFinished = false
	e.streaming = true
	e.state = encStreamingData
	return nil
}

// Encode drains any pending frame bytes into sink and, for a streaming
// data message, wraps whatever of c is currently available into the
// next frame (spec.md §4.5: "fragmentation is driven by endOfInput").
func (e *Encoder) Encode(c *bytebuf.Cursor, sink *bytebuf.Sink, endOfInput bool) (CodecResult, error) {
	var res CodecResult

	for {
		switch e.state {
		case encStreamingData:
			avail := 0
			if c != nil {
				avail = c.Remaining()
			}
			if avail == 0 && !endOfInput {
				res.Underflow = true
				return res, nil
			}
			payload, _ := c.Take(avail)
			opcode := byte(OpcodeContinuation)
			if e.firstFrame {
				opcode = e.dataOpcode
			}
			e.firstFrame = false
			e.dataFinished = endOfInput
			e.buildFrame(opcode, payload, endOfInput)
			e.state = encWritingFrame
			continue

		case encWritingFrame:
			if !drainSpool(&e.pending, sink) {
				res.Overflow = true
				return res, nil
			}
			if !e.streaming {
				e.state = encIdle
				return res, nil
			}
			if e.dataFinished {
				e.streaming = false
				e.state = encIdle
				return res, nil
			}
			e.state = encStreamingData
			return res, nil

		default:
			return res, nil
		}
	}
}

// buildFrame serializes a complete frame (header plus, if masked,
// already-XORed payload) into e.pending.
func (e *Encoder) buildFrame(opcode byte, payload []byte, fin bool) {
	e.pending.Reset()

	b0 := opcode & 0x0F
	if fin {
		b0 |= 0x80
	}

	masked := !e.isServer
	b1 := byte(0)
	if masked {
		b1 |= 0x80
	}

	n := uint64(len(payload))
	switch {
	case n <= payloadLen7Bit:
		b1 |= byte(n)
	case n <= 0xFFFF:
		b1 |= payloadLen16Bit
	default:
		b1 |= payloadLen64Bit
	}

	e.pending.WriteByte(b0)
	e.pending.WriteByte(b1)

	switch {
	case n > payloadLen7Bit && n <= 0xFFFF:
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], uint16(n))
		e.pending.Write(buf[:])
	case n > 0xFFFF:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], n)
		e.pending.Write(buf[:])
	}

	if masked {
		var mask [4]byte
		_, _ = rand.Read(mask[:])
		e.pending.Write(mask[:])
		maskedPayload := append([]byte(nil), payload...)
		applyMask(maskedPayload, mask)
		e.pending.Write(maskedPayload)
		return
	}

	e.pending.Write(payload)
}

// drainSpool copies as much of spool's content into sink as fits, then
// resets the spool and writes the unwritten tail back into it, so the
// next call resumes from there. It reports whether the spool is empty.
func drainSpool(s *bytebuf.Spool, sink *bytebuf.Sink) bool {
	b := s.Bytes()
	if len(b) == 0 {
		return true
	}
	n := sink.Write(b)
	remaining := b[n:]
	s.Reset()
	s.Write(remaining)
	return len(remaining) == 0
}
