package wsframe

import "sync/atomic"

// ClosingStateValue enumerates the four states of a WebSocket closing
// handshake, shared by reference between a connection's Decoder and
// Encoder (spec.md §3).
type ClosingStateValue int32

const (
	Open ClosingStateValue = iota
	CloseSent
	CloseReceived
	Closed
)

func (v ClosingStateValue) String() string {
	switch v {
	case Open:
		return "OPEN"
	case CloseSent:
		return "CLOSE_SENT"
	case CloseReceived:
		return "CLOSE_RECEIVED"
	case Closed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// ClosingState is the mutable cell both directions of one logical
// connection share a pointer to (spec.md §9's design note: "model as an
// explicitly passed handle"). It uses sync/atomic rather than a mutex
// because the single-threaded-per-connection rule (spec.md §5) makes the
// actual access pattern uncontended; atomic gives a cheap, lock-free way
// to let a decoder and an encoder instance both hold the pointer without
// either owning it, mirroring the teacher's Conn.closed int32 field.
type ClosingState struct {
	v int32
}

// NewClosingState returns a ClosingState starting at Open.
func NewClosingState() *ClosingState { return &ClosingState{v: int32(Open)} }

// Get returns the current state.
func (c *ClosingState) Get() ClosingStateValue { return ClosingStateValue(atomic.LoadInt32(&c.v)) }

// OnSendClose transitions the state after this side sends a close frame
// (spec.md §3's transition table): OPEN → CLOSE_SENT, CLOSE_RECEIVED →
// CLOSED. Any other starting state is left unchanged (already closing).
func (c *ClosingState) OnSendClose() ClosingStateValue {
	for {
		cur := c.Get()
		var next ClosingStateValue
		switch cur {
		case Open:
			next = CloseSent
		case CloseReceived:
			next = Closed
		default:
			return cur
		}
		if atomic.CompareAndSwapInt32(&c.v, int32(cur), int32(next)) {
			return next
		}
	}
}

// OnReceiveClose transitions the state after this side receives a close
// frame: OPEN → CLOSE_RECEIVED, CLOSE_SENT → CLOSED.
func (c *ClosingState) OnReceiveClose() ClosingStateValue {
	for {
		cur := c.Get()
		var next ClosingStateValue
		switch cur {
		case Open:
			next = CloseReceived
		case CloseSent:
			next = Closed
		default:
			return cur
		}
		if atomic.CompareAndSwapInt32(&c.v, int32(cur), int32(next)) {
			return next
		}
	}
}
