package wsframe

import (
	"testing"

	"github.com/coregx/wire/bytebuf"
)

func encodeToBytes(t *testing.T, e *Encoder, payload []byte, endOfInput bool) []byte {
	t.Helper()
	var c *bytebuf.Cursor
	if payload != nil {
		c = bytebuf.NewCursor(payload)
	} else {
		c = bytebuf.NewCursor(nil)
	}
	out := make([]byte, 256)
	sink := bytebuf.NewSink(out)
	res, err := e.Encode(c, sink, endOfInput)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if res.Overflow {
		t.Fatal("unexpected overflow")
	}
	return out[:sink.Len()]
}

func TestEncoder_ServerFramesAreUnmasked(t *testing.T) {
	e := NewEncoder(true, NewClosingState())
	if err := e.PushControl(OpcodePing, []byte("ping")); err != nil {
		t.Fatalf("PushControl: %v", err)
	}
	out := encodeToBytes(t, e, nil, true)
	if out[1]&0x80 != 0 {
		t.Fatal("server frame has MASK bit set")
	}
	if int(out[1]&0x7F) != 4 {
		t.Fatalf("payload length = %d, want 4", out[1]&0x7F)
	}
}

func TestEncoder_ClientFramesAreMasked(t *testing.T) {
	e := NewEncoder(false, NewClosingState())
	if err := e.PushControl(OpcodePing, []byte("ping")); err != nil {
		t.Fatalf("PushControl: %v", err)
	}
	out := encodeToBytes(t, e, nil, true)
	if out[1]&0x80 == 0 {
		t.Fatal("client frame missing MASK bit")
	}
}

func TestEncoder_ControlPayloadOver125Rejected(t *testing.T) {
	e := NewEncoder(true, NewClosingState())
	big := make([]byte, 126)
	if err := e.PushControl(OpcodePing, big); err != ErrControlTooLarge {
		t.Fatalf("got %v, want ErrControlTooLarge", err)
	}
}

func TestEncoder_RejectsPushWhileBusy(t *testing.T) {
	e := NewEncoder(true, NewClosingState())
	if err := e.PushMessage(OpcodeText); err != nil {
		t.Fatalf("PushMessage: %v", err)
	}
	if err := e.PushControl(OpcodePing, nil); err != ErrUnexpectedCall {
		t.Fatalf("got %v, want ErrUnexpectedCall", err)
	}
}

func TestEncoder_PushCloseTransitionsClosingState(t *testing.T) {
	cs := NewClosingState()
	e := NewEncoder(true, cs)
	if err := e.PushControl(OpcodeClose, nil); err != nil {
		t.Fatalf("PushControl: %v", err)
	}
	if cs.Get() != CloseSent {
		t.Fatalf("closing state = %v, want CloseSent", cs.Get())
	}
}

func TestEncoder_StreamingMessageSetsFINOnLastFrame(t *testing.T) {
	e := NewEncoder(true, NewClosingState())
	if err := e.PushMessage(OpcodeText); err != nil {
		t.Fatalf("PushMessage: %v", err)
	}
	out := encodeToBytes(t, e, []byte("hi"), true)
	if out[0]&0x80 == 0 {
		t.Fatal("FIN bit not set on final frame")
	}
	if out[0]&0x0F != OpcodeText {
		t.Fatalf("opcode = %#x, want OpcodeText", out[0]&0x0F)
	}
}

func TestEncoder_LargePayloadUses16BitLength(t *testing.T) {
	e := NewEncoder(true, NewClosingState())
	if err := e.PushMessage(OpcodeBinary); err != nil {
		t.Fatalf("PushMessage: %v", err)
	}
	payload := make([]byte, 200)
	out := encodeToBytes(t, e, payload, true)
	if out[1]&0x7F != payloadLen16Bit {
		t.Fatalf("length tier = %d, want %d", out[1]&0x7F, payloadLen16Bit)
	}
}
