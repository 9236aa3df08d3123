package wsframe

import (
	"testing"

	"github.com/coregx/wire/bytebuf"
)

func buildClientFrame(t *testing.T, opcode byte, payload []byte, fin bool) []byte {
	t.Helper()
	e := NewEncoder(false, NewClosingState())
	if IsControlFrame(opcode) {
		if err := e.PushControl(opcode, payload); err != nil {
			t.Fatalf("PushControl: %v", err)
		}
	} else {
		if err := e.PushMessage(opcode); err != nil {
			t.Fatalf("PushMessage: %v", err)
		}
	}
	return encodeToBytes(t, e, payload, fin)
}

func TestDecoder_RoundTripTextMessage(t *testing.T) {
	frame := buildClientFrame(t, OpcodeText, []byte("hello"), true)

	d := NewDecoder(true, Limits{}, NewClosingState())
	c := bytebuf.NewCursor(frame)
	out := make([]byte, 64)
	sink := bytebuf.NewSink(out)

	res, err := d.Decode(c, sink, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !res.MessageComplete {
		t.Fatal("expected MessageComplete")
	}
	if res.MessageType != TextMessage {
		t.Fatalf("MessageType = %v, want Text", res.MessageType)
	}
	if string(out[:sink.Len()]) != "hello" {
		t.Fatalf("payload = %q, want %q", out[:sink.Len()], "hello")
	}
}

func TestDecoder_ServerRejectsUnmaskedFrame(t *testing.T) {
	e := NewEncoder(true, NewClosingState())
	if err := e.PushMessage(OpcodeText); err != nil {
		t.Fatalf("PushMessage: %v", err)
	}
	frame := encodeToBytes(t, e, []byte("hi"), true)

	d := NewDecoder(true, Limits{}, NewClosingState())
	c := bytebuf.NewCursor(frame)
	sink := bytebuf.NewSink(make([]byte, 16))
	res, err := d.Decode(c, sink, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !res.CloseConnection || res.AutoReply == nil {
		t.Fatal("expected a synthesized close reply for unmasked frame at server")
	}
}

func TestDecoder_PingYieldsAutoPong(t *testing.T) {
	frame := buildClientFrame(t, OpcodePing, []byte("abc"), true)

	d := NewDecoder(true, Limits{}, NewClosingState())
	c := bytebuf.NewCursor(frame)
	sink := bytebuf.NewSink(make([]byte, 16))
	res, err := d.Decode(c, sink, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.AutoReply == nil || res.AutoReply.Opcode != OpcodePong {
		t.Fatal("expected AutoReply with OpcodePong")
	}
	if string(res.AutoReply.Payload) != "abc" {
		t.Fatalf("pong payload = %q, want %q", res.AutoReply.Payload, "abc")
	}
}

func TestDecoder_FragmentedMessageReassembles(t *testing.T) {
	cs := NewClosingState()
	e := NewEncoder(false, cs)
	if err := e.PushMessage(OpcodeText); err != nil {
		t.Fatalf("PushMessage: %v", err)
	}

	frame1 := encodeToBytes(t, e, []byte("hello "), false)
	frame2 := encodeToBytes(t, e, []byte("world"), true)

	d := NewDecoder(true, Limits{}, NewClosingState())
	out := make([]byte, 64)
	sink := bytebuf.NewSink(out)

	c1 := bytebuf.NewCursor(frame1)
	res1, err := d.Decode(c1, sink, true)
	if err != nil {
		t.Fatalf("Decode frame1: %v", err)
	}
	if res1.MessageComplete {
		t.Fatal("first fragment should not complete the message")
	}

	c2 := bytebuf.NewCursor(frame2)
	res2, err := d.Decode(c2, sink, true)
	if err != nil {
		t.Fatalf("Decode frame2: %v", err)
	}
	if !res2.MessageComplete {
		t.Fatal("final fragment should complete the message")
	}
	if string(out[:sink.Len()]) != "hello world" {
		t.Fatalf("reassembled payload = %q, want %q", out[:sink.Len()], "hello world")
	}
}

func TestDecoder_InvalidUTF8Rejected(t *testing.T) {
	bad := []byte{0xff, 0xfe, 0xfd}
	frame := buildClientFrame(t, OpcodeText, bad, true)

	d := NewDecoder(true, Limits{}, NewClosingState())
	c := bytebuf.NewCursor(frame)
	sink := bytebuf.NewSink(make([]byte, 16))
	res, err := d.Decode(c, sink, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !res.CloseConnection || res.AutoReply == nil {
		t.Fatal("expected a synthesized close for invalid UTF-8")
	}
}

func TestDecoder_UnderflowOnPartialFrame(t *testing.T) {
	frame := buildClientFrame(t, OpcodeText, []byte("hello"), true)

	d := NewDecoder(true, Limits{}, NewClosingState())
	c := bytebuf.NewCursor(frame[:2])
	sink := bytebuf.NewSink(make([]byte, 16))
	res, err := d.Decode(c, sink, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !res.Underflow {
		t.Fatal("expected Underflow on truncated frame")
	}
}

func TestDecoder_CloseHandshakeEchoesBack(t *testing.T) {
	frame := buildClientFrame(t, OpcodeClose, nil, true)

	cs := NewClosingState()
	d := NewDecoder(true, Limits{}, cs)
	c := bytebuf.NewCursor(frame)
	sink := bytebuf.NewSink(make([]byte, 16))
	res, err := d.Decode(c, sink, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.AutoReply == nil || res.AutoReply.Opcode != OpcodeClose {
		t.Fatal("expected an echoed close AutoReply")
	}
	if !res.CloseConnection {
		t.Fatal("expected CloseConnection")
	}
}

func TestDecoder_ClosedStateReturnsUnderflowImmediately(t *testing.T) {
	cs := NewClosingState()
	cs.OnSendClose()
	cs.OnReceiveClose()

	d := NewDecoder(true, Limits{}, cs)
	c := bytebuf.NewCursor([]byte{0x81, 0x00})
	sink := bytebuf.NewSink(make([]byte, 16))
	res, err := d.Decode(c, sink, true)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !res.Underflow {
		t.Fatal("expected Underflow once closing state is Closed")
	}
}
