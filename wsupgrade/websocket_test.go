package wsupgrade

import (
	"testing"

	"github.com/coregx/wire/httpmsg"
)

func TestComputeAcceptKey_RFC6455Example(t *testing.T) {
	// The example key/accept pair from RFC 6455 §1.3.
	got := computeAcceptKey("dGhlIHNhbXBsZSBub25jZQ==")
	want := "s3pPLMBiTxaQ9kYGzzhZRbK+xOo="
	if got != want {
		t.Fatalf("computeAcceptKey = %q, want %q", got, want)
	}
}

func TestWebSocket_AugmentInitialRequestSetsHandshakeHeaders(t *testing.T) {
	w := &WebSocket{}
	req := httpmsg.NewRequest("GET", "/chat", 1, 1)
	w.AugmentInitialRequest(req)

	if req.Header.Get("Upgrade") != "websocket" {
		t.Fatal("missing Upgrade: websocket")
	}
	if req.Header.Get("Sec-WebSocket-Version") != "13" {
		t.Fatal("missing Sec-WebSocket-Version: 13")
	}
	if req.Header.Get("Sec-WebSocket-Key") == "" {
		t.Fatal("expected a generated Sec-WebSocket-Key")
	}
}

func TestWebSocket_AugmentInitialResponseComputesAccept(t *testing.T) {
	w := &WebSocket{}
	req := httpmsg.NewRequest("GET", "/chat", 1, 1)
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	req.Header.Set("Sec-WebSocket-Version", "13")

	resp := httpmsg.NewResponse(1, 1, 101, "Switching Protocols")
	ok := w.AugmentInitialResponse(req, resp)
	if !ok {
		t.Fatal("expected handshake to succeed")
	}
	if resp.Header.Get("Sec-WebSocket-Accept") != "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=" {
		t.Fatalf("Sec-WebSocket-Accept = %q", resp.Header.Get("Sec-WebSocket-Accept"))
	}
}

func TestWebSocket_AugmentInitialResponseRejectsWrongVersion(t *testing.T) {
	w := &WebSocket{}
	req := httpmsg.NewRequest("GET", "/chat", 1, 1)
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	req.Header.Set("Sec-WebSocket-Version", "8")

	resp := httpmsg.NewResponse(1, 1, 101, "Switching Protocols")
	ok := w.AugmentInitialResponse(req, resp)
	if ok {
		t.Fatal("expected handshake to fail for unsupported version")
	}
	if resp.Status != 400 {
		t.Fatalf("Status = %d, want 400", resp.Status)
	}
}

func TestWebSocket_CheckSwitchingResponseValidatesAccept(t *testing.T) {
	w := &WebSocket{}
	req := httpmsg.NewRequest("GET", "/chat", 1, 1)
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")

	resp := httpmsg.NewResponse(1, 1, 101, "Switching Protocols")
	resp.Header.Set("Sec-WebSocket-Accept", "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=")
	if !w.CheckSwitchingResponse(req, resp) {
		t.Fatal("expected valid accept key to pass")
	}

	resp.Header.Set("Sec-WebSocket-Accept", "bogus")
	if w.CheckSwitchingResponse(req, resp) {
		t.Fatal("expected mismatched accept key to fail")
	}
}

func TestWebSocket_NegotiatesFirstMatchingSubprotocol(t *testing.T) {
	w := &WebSocket{Subprotocols: []string{"chat", "superchat"}}
	req := httpmsg.NewRequest("GET", "/chat", 1, 1)
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Protocol", "superchat, chat")

	resp := httpmsg.NewResponse(1, 1, 101, "Switching Protocols")
	w.AugmentInitialResponse(req, resp)
	if resp.Header.Get("Sec-WebSocket-Protocol") != "chat" {
		t.Fatalf("negotiated protocol = %q, want %q", resp.Header.Get("Sec-WebSocket-Protocol"), "chat")
	}
}
