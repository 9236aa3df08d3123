package wsupgrade

import (
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // SHA-1 required by RFC 6455 §1.3, not used for security
	"encoding/base64"
	"strings"

	"github.com/coregx/wire/httpmsg"
	"github.com/coregx/wire/wsframe"
)

// websocketGUID is the magic constant RFC 6455 §1.3 concatenates onto
// the client key before hashing.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// WebSocket is the Provider shipped for RFC 6455. Subprotocols, if set,
// is the server's supported list in preference order; the first one
// also requested by the client is selected.
type WebSocket struct {
	Subprotocols []string
}

var _ Provider = (*WebSocket)(nil)

// Name implements Provider.
func (w *WebSocket) Name() string { return "websocket" }

// AugmentInitialRequest implements Provider: populates the client-side
// handshake headers spec.md §4.6 names, generating a fresh key if the
// caller hasn't already set one.
func (w *WebSocket) AugmentInitialRequest(req *httpmsg.Request) {
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Connection", "upgrade")
	req.Header.Set("Sec-WebSocket-Version", "13")
	if req.Header.Get("Sec-WebSocket-Key") == "" {
		req.Header.Set("Sec-WebSocket-Key", generateKey())
	}
	if len(w.Subprotocols) > 0 {
		req.Header.Set("Sec-WebSocket-Protocol", strings.Join(w.Subprotocols, ", "))
	}
}

// AugmentInitialResponse implements Provider: computes
// Sec-WebSocket-Accept and negotiates a subprotocol, or rewrites resp
// into a 400 when the client's handshake is malformed.
func (w *WebSocket) AugmentInitialResponse(req *httpmsg.Request, resp *httpmsg.Response) bool {
	key := req.Header.Get("Sec-WebSocket-Key")
	version := req.Header.Get("Sec-WebSocket-Version")
	if key == "" || version != "13" {
		resp.Status, resp.Reason = 400, "Bad Request"
		resp.Header = httpmsg.NewHeader()
		resp.Header.Set("Connection", "close")
		return false
	}

	resp.Header.Set("Upgrade", "websocket")
	resp.Header.Set("Connection", "upgrade")
	resp.Header.Set("Sec-WebSocket-Accept", computeAcceptKey(key))
	if proto := w.negotiate(req); proto != "" {
		resp.Header.Set("Sec-WebSocket-Protocol", proto)
	}
	return true
}

// CheckSwitchingResponse implements Provider: the client validates that
// the server's accept key matches the key it sent.
func (w *WebSocket) CheckSwitchingResponse(req *httpmsg.Request, resp *httpmsg.Response) bool {
	want := computeAcceptKey(req.Header.Get("Sec-WebSocket-Key"))
	return resp.Header.Get("Sec-WebSocket-Accept") == want
}

// NewServerCodecs implements Provider.
func (w *WebSocket) NewServerCodecs(closing *wsframe.ClosingState) (*wsframe.Decoder, *wsframe.Encoder) {
	return wsframe.NewDecoder(true, wsframe.Limits{}, closing), wsframe.NewEncoder(true, closing)
}

// NewClientCodecs implements Provider.
func (w *WebSocket) NewClientCodecs(closing *wsframe.ClosingState) (*wsframe.Decoder, *wsframe.Encoder) {
	return wsframe.NewDecoder(false, wsframe.Limits{}, closing), wsframe.NewEncoder(false, closing)
}

func (w *WebSocket) negotiate(req *httpmsg.Request) string {
	if len(w.Subprotocols) == 0 {
		return ""
	}
	requested := strings.Split(req.Header.Get("Sec-WebSocket-Protocol"), ",")
	for _, have := range w.Subprotocols {
		for _, want := range requested {
			if strings.TrimSpace(want) == have {
				return have
			}
		}
	}
	return ""
}

// computeAcceptKey computes Sec-WebSocket-Accept from a client key (RFC
// 6455 §1.3): base64(SHA-1(key + GUID)).
func computeAcceptKey(key string) string {
	h := sha1.New() //nolint:gosec // not used for cryptographic security
	h.Write([]byte(key))
	h.Write([]byte(websocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// generateKey produces a random 16-byte, base64-encoded
// Sec-WebSocket-Key (RFC 6455 §4.1).
func generateKey() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.StdEncoding.EncodeToString(b[:])
}
