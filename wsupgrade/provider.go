// Package wsupgrade implements the upgrade-provider strategy of spec.md
// §4.6: a pluggable per-protocol negotiator an engine consults when a
// request asks to switch protocols, plus the one provider the library
// ships for WebSocket (RFC 6455 §4).
package wsupgrade

import (
	"github.com/coregx/wire/httpmsg"
	"github.com/coregx/wire/wsframe"
)

// Provider is a strategy for one upgradable sub-protocol. An engine
// consults a registry of providers when a request's Upgrade header names
// a protocol, and again when a 101 response is about to complete, to
// swap in the new protocol's decoder/encoder pair.
type Provider interface {
	// Name is the protocol token this provider handles (compared
	// case-insensitively against the Upgrade header).
	Name() string

	// AugmentInitialRequest is called client-side before a request is
	// sent, to add whatever headers the protocol's handshake requires.
	AugmentInitialRequest(req *httpmsg.Request)

	// AugmentInitialResponse is called server-side once a request with
	// a matching Upgrade header has been fully decoded. It mutates resp
	// in place; returning false means the handshake failed and resp has
	// already been set to an error response instead of 101.
	AugmentInitialResponse(req *httpmsg.Request, resp *httpmsg.Response) bool

	// CheckSwitchingResponse is called client-side once a 101 response
	// to req has been fully decoded, to validate the server's handshake
	// reply before switching protocols.
	CheckSwitchingResponse(req *httpmsg.Request, resp *httpmsg.Response) bool

	// NewServerCodecs returns the decoder/encoder pair a server engine
	// adopts after completing the switch, sharing closing.
	NewServerCodecs(closing *wsframe.ClosingState) (*wsframe.Decoder, *wsframe.Encoder)

	// NewClientCodecs mirrors NewServerCodecs for a client engine.
	NewClientCodecs(closing *wsframe.ClosingState) (*wsframe.Decoder, *wsframe.Encoder)
}

// Registry looks providers up by protocol name, the way
// fieldvalue.Registry looks converters up by field name.
type Registry struct {
	byName map[string]Provider
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Provider)}
}

// Register adds p, keyed by its lower-cased Name().
func (r *Registry) Register(p Provider) {
	r.byName[lowerASCII(p.Name())] = p
}

// Lookup returns the provider for protocol, if one is registered.
func (r *Registry) Lookup(protocol string) (Provider, bool) {
	p, ok := r.byName[lowerASCII(protocol)]
	return p, ok
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
