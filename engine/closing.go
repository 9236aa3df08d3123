// Package engine pairs an HTTP decoder with the peer-direction encoder,
// tracks request/response correlation, and performs the HTTP→WebSocket
// protocol switch a 101 response triggers (spec.md §4.6).
package engine

import "github.com/coregx/wire/wsframe"

// ClosingState is shared by reference between a connection's decoder and
// encoder; it is wsframe's ClosingState because wsframe's frame codecs
// are the only ones that transition it (a 101 switch hands the same
// pointer to the wsframe.Decoder/Encoder pair this engine adopts).
type ClosingState = wsframe.ClosingState

// NewClosingState returns a ClosingState starting at wsframe.Open.
func NewClosingState() *ClosingState { return wsframe.NewClosingState() }
