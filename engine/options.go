package engine

import (
	"go.uber.org/zap"

	"github.com/coregx/wire/httpcodec"
	"github.com/coregx/wire/wsframe"
	"github.com/coregx/wire/wsupgrade"
)

// Options configures a ServerEngine or ClientEngine. The zero value is ready to use: no
// header limits beyond httpcodec's defaults, no upgrade providers, and a
// no-op logger — matching the teacher's zero-value-is-usable option
// structs (coregx-stream/websocket.UpgradeOptions).
type Options struct {
	// MaxHeaderBytes bounds a single header line (httpcodec.Limits.MaxLineLength).
	MaxHeaderBytes int

	// MaxHeaderCount bounds the number of header fields per message.
	MaxHeaderCount int

	// FrameLimits holds WebSocket frame/message size limits. The engines
	// do not pass it to the codecs a provider creates after a protocol
	// switch; the shipped wsupgrade.WebSocket provider builds its
	// decoders with a zero wsframe.Limits.
	FrameLimits wsframe.Limits

	// Providers is consulted when a request's Upgrade header names a
	// protocol; nil means no upgrades are ever accepted.
	Providers *wsupgrade.Registry

	// Logger receives Debug-level request-header-decoded and
	// protocol-switch notices and Warn-level synthesized-error-response
	// notices. nil uses a no-op
	// logger, matching caddy's guarded-logging idiom (spec.md §4.2).
	Logger *zap.Logger
}

func (o Options) httpLimits() httpcodec.Limits {
	return httpcodec.Limits{MaxLineLength: o.MaxHeaderBytes, MaxHeaderCount: o.MaxHeaderCount}
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
