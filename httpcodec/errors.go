package httpcodec

import "github.com/pkg/errors"

// ParseError reports malformed start-line or header syntax, positioned at
// the offending byte within the current line (spec.md §7).
type ParseError struct {
	Text   string
	Offset int
	cause  error
}

func (e *ParseError) Error() string {
	return errors.Wrapf(e.cause, "httpcodec: parse error at offset %d in %q", e.Offset, e.Text).Error()
}

func (e *ParseError) Unwrap() error { return e.cause }

func newParseError(text string, offset int, reason string) *ParseError {
	return &ParseError{Text: text, Offset: offset, cause: errors.New(reason)}
}

// ProtocolError reports a message that violates a framing rule: the
// decoders raise it for a chunk size that overflows and for a chunk whose
// data is not followed by its CRLF terminator. A message carrying both
// Transfer-Encoding: chunked and Content-Length is not an error (chunked
// framing wins), and an unsupported HTTP major version is reported as an
// UnsupportedVersionError.
type ProtocolError struct {
	Reason string
	cause  error
}

func (e *ProtocolError) Error() string {
	return errors.Wrap(e.cause, "httpcodec: protocol error: "+e.Reason).Error()
}

func (e *ProtocolError) Unwrap() error { return e.cause }

func newProtocolError(reason string) *ProtocolError {
	return &ProtocolError{Reason: reason, cause: errors.New(reason)}
}

// LimitError reports a configured limit exceeded — header line too long,
// too many header fields (spec.md §7).
type LimitError struct {
	Limit string
	cause error
}

func (e *LimitError) Error() string {
	return errors.Wrap(e.cause, "httpcodec: limit exceeded: "+e.Limit).Error()
}

func (e *LimitError) Unwrap() error { return e.cause }

func newLimitError(limit string) *LimitError {
	return &LimitError{Limit: limit, cause: errors.New(limit)}
}

// ErrUnexpectedCall reports caller misuse of the encoder/decoder API — a
// second header pushed before the previous message finished (spec.md §7's
// StateError).
var ErrUnexpectedCall = errors.New("httpcodec: unexpected call for current state")

// UnsupportedVersionError reports a start-line whose HTTP major version
// this library doesn't speak (spec.md §4.2 step 2: "Unknown HTTP version
// major ≠ 1 ⇒ 505"), kept distinct from ProtocolError so the decoder can
// pick 505 instead of 400 when synthesizing a response.
type UnsupportedVersionError struct {
	Major int
}

func (e *UnsupportedVersionError) Error() string {
	return "httpcodec: unsupported HTTP major version"
}
