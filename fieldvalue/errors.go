package fieldvalue

import "github.com/pkg/errors"

// ParseError reports a malformed field value, positioned at the offending
// byte the way spec.md's error model requires: the codec's job is to
// detect and report, not to guess at recovery.
type ParseError struct {
	// Field is the header field name being parsed, when known.
	Field string
	// Text is the raw value that failed to parse.
	Text string
	// Offset is the byte offset within Text where parsing failed.
	Offset int
	cause  error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return errors.Wrapf(e.cause, "fieldvalue: parse %q at offset %d in field %s", e.Text, e.Offset, e.Field).Error()
	}
	return errors.Wrapf(e.cause, "fieldvalue: parse %q at offset %d", e.Text, e.Offset).Error()
}

func (e *ParseError) Unwrap() error { return e.cause }

// newParseError builds a ParseError wrapping a fresh stack-carrying cause
// built from reason; the cause is reachable through Unwrap and is not a
// shared sentinel.
func newParseError(field, text string, offset int, reason string) *ParseError {
	return &ParseError{
		Field:  field,
		Text:   text,
		Offset: offset,
		cause:  errors.New(reason),
	}
}

// errTrailingGarbage is the reason string wrapped by a ParseError when
// strict parsing succeeds but leaves unconsumed, non-whitespace bytes.
const errTrailingGarbage = "trailing garbage after value"
