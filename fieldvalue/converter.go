// Package fieldvalue implements parse/serialize converters for typed HTTP
// field values: tokens, quoted and unquoted strings, integers, instants,
// parameterized and weighted lists, commented values, media ranges and
// cookies.
//
// Parsing is strict: a converter rejects trailing garbage except for
// whitespace the grammar itself permits, and reports failures as a
// *ParseError positioned at the offending byte (spec.md §4.1, §7).
package fieldvalue

// Converter is the parse/serialize pair for one typed field value, spec.md
// §3's "polymorphic value with a converter". Parse returns the decoded
// value and the number of bytes of text actually consumed, so callers can
// detect trailing garbage themselves when they need to (e.g. a
// Parameterized converter calling a base Converter for the leading value).
type Converter[T any] struct {
	Parse     func(text string) (T, int, error)
	Serialize func(v T) string
}

// Value pairs a converter with raw text, lazily decoding on demand and
// caching the result. This is the concrete realization of spec.md §3's
// "typed field value": a header field stores the raw wire text until a
// caller asks for the typed form.
type Value[T any] struct {
	conv Converter[T]
	text string

	decoded bool
	val     T
	err     error
}

// NewValue wraps text with conv, ready for lazy decoding via Get.
func NewValue[T any](conv Converter[T], text string) *Value[T] {
	return &Value[T]{conv: conv, text: text}
}

// NewTyped wraps an already-decoded value, ready for serialization via Text.
func NewTyped[T any](conv Converter[T], v T) *Value[T] {
	return &Value[T]{conv: conv, val: v, decoded: true, text: conv.Serialize(v)}
}

// Get decodes the value, parsing the raw text on first use.
func (v *Value[T]) Get() (T, error) {
	if !v.decoded {
		val, n, err := v.conv.Parse(v.text)
		if err == nil && n < len(trimTrailingOWS(v.text)) {
			err = newParseError("", v.text, n, errTrailingGarbage)
		}
		v.val, v.err = val, err
		v.decoded = true
	}
	return v.val, v.err
}

// Text returns the wire representation, serializing from the typed value
// if the Value was constructed via NewTyped.
func (v *Value[T]) Text() string { return v.text }

// Set replaces the value and invalidates the cached text.
func (v *Value[T]) Set(val T) {
	v.val = val
	v.err = nil
	v.decoded = true
	v.text = v.conv.Serialize(val)
}

// trimTrailingOWS trims RFC 7230 optional whitespace (SP / HTAB) from the
// end of s, used to tell genuine trailing garbage from permitted trailing
// whitespace.
func trimTrailingOWS(s string) string {
	n := len(s)
	for n > 0 && (s[n-1] == ' ' || s[n-1] == '\t') {
		n--
	}
	return s[:n]
}
