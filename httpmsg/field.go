package httpmsg

import "github.com/coregx/wire/fieldvalue"

// Field is a named, typed view onto one value stored in a Header — the
// concrete form of spec.md §3's "typed field value": decoding the text
// into T happens lazily, and only when a caller actually asks for it.
type Field[T any] struct {
	Name string
	*fieldvalue.Value[T]
}

// GetField looks up name in h and returns a typed Field wrapping its raw
// text with conv. Absent fields decode to the zero value of T with no
// error the first time Get is called on an empty string, unless conv's
// Parse itself rejects an empty string — callers that need presence
// should check Header.Has first.
func GetField[T any](h *Header, name string, conv fieldvalue.Converter[T]) Field[T] {
	return Field[T]{Name: name, Value: fieldvalue.NewValue(conv, h.Get(name))}
}

// SetField stores v's serialized form into h under name.
func SetField[T any](h *Header, name string, conv fieldvalue.Converter[T], v T) {
	h.Set(name, conv.Serialize(v))
}
