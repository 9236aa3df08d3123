package fieldvalue

// Raw is the fallback converter for any field name the Registry doesn't
// recognize: text passes through untouched (spec.md §9's design note —
// unknown fields stay strings rather than failing to parse).
var Raw = Converter[string]{
	Parse:     func(text string) (string, int, error) { return text, len(text), nil },
	Serialize: func(v string) string { return v },
}

// Registry maps canonical field names to the untyped form of their
// converter, erased to `any` so a single map can hold Converter[int64],
// Converter[[]Weighted[MediaType]], and so on side by side. Lookups are
// keyed by CanonicalName so registration and lookup agree regardless of
// the case used on the wire.
type Registry struct {
	entries map[string]any
}

// NewRegistry builds a Registry pre-populated with the converters this
// package ships for well-known fields.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]any)}
	r.Register("Content-Length", ContentLength)
	r.Register("Content-Type", ContentType)
	r.Register("Date", Instant)
	r.Register("Expires", Instant)
	r.Register("Last-Modified", Instant)
	r.Register("If-Modified-Since", Instant)
	r.Register("If-Unmodified-Since", Instant)
	r.Register("Accept", Accept)
	r.Register("Cookie", CookieList)
	r.Register("Set-Cookie", SetCookieField)
	r.Register("Connection", List(Token))
	r.Register("Transfer-Encoding", List(Token))
	r.Register("Vary", List(Token))
	r.Register("Upgrade", List(Token))
	return r
}

// Register associates name (canonicalized) with conv. Later calls for the
// same name replace the earlier registration.
func Register[T any](r *Registry, name string, conv Converter[T]) {
	r.entries[CanonicalName(name)] = conv
}

// Register is the method form so literal Converter values can be stored
// without the caller repeating the type parameter at the call site; like
// the generic free function Register, it stores conv under the
// canonicalized name, replacing any earlier registration.
func (r *Registry) Register(name string, conv any) {
	r.entries[CanonicalName(name)] = conv
}

// Lookup returns the converter registered for name, or Raw with ok=false
// if nothing was registered (spec.md §9: unknown fields fall back to raw
// string rather than erroring).
func (r *Registry) Lookup(name string) (any, bool) {
	c, ok := r.entries[CanonicalName(name)]
	if !ok {
		return Raw, false
	}
	return c, true
}

// ConverterFor returns the typed Converter[T] registered for name,
// panicking if the registration is absent or registered at a different
// type — callers that don't statically know T should use Lookup instead.
func ConverterFor[T any](r *Registry, name string) Converter[T] {
	v, ok := r.Lookup(name)
	if !ok {
		var zero T
		if _, isString := any(zero).(string); isString {
			return any(Raw).(Converter[T])
		}
		panic("fieldvalue: no converter registered for " + name)
	}
	conv, ok := v.(Converter[T])
	if !ok {
		panic("fieldvalue: converter for " + name + " registered at a different type")
	}
	return conv
}
