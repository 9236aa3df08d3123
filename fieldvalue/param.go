package fieldvalue

import "strings"

// Param is one `;key=value` pair. Key is stored lowercased for
// case-insensitive comparison (spec.md §4.1: "parameter names lowercased on
// parse for comparison").
type Param struct {
	Key   string
	Value string
}

// Parameterized is a base value followed by zero or more `;k=v` parameters,
// e.g. Content-Type's `text/html; charset=utf-8`.
type Parameterized[T any] struct {
	Value  T
	Params []Param
}

// Get returns the value of the named parameter, case-insensitively.
func (p Parameterized[T]) Get(key string) (string, bool) {
	key = strings.ToLower(key)
	for _, kv := range p.Params {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// NewParameterizedConverter builds a Converter[Parameterized[T]] from a
// base converter for T, splitting on top-level semicolons (respecting
// quoted-string boundaries) the way RFC 7231 media-type and RFC 7230
// Transfer-Encoding parameters are written.
func NewParameterizedConverter[T any](base Converter[T]) Converter[Parameterized[T]] {
	return Converter[Parameterized[T]]{
		Parse: func(text string) (Parameterized[T], int, error) {
			parts, consumed := splitTopLevel(text, ';')
			if len(parts) == 0 {
				return Parameterized[T]{}, 0, newParseError("", text, 0, "expected value")
			}

			baseText := strings.TrimSpace(parts[0])
			val, n, err := base.Parse(baseText)
			if err != nil {
				return Parameterized[T]{}, 0, err
			}
			if n < len(baseText) {
				return Parameterized[T]{}, 0, newParseError("", text, n, errTrailingGarbage)
			}

			params := make([]Param, 0, len(parts)-1)
			for _, raw := range parts[1:] {
				raw = strings.TrimSpace(raw)
				if raw == "" {
					continue
				}
				eq := strings.IndexByte(raw, '=')
				if eq < 0 {
					return Parameterized[T]{}, 0, newParseError("", text, 0, "malformed parameter")
				}
				key := strings.ToLower(strings.TrimSpace(raw[:eq]))
				rawVal := strings.TrimSpace(raw[eq+1:])
				value, _, err := UnquotedString.Parse(rawVal)
				if err != nil {
					return Parameterized[T]{}, 0, err
				}
				params = append(params, Param{Key: key, Value: value})
			}

			return Parameterized[T]{Value: val, Params: params}, consumed, nil
		},
		Serialize: func(p Parameterized[T]) string {
			var b strings.Builder
			b.WriteString(base.Serialize(p.Value))
			for _, kv := range p.Params {
				b.WriteByte(';')
				b.WriteString(kv.Key)
				b.WriteByte('=')
				b.WriteString(UnquotedString.Serialize(kv.Value))
			}
			return b.String()
		},
	}
}

// splitTopLevel splits text on sep, ignoring occurrences of sep inside a
// double-quoted substring (so `v;k="a;b"` splits into two parts, not
// three). It returns the total number of bytes spanned by the parts found.
func splitTopLevel(text string, sep byte) ([]string, int) {
	var parts []string
	inQuotes := false
	start := 0
	i := 0
	for ; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == '\\' && inQuotes && i+1 < len(text):
			i++
		case c == sep && !inQuotes:
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	parts = append(parts, text[start:i])
	return parts, i
}
