package fieldvalue

import "strings"

// QuotedString is the converter for an RFC 7230 quoted-string: `"..."`
// with backslash escaping. Serialize always quotes; values that contain
// nothing but tchars are still quoted, since the caller asked for this
// converter specifically (use UnquotedString/Token for bare values).
var QuotedString = Converter[string]{
	Parse: func(text string) (string, int, error) {
		if len(text) == 0 || text[0] != '"' {
			return "", 0, newParseError("", text, 0, "expected opening quote")
		}
		var b strings.Builder
		i := 1
		for i < len(text) {
			c := text[i]
			switch {
			case c == '"':
				return b.String(), i + 1, nil
			case c == '\\' && i+1 < len(text):
				b.WriteByte(text[i+1])
				i += 2
			default:
				b.WriteByte(c)
				i++
			}
		}
		return "", 0, newParseError("", text, len(text), "unterminated quoted string")
	},
	Serialize: func(v string) string {
		var b strings.Builder
		b.WriteByte('"')
		for i := 0; i < len(v); i++ {
			c := v[i]
			if c == '"' || c == '\\' {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
		b.WriteByte('"')
		return b.String()
	},
}

// UnquotedString stores text verbatim, stripping one layer of surrounding
// quotes on parse if present (spec.md §4.1).
var UnquotedString = Converter[string]{
	Parse: func(text string) (string, int, error) {
		if len(text) >= 2 && text[0] == '"' {
			if v, n, err := QuotedString.Parse(text); err == nil {
				return v, n, nil
			}
		}
		return text, len(text), nil
	},
	Serialize: func(v string) string {
		if needsQuoting(v) {
			return QuotedString.Serialize(v)
		}
		return v
	},
}

// needsQuoting reports whether v contains a byte outside the tchar set,
// requiring quoting when serialized as a parameter value (spec.md §4.1:
// "values containing non-token characters are automatically quoted").
func needsQuoting(v string) bool {
	if v == "" {
		return true
	}
	for i := 0; i < len(v); i++ {
		if !isTokenTable[v[i]] {
			return true
		}
	}
	return false
}
