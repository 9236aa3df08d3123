package fieldvalue

import (
	"strconv"
	"strings"
)

// CookiePair is one `name=value` entry of a request's Cookie header.
type CookiePair struct {
	Name  string
	Value string
}

// CookieList is the Converter[[]CookiePair] for the request Cookie header,
// whose entries are separated by `; ` rather than `,` (RFC 6265 §4.2.1) —
// distinct enough from the generic List to warrant its own parser instead
// of reuse.
var CookieList = Converter[[]CookiePair]{
	Parse: func(text string) ([]CookiePair, int, error) {
		var out []CookiePair
		for _, raw := range strings.Split(text, ";") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			eq := strings.IndexByte(raw, '=')
			if eq < 0 {
				return nil, 0, newParseError("Cookie", text, 0, "malformed cookie pair")
			}
			name := strings.TrimSpace(raw[:eq])
			value := strings.TrimSpace(raw[eq+1:])
			value, _, err := UnquotedString.Parse(value)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, CookiePair{Name: name, Value: value})
		}
		return out, len(text), nil
	},
	Serialize: func(vs []CookiePair) string {
		parts := make([]string, len(vs))
		for i, c := range vs {
			parts[i] = c.Name + "=" + c.Value
		}
		return strings.Join(parts, "; ")
	},
}

// SetCookie is a single Set-Cookie response header value: a name/value
// pair plus its attributes (RFC 6265 §4.1). Unlike Cookie, each attribute
// is semantically distinct rather than a uniform parameter bag, so they
// are surfaced as named fields instead of a generic Params slice.
type SetCookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  string // serialized form; reuse Instant to interpret
	MaxAge   int64
	HasMaxAge bool
	Secure   bool
	HttpOnly bool
	SameSite string
}

// SetCookieField is the Converter[SetCookie] for the Set-Cookie header.
// Set-Cookie is never combined across multiple header instances (RFC 7230
// §3.2.2 calls it out as the one exception to the comma-combine rule), so
// this converter is driven per-line rather than via List.
var SetCookieField = Converter[SetCookie]{
	Parse: func(text string) (SetCookie, int, error) {
		parts, consumed := splitTopLevel(text, ';')
		if len(parts) == 0 {
			return SetCookie{}, 0, newParseError("Set-Cookie", text, 0, "expected name=value")
		}
		head := strings.TrimSpace(parts[0])
		eq := strings.IndexByte(head, '=')
		if eq < 0 {
			return SetCookie{}, 0, newParseError("Set-Cookie", text, 0, "malformed cookie pair")
		}
		sc := SetCookie{Name: strings.TrimSpace(head[:eq]), Value: strings.TrimSpace(head[eq+1:])}
		for _, raw := range parts[1:] {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			key := raw
			val := ""
			if eq := strings.IndexByte(raw, '='); eq >= 0 {
				key = raw[:eq]
				val = strings.TrimSpace(raw[eq+1:])
			}
			switch strings.ToLower(key) {
			case "domain":
				sc.Domain = val
			case "path":
				sc.Path = val
			case "expires":
				sc.Expires = val
			case "max-age":
				n, err := strconv.ParseInt(val, 10, 64)
				if err != nil {
					return SetCookie{}, 0, newParseError("Set-Cookie", text, 0, "invalid Max-Age")
				}
				sc.MaxAge = n
				sc.HasMaxAge = true
			case "secure":
				sc.Secure = true
			case "httponly":
				sc.HttpOnly = true
			case "samesite":
				sc.SameSite = val
			}
		}
		return sc, consumed, nil
	},
	Serialize: func(sc SetCookie) string {
		var b strings.Builder
		b.WriteString(sc.Name)
		b.WriteByte('=')
		b.WriteString(sc.Value)
		if sc.Domain != "" {
			b.WriteString("; Domain=")
			b.WriteString(sc.Domain)
		}
		if sc.Path != "" {
			b.WriteString("; Path=")
			b.WriteString(sc.Path)
		}
		if sc.Expires != "" {
			b.WriteString("; Expires=")
			b.WriteString(sc.Expires)
		}
		if sc.HasMaxAge {
			b.WriteString("; Max-Age=")
			b.WriteString(strconv.FormatInt(sc.MaxAge, 10))
		}
		if sc.Secure {
			b.WriteString("; Secure")
		}
		if sc.HttpOnly {
			b.WriteString("; HttpOnly")
		}
		if sc.SameSite != "" {
			b.WriteString("; SameSite=")
			b.WriteString(sc.SameSite)
		}
		return b.String()
	},
}
