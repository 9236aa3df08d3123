package fieldvalue

// isTokenTable classifies RFC 7230 tchar bytes, the same table-driven
// approach as badu-http's validHeaderFieldByte: a 256-entry bool array
// beats a switch on the hot header-parsing path.
var isTokenTable = [256]bool{}

func init() {
	const tchar = "!#$%&'*+-.^_`|~" +
		"0123456789" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"abcdefghijklmnopqrstuvwxyz"
	for i := 0; i < len(tchar); i++ {
		isTokenTable[tchar[i]] = true
	}
}

// IsTokenChar reports whether b is a valid RFC 7230 tchar.
func IsTokenChar(b byte) bool { return isTokenTable[b] }

// IsToken reports whether s is a non-empty sequence of tchars.
func IsToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenTable[s[i]] {
			return false
		}
	}
	return true
}

// Token is the converter for a bare RFC 7230 token (one or more tchars).
var Token = Converter[string]{
	Parse: func(text string) (string, int, error) {
		i := 0
		for i < len(text) && isTokenTable[text[i]] {
			i++
		}
		if i == 0 {
			return "", 0, newParseError("", text, 0, "expected token")
		}
		return text[:i], i, nil
	},
	Serialize: func(v string) string { return v },
}

// CanonicalName canonicalizes an RFC 7230 field-name the way
// badu-http/utils/header.go's CanonicalHeaderKey does: upper-case the
// first letter and any letter following a hyphen, lower-case the rest.
// Names containing non-tchar bytes are returned unchanged.
func CanonicalName(s string) string {
	b := []byte(s)
	for _, c := range b {
		if !isTokenTable[c] {
			return s
		}
	}
	upper := true
	changed := false
	for i, c := range b {
		switch {
		case upper && 'a' <= c && c <= 'z':
			b[i] = c - ('a' - 'A')
			changed = true
		case !upper && 'A' <= c && c <= 'Z':
			b[i] = c + ('a' - 'A')
			changed = true
		}
		upper = b[i] == '-'
	}
	if !changed {
		return s
	}
	return string(b)
}
