package fieldvalue

import (
	"strings"
)

// MediaType is a parsed `type/subtype` pair, the base value wrapped by
// Parameterized for Content-Type and the weighted-list MediaRange used by
// Accept (spec.md §4.1).
type MediaType struct {
	Type    string
	Subtype string
}

// MediaRange is the Converter[MediaType] for the bare `type/subtype` token,
// case-insensitively lowercased on parse (RFC 7231 §3.1.1.1: media types
// and their parameter names are case-insensitive).
var MediaRange = Converter[MediaType]{
	Parse: func(text string) (MediaType, int, error) {
		slash := strings.IndexByte(text, '/')
		if slash < 0 {
			return MediaType{}, 0, newParseError("", text, 0, "expected type/subtype")
		}
		typeTok, n, err := Token.Parse(text[:slash])
		if err != nil || n != slash {
			return MediaType{}, 0, newParseError("", text, 0, "invalid media type")
		}
		rest := text[slash+1:]
		subTok, n2, err := Token.Parse(rest)
		if err != nil || n2 == 0 {
			return MediaType{}, 0, newParseError("", text, slash+1, "invalid media subtype")
		}
		return MediaType{Type: strings.ToLower(typeTok), Subtype: strings.ToLower(subTok)}, slash + 1 + n2, nil
	},
	Serialize: func(v MediaType) string {
		return v.Type + "/" + v.Subtype
	},
}

// ContentType is the Content-Type field converter: a MediaRange with
// optional parameters (most commonly `charset`).
var ContentType = NewParameterizedConverter(MediaRange)

// Accept is the Accept field converter: a weighted list of parameterized
// media ranges, including the `*/*` and `type/*` wildcards (RFC 7231
// §5.3.2). Wildcards parse as ordinary tokens here — matching semantics
// belong to the caller, not the wire format.
var Accept = NewWeightedListConverter(MediaRange)
