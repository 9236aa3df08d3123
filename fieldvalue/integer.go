package fieldvalue

import "strconv"

// Int64 is the converter for a signed 64-bit decimal integer.
var Int64 = Converter[int64]{
	Parse: func(text string) (int64, int, error) {
		n := scanSignedDigits(text)
		if n == 0 {
			return 0, 0, newParseError("", text, 0, "expected integer")
		}
		v, err := strconv.ParseInt(text[:n], 10, 64)
		if err != nil {
			return 0, 0, newParseError("", text, 0, "integer out of range")
		}
		return v, n, nil
	},
	Serialize: func(v int64) string { return strconv.FormatInt(v, 10) },
}

// ContentLength is the converter for the Content-Length field: a
// non-negative decimal integer, no leading sign permitted (spec.md §3,
// §4.1).
var ContentLength = Converter[int64]{
	Parse: func(text string) (int64, int, error) {
		i := 0
		for i < len(text) && text[i] >= '0' && text[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, 0, newParseError("Content-Length", text, 0, "expected non-negative integer")
		}
		v, err := strconv.ParseInt(text[:i], 10, 64)
		if err != nil || v < 0 {
			return 0, 0, newParseError("Content-Length", text, 0, "integer out of range")
		}
		return v, i, nil
	},
	Serialize: func(v int64) string { return strconv.FormatInt(v, 10) },
}

func scanSignedDigits(text string) int {
	i := 0
	if i < len(text) && (text[i] == '-' || text[i] == '+') {
		i++
	}
	start := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == start {
		return 0
	}
	return i
}
