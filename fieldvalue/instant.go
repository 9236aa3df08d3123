package fieldvalue

import (
	"strings"
	"time"
)

// Layouts tried in order, mirroring badu-http/utils/header.go's ParseTime:
// RFC 1123 first (the preferred, and only emitted, form), then RFC 850,
// then ANSI C asctime.
const (
	rfc1123Layout = "Mon, 02 Jan 2006 15:04:05 GMT"
	rfc850Layout  = "Monday, 02-Jan-06 15:04:05 GMT"
	asctimeLayout = "Mon Jan _2 15:04:05 2006"
)

// Instant is the converter for an HTTP date/time field (Date,
// If-Modified-Since, Expires, ...). Parsing accepts RFC 1123, RFC 850 (with
// the two-digit year pivoted by ParseInstantAt), and ANSI C asctime;
// serializing always emits RFC 1123 in GMT (spec.md §4.1).
var Instant = Converter[time.Time]{
	Parse: func(text string) (time.Time, int, error) {
		return ParseInstantAt(text, time.Now())
	},
	Serialize: func(v time.Time) string {
		return v.UTC().Format(rfc1123Layout)
	},
}

// ParseInstantAt parses text the way Instant.Parse does, but pivots RFC 850
// two-digit years relative to now instead of time.Now(), so tests (and any
// caller) can pin the epoch per spec.md §9's open question.
func ParseInstantAt(text string, now time.Time) (time.Time, int, error) {
	trimmed := strings.TrimRight(text, " \t")
	if t, err := time.Parse(rfc1123Layout, trimmed); err == nil {
		return t, len(trimmed), nil
	}
	if t, err := time.Parse(rfc850Layout, trimmed); err == nil {
		return pivotYear(t, now), len(trimmed), nil
	}
	if t, err := time.Parse(asctimeLayout, trimmed); err == nil {
		return t, len(trimmed), nil
	}
	return time.Time{}, 0, newParseError("", text, 0, "unrecognized HTTP date format")
}

// pivotYear re-bases a two-digit RFC 850 year so the result falls within
// ±50 years of now (spec.md §9's open question: a heuristic, not
// RFC-specified, and therefore parameterized on an explicit "now" rather
// than time.Now() so callers can keep it stable).
func pivotYear(t, now time.Time) time.Time {
	century := (now.Year() / 100) * 100
	candidate := t.AddDate(century-t.Year()/100*100, 0, 0)

	diff := candidate.Year() - now.Year()
	switch {
	case diff > 50:
		candidate = candidate.AddDate(-100, 0, 0)
	case diff < -50:
		candidate = candidate.AddDate(100, 0, 0)
	}
	return candidate
}
