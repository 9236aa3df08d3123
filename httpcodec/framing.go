package httpcodec

import (
	"strings"

	"github.com/coregx/wire/fieldvalue"
	"github.com/coregx/wire/httpmsg"
)

// bodyMode is the outcome of framing selection (spec.md §4.2 step 4).
type bodyMode int

const (
	bodyNone bodyMode = iota
	bodyLengthed
	bodyChunked
	bodyUntilClose
)

func isChunked(h *httpmsg.Header) bool {
	te := h.Get("Transfer-Encoding")
	if te == "" {
		return false
	}
	// The last coding applied is the one that determines framing; chunked
	// must be the final (and in this library, only) transfer-coding.
	parts := strings.Split(te, ",")
	last := strings.TrimSpace(parts[len(parts)-1])
	return strings.EqualFold(last, "chunked")
}

// decideRequestFraming implements spec.md §4.2 step 4 for the request
// direction: chunked takes precedence over Content-Length; with neither
// present, a request carries no body.
func decideRequestFraming(h *httpmsg.Header) (bodyMode, int64, error) {
	if isChunked(h) {
		return bodyChunked, 0, nil
	}
	if cl := h.Get("Content-Length"); cl != "" {
		n, _, err := fieldvalue.ContentLength.Parse(cl)
		if err != nil {
			return bodyNone, 0, newParseError(cl, 0, "malformed Content-Length")
		}
		return bodyLengthed, n, nil
	}
	return bodyLengthed, 0, nil
}

// decideResponseFraming implements spec.md §4.2 step 4 for the response
// direction: 1xx/204/304 and replies to HEAD never carry a body
// regardless of headers; otherwise chunked, then Content-Length, then
// close-delimited (covers HTTP/1.0 responses and any response that omits
// both framing headers).
func decideResponseFraming(h *httpmsg.Header, status int, isHeadReply bool) (bodyMode, int64, error) {
	if isHeadReply || status == 204 || status == 304 || (status >= 100 && status < 200) {
		return bodyNone, 0, nil
	}
	if isChunked(h) {
		return bodyChunked, 0, nil
	}
	if cl := h.Get("Content-Length"); cl != "" {
		n, _, err := fieldvalue.ContentLength.Parse(cl)
		if err != nil {
			return bodyNone, 0, newParseError(cl, 0, "malformed Content-Length")
		}
		return bodyLengthed, n, nil
	}
	return bodyUntilClose, 0, nil
}

// wantsUpgrade reports whether req asks to switch to protocol name proto,
// per RFC 7230 §6.7: both Connection: upgrade and Upgrade: <proto> must
// be present.
func wantsUpgrade(h *httpmsg.Header) (proto string, ok bool) {
	if !headerContainsToken(h.Get("Connection"), "upgrade") {
		return "", false
	}
	proto = h.Get("Upgrade")
	if proto == "" {
		return "", false
	}
	return proto, true
}

// headerContainsToken reports whether header contains token as one of its
// comma-separated, case-insensitive members — grounded on the teacher's
// websocket/handshake.go helper of the same purpose, generalized from
// net/http.Header to httpmsg's string-valued Get.
func headerContainsToken(header, token string) bool {
	for _, part := range strings.Split(header, ",") {
		if strings.EqualFold(strings.TrimSpace(part), token) {
			return true
		}
	}
	return false
}
