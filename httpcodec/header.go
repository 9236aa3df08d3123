package httpcodec

import (
	"strings"

	"github.com/coregx/wire/bytebuf"
	"github.com/coregx/wire/httpmsg"
)

// headerReader accumulates header lines into an httpmsg.Header, handling
// obsolete-line-folding continuations (spec.md §4.2 point 3) and
// enforcing the header-count limit. It is shared by RequestDecoder and
// ResponseDecoder, since header syntax doesn't depend on direction.
type headerReader struct {
	ls      lineScanner
	limits  Limits
	header  *httpmsg.Header
	count   int
	lastKey string // name (as written) of the most recently added field, for folding
}

func (h *headerReader) reset() {
	h.ls.reset()
	h.header = httpmsg.NewHeader()
	h.count = 0
	h.lastKey = ""
}

// feed consumes header lines from c until the terminating empty line is
// seen (done=true) or the cursor runs dry (underflow). A *LimitError is
// returned if the header count limit is exceeded.
func (h *headerReader) feed(c *bytebuf.Cursor) (done bool, underflow bool, err error) {
	for {
		line, complete, err := h.ls.feed(c, h.limits.MaxLineLength)
		if err != nil {
			return false, false, err
		}
		if !complete {
			return false, true, nil
		}
		if line == "" {
			return true, false, nil
		}
		if (line[0] == ' ' || line[0] == '\t') && h.lastKey != "" {
			// Obsolete line folding: continuation of the previous field,
			// collapsed to a single space (spec.md §4.2 point 3).
			h.appendFold(line)
			continue
		}
		name, value, ok := splitHeaderLine(line)
		if !ok {
			return false, false, newParseError(line, 0, "malformed header field")
		}
		h.count++
		if h.count > h.limits.MaxHeaderCount {
			return false, false, newLimitError("too many header fields")
		}
		h.header.Add(name, value)
		h.lastKey = name
	}
}

func (h *headerReader) appendFold(line string) {
	folded := strings.TrimSpace(line)
	values := h.header.Values(h.lastKey)
	if len(values) == 0 {
		return
	}
	last := values[len(values)-1] + " " + folded
	// Header has no in-place update for one occurrence among several, so
	// rebuild: remove and re-add every prior occurrence, replacing only
	// the final one. Folding across a repeated field name is rare enough
	// that this isn't on any hot path.
	h.header.Del(h.lastKey)
	for i, v := range values {
		if i == len(values)-1 {
			h.header.Add(h.lastKey, last)
		} else {
			h.header.Add(h.lastKey, v)
		}
	}
}

// splitHeaderLine splits "Name: value" into its name, as written, and
// trimmed value; httpmsg.Header canonicalizes the name when it is added.
func splitHeaderLine(line string) (name, value string, ok bool) {
	colon := indexByte(line, ':')
	if colon <= 0 {
		return "", "", false
	}
	name = line[:colon]
	for i := 0; i < len(name); i++ {
		if name[i] == ' ' || name[i] == '\t' {
			return "", "", false
		}
	}
	value = strings.TrimSpace(line[colon+1:])
	return name, value, true
}
