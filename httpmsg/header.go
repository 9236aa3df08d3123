// Package httpmsg is the HTTP message model: an ordered, case-insensitive
// Header plus Request and Response types carrying a start line and that
// Header. It holds no framing or parsing logic of its own — httpcodec
// populates it a field at a time as bytes arrive off the wire.
package httpmsg

import "github.com/coregx/wire/fieldvalue"

// field is one header line in wire order: the name as CanonicalName
// produced it from the name given to Add or Set, and its raw text value.
type field struct {
	name  string
	value string
}

// Header is spec.md §3's "ordered, case-insensitively keyed mapping of
// field names to typed values", realized as an ordered slice plus a
// lower-cased-name index, rather than a map keyed directly on the
// canonical name — preserving insertion order (required for byte-identical
// re-encoding) without giving up O(1) lookup.
type Header struct {
	fields []field
	index  map[string][]int
}

// NewHeader returns an empty Header ready for use; the zero Header is also
// valid but Add/Set will initialize index lazily.
func NewHeader() *Header {
	return &Header{index: make(map[string][]int)}
}

func (h *Header) ensureIndex() {
	if h.index == nil {
		h.index = make(map[string][]int)
	}
}

// Add appends a new occurrence of name without removing existing ones,
// for fields that may legitimately repeat (Set-Cookie, Vary).
func (h *Header) Add(name, value string) {
	h.ensureIndex()
	key := fieldvalue.CanonicalName(name)
	lower := lowerASCII(key)
	h.fields = append(h.fields, field{name: key, value: value})
	h.index[lower] = append(h.index[lower], len(h.fields)-1)
}

// Set replaces all existing occurrences of name with a single value,
// preserving the position of the first existing occurrence if there was
// one, otherwise appending.
func (h *Header) Set(name, value string) {
	h.ensureIndex()
	key := fieldvalue.CanonicalName(name)
	lower := lowerASCII(key)
	if idxs, ok := h.index[lower]; ok && len(idxs) > 0 {
		h.fields[idxs[0]].value = value
		h.removeAllBut(lower, idxs[0])
		return
	}
	h.Add(name, value)
}

// removeAllBut deletes every indexed occurrence of lower except keep,
// compacting the backing slice and rebuilding the index. Rare path (Set on
// a field that already repeated), so a full rebuild is acceptable.
func (h *Header) removeAllBut(lower string, keep int) {
	out := h.fields[:0:0]
	for i, f := range h.fields {
		if i != keep && contains(h.index[lower], i) {
			continue
		}
		out = append(out, f)
	}
	h.fields = out
	h.rebuildIndex()
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func (h *Header) rebuildIndex() {
	h.index = make(map[string][]int, len(h.fields))
	for i, f := range h.fields {
		lower := lowerASCII(f.name)
		h.index[lower] = append(h.index[lower], i)
	}
}

// Del removes every occurrence of name.
func (h *Header) Del(name string) {
	if h.index == nil {
		return
	}
	lower := lowerASCII(fieldvalue.CanonicalName(name))
	idxs, ok := h.index[lower]
	if !ok {
		return
	}
	out := h.fields[:0:0]
	for i, f := range h.fields {
		if contains(idxs, i) {
			continue
		}
		out = append(out, f)
	}
	h.fields = out
	h.rebuildIndex()
}

// Get returns the first value stored for name, or "" if absent.
func (h *Header) Get(name string) string {
	if h.index == nil {
		return ""
	}
	lower := lowerASCII(fieldvalue.CanonicalName(name))
	idxs, ok := h.index[lower]
	if !ok || len(idxs) == 0 {
		return ""
	}
	return h.fields[idxs[0]].value
}

// Values returns every value stored for name in insertion order, nil if
// absent (spec.md §11 supplement: multi-value fields like Set-Cookie).
func (h *Header) Values(name string) []string {
	if h.index == nil {
		return nil
	}
	lower := lowerASCII(fieldvalue.CanonicalName(name))
	idxs, ok := h.index[lower]
	if !ok {
		return nil
	}
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = h.fields[idx].value
	}
	return out
}

// Has reports whether name was stored at least once.
func (h *Header) Has(name string) bool {
	if h.index == nil {
		return false
	}
	_, ok := h.index[lowerASCII(fieldvalue.CanonicalName(name))]
	return ok
}

// Len returns the number of field occurrences (not distinct names).
func (h *Header) Len() int { return len(h.fields) }

// Range calls fn for each field in wire order, stopping early if fn
// returns false.
func (h *Header) Range(fn func(name, value string) bool) {
	for _, f := range h.fields {
		if !fn(f.name, f.value) {
			return
		}
	}
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
