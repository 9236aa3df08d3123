package fieldvalue

import (
	"sort"
	"strconv"
	"strings"
)

// Weighted is one entry of a weighted list (Accept, Accept-Language,
// Accept-Encoding): a parameterized value with an implied or explicit `q`
// preference weight in [0, 1].
type Weighted[T any] struct {
	Value  T
	Q      float64
	Params []Param
}

// NewWeightedListConverter builds a Converter for a comma-separated list of
// values, each optionally carrying a `q=` weight among its parameters
// (spec.md §3, §4.1). Missing `q` defaults to 1.0. Serialize/parse keep
// input order; sorting by descending weight for preference resolution is
// the caller's job (SortByWeight), since the wire order and the preference
// order are different concerns.
func NewWeightedListConverter[T any](base Converter[T]) Converter[[]Weighted[T]] {
	paramConv := NewParameterizedConverter(base)

	return Converter[[]Weighted[T]]{
		Parse: func(text string) ([]Weighted[T], int, error) {
			items, consumed := splitTopLevel(text, ',')
			out := make([]Weighted[T], 0, len(items))
			for _, raw := range items {
				raw = strings.TrimSpace(raw)
				if raw == "" {
					continue
				}
				p, n, err := paramConv.Parse(raw)
				if err != nil {
					return nil, 0, err
				}
				if n < len(raw) {
					return nil, 0, newParseError("", text, n, errTrailingGarbage)
				}
				q := 1.0
				kept := p.Params[:0:0]
				for _, kv := range p.Params {
					if kv.Key == "q" {
						v, err := strconv.ParseFloat(kv.Value, 64)
						if err != nil || v < 0 || v > 1 {
							return nil, 0, newParseError("", text, 0, "q parameter out of range")
						}
						q = v
						continue
					}
					kept = append(kept, kv)
				}
				out = append(out, Weighted[T]{Value: p.Value, Q: q, Params: kept})
			}
			return out, consumed, nil
		},
		Serialize: func(vs []Weighted[T]) string {
			parts := make([]string, 0, len(vs))
			for _, w := range vs {
				p := Parameterized[T]{Value: w.Value, Params: w.Params}
				s := paramConv.Serialize(p)
				if w.Q != 1.0 {
					s += ";q=" + strconv.FormatFloat(w.Q, 'g', -1, 64)
				}
				parts = append(parts, s)
			}
			return strings.Join(parts, ", ")
		},
	}
}

// SortByWeight returns a stable copy of vs ordered by descending Q, for
// client preference resolution (spec.md §3: "stable sort by descending
// weight"). Ties keep their original relative order.
func SortByWeight[T any](vs []Weighted[T]) []Weighted[T] {
	out := make([]Weighted[T], len(vs))
	copy(out, vs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Q > out[j].Q })
	return out
}
