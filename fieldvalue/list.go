package fieldvalue

import "strings"

// NewListConverter builds a Converter for a comma-separated (or
// custom-separator-delimited) list of values sharing one base Converter.
// Empty items — consecutive separators, or leading/trailing ones — are
// ignored rather than treated as errors, matching how real servers combine
// repeated header lines and tolerate the stray empty list element (spec.md
// §4.1).
func NewListConverter[T any](base Converter[T], sep byte) Converter[[]T] {
	return Converter[[]T]{
		Parse: func(text string) ([]T, int, error) {
			items, consumed := splitTopLevel(text, sep)
			out := make([]T, 0, len(items))
			for _, raw := range items {
				raw = strings.TrimSpace(raw)
				if raw == "" {
					continue
				}
				v, n, err := base.Parse(raw)
				if err != nil {
					return nil, 0, err
				}
				if n < len(raw) {
					return nil, 0, newParseError("", text, n, errTrailingGarbage)
				}
				out = append(out, v)
			}
			return out, consumed, nil
		},
		Serialize: func(vs []T) string {
			parts := make([]string, len(vs))
			for i, v := range vs {
				parts[i] = base.Serialize(v)
			}
			return strings.Join(parts, string(sep)+" ")
		},
	}
}

// List is the comma-separated list converter, the common case (Connection,
// Accept-Encoding without weights, Vary, ...).
func List[T any](base Converter[T]) Converter[[]T] {
	return NewListConverter(base, ',')
}
