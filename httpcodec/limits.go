package httpcodec

// Limits bounds header parsing; the zero value is nil-safe and applies
// the defaults below, the same "zero value is sane defaults" shape as the
// teacher's UpgradeOptions (spec.md §4.2 point 1).
type Limits struct {
	// MaxLineLength bounds a single start-line or header-line's length
	// (default 8192). Exceeding it makes a RequestDecoder yield a 431
	// with responseOnly and closeConnection; a ResponseDecoder returns
	// the *LimitError instead.
	MaxLineLength int
	// MaxHeaderCount bounds the number of header fields in one message
	// (default 100).
	MaxHeaderCount int
}

const (
	defaultMaxLineLength  = 8192
	defaultMaxHeaderCount = 100
)

func (l Limits) withDefaults() Limits {
	if l.MaxLineLength <= 0 {
		l.MaxLineLength = defaultMaxLineLength
	}
	if l.MaxHeaderCount <= 0 {
		l.MaxHeaderCount = defaultMaxHeaderCount
	}
	return l
}
