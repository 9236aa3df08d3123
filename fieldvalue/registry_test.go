package fieldvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LookupCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("content-length")
	assert.True(t, ok)
	_, ok = r.Lookup("CONTENT-LENGTH")
	assert.True(t, ok)
}

func TestRegistry_LookupUnknownFails(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("X-Custom-Header")
	assert.False(t, ok)
}

func TestRegistry_RegisterAddsTypedConverter(t *testing.T) {
	r := NewRegistry()
	Register(r, "X-Count", Int64)
	conv := ConverterFor[int64](r, "X-Count")
	v, _, err := conv.Parse("5")
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
}

func TestConverterFor_FallsBackToRawForUnknownString(t *testing.T) {
	r := NewRegistry()
	conv := ConverterFor[string](r, "X-Unregistered")
	v, n, err := conv.Parse("verbatim")
	require.NoError(t, err)
	assert.Equal(t, "verbatim", v)
	assert.Equal(t, len("verbatim"), n)
}

func TestConverterFor_PanicsOnTypeMismatch(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() {
		ConverterFor[int64](r, "Content-Type")
	})
}
