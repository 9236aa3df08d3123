package fieldvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_GetDecodesLazily(t *testing.T) {
	v := NewValue(Int64, "42")
	n, err := v.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestValue_GetRejectsTrailingGarbage(t *testing.T) {
	v := NewValue(Int64, "42 garbage")
	_, err := v.Get()
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Offset)
}

func TestValue_GetAllowsTrailingOWS(t *testing.T) {
	v := NewValue(Int64, "42  \t")
	n, err := v.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestValue_GetCachesResult(t *testing.T) {
	v := NewValue(Int64, "7")
	first, err := v.Get()
	require.NoError(t, err)
	v.text = "999" // mutate after first decode; cached value must not change
	second, err := v.Get()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValue_SetInvalidatesAndResyncsText(t *testing.T) {
	v := NewValue(Int64, "1")
	v.Set(99)
	assert.Equal(t, "99", v.Text())
	n, err := v.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(99), n)
}

func TestNewTyped_SerializesImmediately(t *testing.T) {
	v := NewTyped(Int64, int64(123))
	assert.Equal(t, "123", v.Text())
}
