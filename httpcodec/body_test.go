package httpcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChunkSize_Hex(t *testing.T) {
	cases := map[string]uint64{
		"5":       5,
		"A":       10,
		"ff":      255,
		"1a2b":    0x1a2b,
		"5;ext=1": 5,
	}
	for in, want := range cases {
		got, err := parseChunkSize(in)
		require.NoError(t, err, "parseChunkSize(%q)", in)
		assert.Equal(t, want, got, "parseChunkSize(%q)", in)
	}
}

func TestParseChunkSize_EmptyFails(t *testing.T) {
	_, err := parseChunkSize("")
	assert.Error(t, err)
}

func TestParseChunkSize_InvalidDigitFails(t *testing.T) {
	_, err := parseChunkSize("zz")
	assert.Error(t, err)
}

func TestParseChunkSize_OverflowFails(t *testing.T) {
	_, err := parseChunkSize("ffffffffffffffff0")
	assert.Error(t, err)
}
