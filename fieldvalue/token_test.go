package fieldvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsToken(t *testing.T) {
	assert.True(t, IsToken("close"))
	assert.True(t, IsToken("x-custom-123"))
	assert.False(t, IsToken(""))
	assert.False(t, IsToken("has space"))
	assert.False(t, IsToken("has/slash"))
}

func TestToken_Parse(t *testing.T) {
	v, n, err := Token.Parse("keep-alive, more")
	require.NoError(t, err)
	assert.Equal(t, "keep-alive", v)
	assert.Equal(t, 10, n)
}

func TestToken_ParseEmptyFails(t *testing.T) {
	_, _, err := Token.Parse(" leading-space")
	require.Error(t, err)
}

func TestCanonicalName(t *testing.T) {
	cases := map[string]string{
		"content-length": "Content-Length",
		"CONTENT-TYPE":   "Content-Type",
		"Sec-WebSocket-Key": "Sec-Websocket-Key",
		"x":              "X",
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalName(in), "input %q", in)
	}
}

func TestCanonicalName_LeavesNonTokenUnchanged(t *testing.T) {
	assert.Equal(t, "bad header", CanonicalName("bad header"))
}
