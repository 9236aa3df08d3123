package httpmsg

import (
	"testing"

	"github.com/coregx/wire/fieldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	req := NewRequest("GET", "/path", 1, 1)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/path", req.Target)
	assert.NotNil(t, req.Header)
}

func TestResponse_KeepAliveByDefault(t *testing.T) {
	http11 := NewResponse(1, 1, 200, "OK")
	assert.True(t, http11.KeepAliveByDefault())

	http10 := NewResponse(1, 0, 200, "OK")
	assert.False(t, http10.KeepAliveByDefault())
}

func TestField_GetDecodesFromHeader(t *testing.T) {
	h := NewHeader()
	h.Set("Content-Length", "42")

	f := GetField(h, "Content-Length", fieldvalue.ContentLength)
	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
}

func TestSetField_WritesSerializedForm(t *testing.T) {
	h := NewHeader()
	SetField(h, "Content-Length", fieldvalue.ContentLength, int64(7))
	assert.Equal(t, "7", h.Get("Content-Length"))
}
