package httpcodec

import (
	"testing"

	"github.com/coregx/wire/bytebuf"
	"github.com/coregx/wire/httpmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseDecoder_SimpleOKWithBody(t *testing.T) {
	d := NewResponseDecoder(Limits{})
	raw := []byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello")

	c := bytebuf.NewCursor(raw)
	out := make([]byte, 16)
	sink := bytebuf.NewSink(out)

	res, err := d.Decode(c, sink, true, nil)
	require.NoError(t, err)
	require.True(t, res.HeaderCompleted)
	assert.Equal(t, 200, d.Response().Status)
	assert.Equal(t, "OK", d.Response().Reason)

	res2, err := d.Decode(c, sink, true, nil)
	require.NoError(t, err)
	assert.False(t, res2.Underflow)
	assert.Equal(t, "hello", string(out[:sink.Len()]))
}

func TestResponseDecoder_HeadReplyHasNoBody(t *testing.T) {
	d := NewResponseDecoder(Limits{})
	req := httpmsg.NewRequest("HEAD", "/", 1, 1)
	raw := []byte("HTTP/1.1 200 OK\r\nContent-Length: 100\r\n\r\n")

	c := bytebuf.NewCursor(raw)
	sink := bytebuf.NewSink(make([]byte, 16))
	res, err := d.Decode(c, sink, true, req)
	require.NoError(t, err)
	require.True(t, res.HeaderCompleted)

	res2, err := d.Decode(c, sink, true, req)
	require.NoError(t, err)
	assert.False(t, res2.Underflow)
	assert.Equal(t, 0, sink.Len())
}

func TestResponseDecoder_204HasNoBodyEvenWithContentLength(t *testing.T) {
	d := NewResponseDecoder(Limits{})
	raw := []byte("HTTP/1.1 204 No Content\r\n\r\n")

	c := bytebuf.NewCursor(raw)
	sink := bytebuf.NewSink(make([]byte, 16))
	res, err := d.Decode(c, sink, true, nil)
	require.NoError(t, err)
	require.True(t, res.HeaderCompleted)

	res2, err := d.Decode(c, sink, true, nil)
	require.NoError(t, err)
	assert.False(t, res2.Underflow)
	assert.Equal(t, 0, sink.Len())
}

func TestResponseDecoder_CloseDelimitedBody(t *testing.T) {
	d := NewResponseDecoder(Limits{})
	raw := []byte("HTTP/1.0 200 OK\r\n\r\nhello world")

	c := bytebuf.NewCursor(raw)
	out := make([]byte, 32)
	sink := bytebuf.NewSink(out)
	res, err := d.Decode(c, sink, true, nil)
	require.NoError(t, err)
	require.True(t, res.HeaderCompleted)

	res2, err := d.Decode(c, sink, true, nil)
	require.NoError(t, err)
	assert.False(t, res2.Underflow)
	assert.Equal(t, "hello world", string(out[:sink.Len()]))
}

func TestResponseDecoder_MalformedStatusLineFails(t *testing.T) {
	d := NewResponseDecoder(Limits{})
	raw := []byte("NOT A STATUS LINE\r\n\r\n")

	c := bytebuf.NewCursor(raw)
	sink := bytebuf.NewSink(nil)
	_, err := d.Decode(c, sink, true, nil)
	require.Error(t, err)
}
