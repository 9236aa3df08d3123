package httpcodec

import (
	"strings"
	"testing"

	"github.com/coregx/wire/bytebuf"
	"github.com/coregx/wire/httpmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeAll(t *testing.T, enc interface {
	Encode(*bytebuf.Cursor, *bytebuf.Sink, bool) (CodecResult, error)
}, body []byte, outCap int) (CodecResult, []byte) {
	t.Helper()
	c := bytebuf.NewCursor(body)
	out := make([]byte, outCap)
	sink := bytebuf.NewSink(out)
	res, err := enc.Encode(c, sink, true)
	require.NoError(t, err)
	return res, out[:sink.Len()]
}

func TestResponseEncoder_ContentLengthBody(t *testing.T) {
	e := NewResponseEncoder()
	resp := httpmsg.NewResponse(1, 1, 200, "OK")
	resp.Header.Set("Content-Length", "5")

	require.NoError(t, e.PushHeader(resp, nil, true))
	_, out := encodeAll(t, e, []byte("hello"), 128)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "HTTP/1.1 200 OK\r\n"))
	assert.Contains(t, s, "Content-Length: 5\r\n")
	assert.True(t, strings.HasSuffix(s, "\r\n\r\nhello"))
}

func TestResponseEncoder_NoFramingHeaderSetsChunked(t *testing.T) {
	e := NewResponseEncoder()
	resp := httpmsg.NewResponse(1, 1, 200, "OK")

	require.NoError(t, e.PushHeader(resp, nil, true))
	assert.Equal(t, "chunked", resp.Header.Get("Transfer-Encoding"))

	_, out := encodeAll(t, e, []byte("abc"), 128)
	s := string(out)
	assert.Contains(t, s, "3\r\nabc\r\n")
	assert.True(t, strings.HasSuffix(s, "0\r\n\r\n"))
}

func TestResponseEncoder_HeadReplySuppressesBody(t *testing.T) {
	e := NewResponseEncoder()
	req := httpmsg.NewRequest("HEAD", "/", 1, 1)
	resp := httpmsg.NewResponse(1, 1, 200, "OK")

	require.NoError(t, e.PushHeader(resp, req, true))
	_, out := encodeAll(t, e, nil, 128)
	assert.False(t, strings.Contains(string(out), "Transfer-Encoding"))
}

func TestResponseEncoder_ReqConnectionCloseForcesClose(t *testing.T) {
	e := NewResponseEncoder()
	req := httpmsg.NewRequest("GET", "/", 1, 1)
	req.Header.Set("Connection", "close")
	resp := httpmsg.NewResponse(1, 1, 200, "OK")
	resp.Header.Set("Content-Length", "0")

	require.NoError(t, e.PushHeader(resp, req, false))
	res, out := encodeAll(t, e, nil, 128)
	assert.True(t, res.CloseConnection)
	assert.Contains(t, string(out), "Connection: close\r\n")
}

func TestResponseEncoder_OverflowOnSmallSink(t *testing.T) {
	e := NewResponseEncoder()
	resp := httpmsg.NewResponse(1, 1, 200, "OK")
	resp.Header.Set("Content-Length", "5")
	require.NoError(t, e.PushHeader(resp, nil, true))

	c := bytebuf.NewCursor([]byte("hello"))
	out := make([]byte, 4)
	sink := bytebuf.NewSink(out)
	res, err := e.Encode(c, sink, true)
	require.NoError(t, err)
	assert.True(t, res.Overflow)
}

func TestResponseEncoder_RejectsSecondPushBeforeDone(t *testing.T) {
	e := NewResponseEncoder()
	resp := httpmsg.NewResponse(1, 1, 200, "OK")
	resp.Header.Set("Content-Length", "0")
	require.NoError(t, e.PushHeader(resp, nil, false))

	err := e.PushHeader(resp, nil, false)
	assert.ErrorIs(t, err, ErrUnexpectedCall)
}
