package httpmsg

// Request is an HTTP/1.1 request-line plus its Header. Method and Target
// are stored verbatim (method as received; Target unparsed — URI
// structure is outside this library's scope, spec.md §1).
type Request struct {
	Method     string
	Target     string
	ProtoMajor int
	ProtoMinor int
	Header     *Header
}

// NewRequest returns a Request with an initialized, empty Header.
func NewRequest(method, target string, protoMajor, protoMinor int) *Request {
	return &Request{Method: method, Target: target, ProtoMajor: protoMajor, ProtoMinor: protoMinor, Header: NewHeader()}
}

// Response is an HTTP/1.1 status-line plus its Header. Request is the
// spec's weak back-reference to the request that produced this response
// (spec.md §3): a plain pointer, never written to by the decoder after
// construction, kept purely for caller correlation.
type Response struct {
	ProtoMajor int
	ProtoMinor int
	Status     int
	Reason     string
	Header     *Header
	Request    *Request
}

// NewResponse returns a Response with an initialized, empty Header.
func NewResponse(protoMajor, protoMinor, status int, reason string) *Response {
	return &Response{ProtoMajor: protoMajor, ProtoMinor: protoMinor, Status: status, Reason: reason, Header: NewHeader()}
}

// KeepAliveByDefault reports whether, absent an explicit Connection field,
// this response's protocol version defaults to a persistent connection
// (HTTP/1.1 does; HTTP/1.0 does not) — used by engine's
// BuildResponseSkeleton to decide whether to add Connection: close.
func (r *Response) KeepAliveByDefault() bool {
	return r.ProtoMajor == 1 && r.ProtoMinor >= 1
}
