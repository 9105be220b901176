package relay

import (
	"net/url"
	"strings"
)

// RequestID identifies one inbound request for the whole of its lifecycle.
// It is minted by the envelope intake and cannot be constructed from an
// arbitrary string elsewhere, so a stale or forged id can never resolve a
// pending entry. Use String for logging and serialization.
type RequestID struct {
	s string
}

// String returns the wire form of the id.
func (id RequestID) String() string { return id.s }

// IsZero reports whether the id was never assigned.
func (id RequestID) IsZero() bool { return id.s == "" }

// unknownRequestID is used when a malformed envelope carries no salvageable id.
var unknownRequestID = RequestID{s: "unknown"}

// Header is one name/value pair. Order is preserved end to end; the same
// name may appear more than once.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header list.
type Headers []Header

// Get returns the first value for name, matching case-insensitively per
// HTTP convention. The second return is false when the name is absent.
func (hs Headers) Get(name string) (string, bool) {
	for _, h := range hs {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Add appends a header, preserving order.
func (hs Headers) Add(name, value string) Headers {
	return append(hs, Header{Name: name, Value: value})
}

// RawRequest is the decoded but untyped form of one inbound request.
// Immutable once built by the envelope intake; consumed by the dispatcher.
type RawRequest struct {
	ID      RequestID
	Method  string
	URL     *url.URL
	Path    string
	Body    string
	Headers Headers
}

// Request is the typed request a handler receives: path parameters coerced
// to P and the body decoded to B. It is owned by the handler invocation.
type Request[P, B any] struct {
	ID      RequestID
	Params  P
	Body    B
	Headers Headers
	URL     *url.URL
}

// Response is the typed response a handler produces before encoding.
type Response[R any] struct {
	Status  int
	Body    R
	Headers Headers
}

// OK wraps body in a 200 response.
func OK[R any](body R) *Response[R] {
	return &Response[R]{Status: 200, Body: body}
}

// Respond wraps body in a response with the given status.
func Respond[R any](status int, body R) *Response[R] {
	return &Response[R]{Status: status, Body: body}
}

// WireResponse is the encoded form of a response as it leaves the core.
// Exactly one WireResponse is emitted per inbound request id.
type WireResponse struct {
	ID      RequestID
	Status  int
	Body    string
	Headers Headers
}
