package relay

import (
	"context"
	"errors"
)

// Handler processes one typed request and produces a typed response, or an
// application-level error. Application errors are mapped to wire responses
// by the orchestrator's error handler; they are distinct from decode and
// match failures, which never reach a handler.
//
// Handlers carry their dependencies as struct fields:
//
//	type GetUser struct {
//	    users UserStore
//	}
//
//	func (h *GetUser) Handle(ctx context.Context, req *relay.Request[UserParams, struct{}]) (*relay.Response[User], error) {
//	    u, err := h.users.Find(ctx, req.Params.ID)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return relay.OK(u), nil
//	}
type Handler[P, B, R any] interface {
	Handle(ctx context.Context, req *Request[P, B]) (*Response[R], error)
}

// HandlerFunc is a function adapter for Handler. Use for handlers that
// don't need a struct:
//
//	relay.NewRouteFunc(http.MethodGet, "/ping", relay.NoParams(), relay.EmptyDecoder(), relay.TextEncoder(),
//	    func(ctx context.Context, req *relay.Request[struct{}, struct{}]) (*relay.Response[string], error) {
//	        return relay.OK("pong"), nil
//	    })
type HandlerFunc[P, B, R any] func(ctx context.Context, req *Request[P, B]) (*Response[R], error)

// Handle implements the Handler interface.
func (f HandlerFunc[P, B, R]) Handle(ctx context.Context, req *Request[P, B]) (*Response[R], error) {
	return f(ctx, req)
}

// ParamsDecoder coerces the raw captured path parameters into a typed
// value. Apply per-parameter coercions in declaration order and return on
// the first failure; the helpers IntParam and StringParam produce errors
// already formatted as "<name>: <message>".
type ParamsDecoder[P any] func(Params) (P, error)

// NoParams is the decoder for routes whose pattern declares no parameters.
func NoParams() ParamsDecoder[struct{}] {
	return func(Params) (struct{}, error) {
		return struct{}{}, nil
	}
}

// Route is one immutable routing unit: an HTTP method, a path pattern, a
// request decoder, a response encoder, and a typed handler. Build routes
// with NewRoute or NewRouteFunc; the parameter and body types stay internal
// to the route so heterogeneously typed routes share one table.
type Route interface {
	// Method returns the HTTP method the route answers.
	Method() string

	// Pattern returns the path template the route was built from.
	Pattern() string

	tryMatch(raw RawRequest) (invocation, bool, *ValidationError)
}

// invocation runs the matched route's handler and encodes its result.
type invocation func(ctx context.Context) (WireResponse, error)

// NewRoute binds method, pattern, codecs, and a handler into a Route. The
// factory is pure: it touches no shared state and the result never changes.
// Routes may overlap freely; table order is the tie-break (first match
// wins), not a uniqueness constraint.
func NewRoute[P, B, R any](
	method, pattern string,
	params ParamsDecoder[P],
	decode BodyDecoder[B],
	encode BodyEncoder[R],
	handler Handler[P, B, R],
) Route {
	return &route[P, B, R]{
		method:  method,
		pattern: ParsePattern(pattern),
		params:  params,
		decode:  decode,
		encode:  encode,
		handler: handler,
	}
}

// NewRouteFunc is NewRoute for a bare handler function.
func NewRouteFunc[P, B, R any](
	method, pattern string,
	params ParamsDecoder[P],
	decode BodyDecoder[B],
	encode BodyEncoder[R],
	handler func(ctx context.Context, req *Request[P, B]) (*Response[R], error),
) Route {
	return NewRoute(method, pattern, params, decode, encode, HandlerFunc[P, B, R](handler))
}

// route keeps the typed composition private; the table only ever sees the
// erased Route interface.
type route[P, B, R any] struct {
	method  string
	pattern Pattern
	params  ParamsDecoder[P]
	decode  BodyDecoder[B]
	encode  BodyEncoder[R]
	handler Handler[P, B, R]
}

func (r *route[P, B, R]) Method() string  { return r.method }
func (r *route[P, B, R]) Pattern() string { return r.pattern.String() }

// tryMatch attempts the structural path match, then parameter coercion and
// body decoding. A structural mismatch returns (nil, false, nil) so the
// dispatcher keeps scanning; a coercion or decode failure returns the
// ValidationError that ends the scan.
func (r *route[P, B, R]) tryMatch(raw RawRequest) (invocation, bool, *ValidationError) {
	captured, ok := r.pattern.Match(raw.Path)
	if !ok {
		return nil, false, nil
	}

	params, err := r.params(captured)
	if err != nil {
		return nil, true, asValidation(err, &ValidationError{Name: "params", Message: err.Error()})
	}

	body, err := r.decode(raw.Body, raw.Headers)
	if err != nil {
		return nil, true, asValidation(err, BodyError(err))
	}

	req := &Request[P, B]{
		ID:      raw.ID,
		Params:  params,
		Body:    body,
		Headers: raw.Headers,
		URL:     raw.URL,
	}

	inv := func(ctx context.Context) (WireResponse, error) {
		resp, err := r.handler.Handle(ctx, req)
		if err != nil {
			return WireResponse{}, err
		}
		text, err := r.encode(resp.Body)
		if err != nil {
			return WireResponse{}, err
		}
		return WireResponse{
			ID:      raw.ID,
			Status:  resp.Status,
			Body:    text,
			Headers: resp.Headers,
		}, nil
	}
	return inv, true, nil
}

// asValidation keeps a decoder's own ValidationError intact; any other
// error is replaced by fallback so the client still sees a named failure.
func asValidation(err error, fallback *ValidationError) *ValidationError {
	var v *ValidationError
	if errors.As(err, &v) {
		return v
	}
	return fallback
}
