package relay

// NotFoundHandler produces the response for a request no route structurally
// matched. It is the table's single fallback.
type NotFoundHandler func(raw RawRequest) WireResponse

// NotFound is the stock fallback: 404 with a JSON error body.
func NotFound(raw RawRequest) WireResponse {
	return WireResponse{
		ID:      raw.ID,
		Status:  404,
		Body:    `{"error":"Not Found"}`,
		Headers: Headers{{Name: "Content-Type", Value: "application/json"}},
	}
}

// Table is an ordered route list plus a fallback. Order is significant:
// the first structural match wins, regardless of whether a later route
// would have matched "better". Tables are append-only during assembly and
// must not be mutated once requests are flowing; after that they are safe
// for concurrent reads.
type Table struct {
	routes   []Route
	notFound NotFoundHandler
}

// NewTable creates a table with the given routes and the stock NotFound
// fallback.
func NewTable(routes ...Route) *Table {
	return &Table{routes: routes, notFound: NotFound}
}

// Add appends routes, preserving declaration order.
func (t *Table) Add(routes ...Route) *Table {
	t.routes = append(t.routes, routes...)
	return t
}

// SetNotFound replaces the fallback handler.
func (t *Table) SetNotFound(h NotFoundHandler) *Table {
	t.notFound = h
	return t
}

// Routes returns the routes in declaration order, for introspection.
func (t *Table) Routes() []Route { return t.routes }

// Disposition says how a dispatch ended.
type Disposition int

const (
	// NoRoute means no route structurally matched; the fallback answered.
	NoRoute Disposition = iota

	// InvalidRequest means a route structurally matched but parameter
	// coercion or body decoding failed.
	InvalidRequest

	// Matched means a route matched and decoded; Invoke runs its handler.
	Matched
)

// Dispatch is the outcome of one table scan.
type Dispatch struct {
	Kind Disposition

	// Invoke runs the matched handler and encodes its result. Set only
	// when Kind is Matched.
	Invoke invocation

	// Invalid names what failed to decode. Set only when Kind is
	// InvalidRequest.
	Invalid *ValidationError

	// Fallback is the not-found response. Set only when Kind is NoRoute.
	Fallback WireResponse
}

// Dispatch scans the table in declaration order. The method gate runs
// before any path parsing, so routes for other methods cost one string
// compare. A structural path mismatch moves to the next route; it is
// control flow, not an error. A decode or coercion failure ends the scan
// immediately: the first structurally matching route is authoritative for
// the request, even if a later route would have decoded it.
func (t *Table) Dispatch(raw RawRequest) Dispatch {
	for _, r := range t.routes {
		if r.Method() != raw.Method {
			continue
		}
		inv, matched, verr := r.tryMatch(raw)
		if !matched {
			continue
		}
		if verr != nil {
			return Dispatch{Kind: InvalidRequest, Invalid: verr}
		}
		return Dispatch{Kind: Matched, Invoke: inv}
	}
	return Dispatch{Kind: NoRoute, Fallback: t.notFound(raw)}
}
