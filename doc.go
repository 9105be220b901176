// Package relay is a typed routing and request/response marshalling layer
// that sits between a raw transport and application handlers.
//
// Given an inbound request envelope, relay selects the first matching route,
// decodes the request into a strongly typed value, invokes the handler, and
// encodes the typed result back into a wire response — guaranteeing that
// every request, matched or not, valid or invalid, produces exactly one
// outbound response.
//
// # Quick Start
//
// Define the types a route works with:
//
//	type UserParams struct {
//	    ID int
//	}
//
//	type User struct {
//	    ID        int    `json:"id"`
//	    FirstName string `json:"firstName"`
//	    LastName  string `json:"lastName"`
//	    Email     string `json:"email"`
//	}
//
// Build a route, a table, and an orchestrator:
//
//	getUser := relay.NewRouteFunc(http.MethodGet, "/user/:id",
//	    func(p relay.Params) (UserParams, error) {
//	        id, err := relay.IntParam(p, "id")
//	        if err != nil {
//	            return UserParams{}, err
//	        }
//	        return UserParams{ID: id}, nil
//	    },
//	    relay.EmptyDecoder(),
//	    relay.JSONEncoder[User](),
//	    func(ctx context.Context, req *relay.Request[UserParams, struct{}]) (*relay.Response[User], error) {
//	        return relay.OK(User{ID: req.Params.ID, FirstName: "John"}), nil
//	    })
//
//	table := relay.NewTable(getUser)
//	orch := relay.NewOrchestrator(table, emit)
//
//	// Feed raw envelope bytes from the transport:
//	orch.Receive(ctx, raw)
//
// # Design
//
// The package separates concerns into three layers:
//
//   - Codecs: per-route decoder/encoder pairs, plain data values
//   - Table: ordered route scan, first structural match wins
//   - Orchestrator: envelope validation, pending-response correlation,
//     exactly-once emission
//
// Route evaluation is order-sensitive by design. The table scans routes in
// declaration order; the method gate runs before any path parsing; a path
// mismatch moves on to the next route, but once a route structurally
// matches it is authoritative — a decode failure there answers the request
// with a 400 instead of trying later routes.
//
// # Lifecycle
//
// Every inbound envelope travels Received → Dispatched → one of Resolved,
// Failed, or InvalidEnvelope, and each terminal state emits exactly one
// WireResponse. Late or duplicate completions for an already-resolved id
// are logged and discarded. Handler panics are contained and answered with
// a generic 500; a request is never left permanently pending by an
// internal fault.
//
// # Errors
//
// Four kinds of failure are kept distinct:
//
//   - EnvelopeError: the inbound bytes never became a request; answered
//     with a diagnostic response using whatever id could be salvaged
//   - ValidationError: a matched route's parameter coercion or body decode
//     failed; answered with a 400 naming the offending field
//   - application errors: returned by handlers, mapped by the
//     application's ErrorHandler — relay assigns them no status of its own
//   - route mismatch: not an error at all, just "try the next route"
//
// # Transports
//
// The core exposes one intake function (Orchestrator.Receive) and one
// emission callback (registered at construction). Bridge is a reference
// transport that adapts net/http to the envelope protocol, assigning a
// uuid per request and correlating responses by id. Timeouts are the
// transport's job; the core tolerates late resolutions by dropping them.
//
// # Thread Safety
//
// Tables are append-only during assembly and read-only afterwards; do not
// Add routes after requests start flowing. The orchestrator is safe for
// concurrent use: the pending table is the only shared mutable state and
// is mutex-guarded.
package relay
