package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Emit delivers one outbound WireResponse to the transport collaborator.
// The orchestrator calls it exactly once per inbound request id.
type Emit func(resp WireResponse)

// ErrorHandler maps an application-level error (returned by a handler) to
// a wire response. The core assigns no status of its own to application
// errors; that choice belongs entirely to the application.
type ErrorHandler func(id RequestID, err error) WireResponse

// PreflightHandler answers OPTIONS requests before route-table iteration.
type PreflightHandler func(raw RawRequest) WireResponse

// Orchestrator owns the request lifecycle: envelope validation, dispatch,
// the pending-response table, and exactly-once emission. One orchestrator
// serves any number of concurrent in-flight requests; the pending table is
// the only shared mutable state and is mutex-guarded.
type Orchestrator struct {
	table     *Table
	emit      Emit
	log       *slog.Logger
	errh      ErrorHandler
	preflight PreflightHandler
	hooks     hooks

	mu      sync.Mutex
	pending map[string]time.Time
}

// NewOrchestrator wires a route table to a transport emission callback.
// The emit callback is registered once, here; responses are correlated to
// requests purely by RequestID.
func NewOrchestrator(table *Table, emit Emit, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		table:     table,
		emit:      emit,
		log:       slog.Default(),
		errh:      DefaultErrorHandler,
		preflight: DefaultPreflight,
		pending:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Receive is the single request-intake function. It decodes the envelope,
// registers the pending entry, dispatches, and guarantees exactly one
// emitted WireResponse for the request, whichever path it takes. Handlers
// run on the calling goroutine; a handler that performs asynchronous work
// simply blocks until that work completes, so transports should call
// Receive from one goroutine per physical request.
func (o *Orchestrator) Receive(ctx context.Context, raw []byte) {
	req, eerr := decodeEnvelope(raw)
	if eerr != nil {
		o.invalidEnvelope(eerr)
		return
	}

	if !o.track(req.ID) {
		o.log.Warn("duplicate request id, treating as invalid envelope", "id", req.ID.String())
		o.invalidEnvelope(&EnvelopeError{Reason: "duplicate id", SalvagedID: req.ID.String()})
		return
	}

	o.process(ctx, req)
}

// process runs dispatch and handler execution with panic containment. A
// panicking handler or decoder must never crash the dispatch loop or leave
// its request permanently pending.
func (o *Orchestrator) process(ctx context.Context, req RawRequest) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("recovered panic during request handling", "id", req.ID.String(), "panic", r)
			o.resolve(req.ID, internalErrorResponse(req.ID))
		}
	}()

	// CORS preflight bypasses route matching and body decoding entirely.
	if req.Method == http.MethodOptions {
		o.resolve(req.ID, o.preflight(req))
		return
	}

	for _, fn := range o.hooks.onDispatch {
		fn(req.Method, req.Path)
	}

	d := o.table.Dispatch(req)
	switch d.Kind {
	case NoRoute:
		o.resolve(req.ID, d.Fallback)
	case InvalidRequest:
		o.resolve(req.ID, invalidRequestResponse(req.ID, d.Invalid))
	case Matched:
		resp, err := d.Invoke(ctx)
		if err != nil {
			o.resolve(req.ID, o.errh(req.ID, err))
			return
		}
		o.resolve(req.ID, resp)
	}
}

// track registers a pending entry for id. Returns false when the id is
// already in flight.
func (o *Orchestrator) track(id RequestID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.pending[id.s]; exists {
		return false
	}
	o.pending[id.s] = time.Now()
	return true
}

// resolve delivers the response for a pending id exactly once. A second
// resolution for the same id, or a resolution for an id that was never
// tracked, is logged and dropped; the transport has already moved on.
func (o *Orchestrator) resolve(id RequestID, resp WireResponse) {
	o.mu.Lock()
	started, exists := o.pending[id.s]
	if exists {
		delete(o.pending, id.s)
	}
	o.mu.Unlock()

	if !exists {
		o.log.Warn("discarding completion for unknown or already-resolved request", "id", id.String())
		for _, fn := range o.hooks.onDropped {
			fn(id)
		}
		return
	}

	o.emit(resp)
	for _, fn := range o.hooks.onResolve {
		fn(id, resp.Status, time.Since(started))
	}
}

// invalidEnvelope emits the best-effort diagnostic for an envelope that
// never became a RawRequest. No pending entry exists on this path; the
// response goes straight out.
func (o *Orchestrator) invalidEnvelope(eerr *EnvelopeError) {
	id := unknownRequestID
	if eerr.SalvagedID != "" {
		id = RequestID{s: eerr.SalvagedID}
	}
	o.log.Warn("invalid request envelope", "id", id.String(), "reason", eerr.Reason)
	o.emit(WireResponse{
		ID:      id,
		Status:  404,
		Body:    errorBody(eerr.Error()),
		Headers: Headers{{Name: "Content-Type", Value: "application/json"}},
	})
}

// PendingCount reports the number of in-flight requests, for diagnostics.
func (o *Orchestrator) PendingCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// DefaultErrorHandler maps any application error to a 500 with the error
// text. Applications replace it with WithErrorHandler to choose their own
// statuses.
func DefaultErrorHandler(id RequestID, err error) WireResponse {
	return WireResponse{
		ID:      id,
		Status:  500,
		Body:    errorBody(err.Error()),
		Headers: Headers{{Name: "Content-Type", Value: "application/json"}},
	}
}

// DefaultPreflight answers OPTIONS with an empty body and permissive CORS
// headers.
func DefaultPreflight(raw RawRequest) WireResponse {
	return WireResponse{
		ID:     raw.ID,
		Status: 204,
		Headers: Headers{
			{Name: "Access-Control-Allow-Origin", Value: "*"},
			{Name: "Access-Control-Allow-Methods", Value: "GET, POST, PUT, PATCH, DELETE, OPTIONS"},
			{Name: "Access-Control-Allow-Headers", Value: "Content-Type, Authorization"},
		},
	}
}

func invalidRequestResponse(id RequestID, verr *ValidationError) WireResponse {
	return WireResponse{
		ID:      id,
		Status:  400,
		Body:    errorBody(verr.Error()),
		Headers: Headers{{Name: "Content-Type", Value: "application/json"}},
	}
}

func internalErrorResponse(id RequestID) WireResponse {
	return WireResponse{
		ID:      id,
		Status:  500,
		Body:    errorBody("internal error"),
		Headers: Headers{{Name: "Content-Type", Value: "application/json"}},
	}
}

// errorBody renders {"error": msg} with proper JSON escaping.
func errorBody(msg string) string {
	b, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: msg})
	return string(b)
}
