package relay

import (
	"log/slog"
	"time"
)

// OnDispatchFunc is called after a request enters the route-table scan.
type OnDispatchFunc func(method, path string)

// OnResolveFunc is called after a response has been emitted for a request,
// with the total time the request spent in flight.
type OnResolveFunc func(id RequestID, status int, duration time.Duration)

// OnDroppedFunc is called when a completion arrives for an id with no
// pending entry and is discarded.
type OnDroppedFunc func(id RequestID)

// hooks holds all configured hook functions.
type hooks struct {
	onDispatch []OnDispatchFunc
	onResolve  []OnResolveFunc
	onDropped  []OnDroppedFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the diagnostic logger. Defaults to slog.Default().
// Logging is fire-and-forget: a slow or failing sink never blocks a
// response.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = l
	}
}

// WithErrorHandler replaces the application-error mapping. The handler
// decides status and body for every error a route handler returns.
//
// Example:
//
//	relay.WithErrorHandler(func(id relay.RequestID, err error) relay.WireResponse {
//	    var nf *store.NotFoundError
//	    if errors.As(err, &nf) {
//	        return relay.WireResponse{ID: id, Status: 404, Body: `{"error":"no such record"}`}
//	    }
//	    return relay.DefaultErrorHandler(id, err)
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *Orchestrator) {
		o.errh = h
	}
}

// WithPreflight replaces the OPTIONS preflight responder.
func WithPreflight(h PreflightHandler) Option {
	return func(o *Orchestrator) {
		o.preflight = h
	}
}

// WithOnDispatch adds a hook called as a request enters the table scan.
// Multiple hooks are called in order.
//
// Example:
//
//	relay.WithOnDispatch(func(method, path string) {
//	    metrics.Incr("relay.dispatch", "method:"+method)
//	})
func WithOnDispatch(fn OnDispatchFunc) Option {
	return func(o *Orchestrator) {
		o.hooks.onDispatch = append(o.hooks.onDispatch, fn)
	}
}

// WithOnResolve adds a hook called after each emitted response.
// Multiple hooks are called in order.
//
// Example:
//
//	relay.WithOnResolve(func(id relay.RequestID, status int, d time.Duration) {
//	    metrics.Timing("relay.resolve", d)
//	})
func WithOnResolve(fn OnResolveFunc) Option {
	return func(o *Orchestrator) {
		o.hooks.onResolve = append(o.hooks.onResolve, fn)
	}
}

// WithOnDropped adds a hook called when a late or duplicate completion is
// discarded. Multiple hooks are called in order.
func WithOnDropped(fn OnDroppedFunc) Option {
	return func(o *Orchestrator) {
		o.hooks.onDropped = append(o.hooks.onDropped, fn)
	}
}
