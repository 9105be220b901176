package relay

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Bridge is a reference transport collaborator: an http.Handler that turns
// each physical request into a wire envelope, feeds it to the orchestrator,
// and correlates the emitted response back to the waiting connection by
// request id. Timeout policy is the request context's; the core never
// times out on its own, and a resolution arriving after the client gave up
// is dropped here.
type Bridge struct {
	orch *Orchestrator

	mu      sync.Mutex
	waiters map[string]chan WireResponse
}

// NewBridge assembles a bridge and its orchestrator around a route table.
// Options are passed through to the orchestrator.
func NewBridge(table *Table, opts ...Option) *Bridge {
	b := &Bridge{waiters: make(map[string]chan WireResponse)}
	b.orch = NewOrchestrator(table, b.deliver, opts...)
	return b
}

// Orchestrator exposes the underlying orchestrator, mainly for diagnostics.
func (b *Bridge) Orchestrator() *Orchestrator { return b.orch }

// ServeHTTP implements http.Handler. Each request gets a fresh uuid as its
// RequestID and one goroutine driving the orchestrator intake.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	env, err := json.Marshal(requestEnvelope{
		ID:      id,
		Method:  r.Method,
		URL:     r.URL.String(),
		Body:    string(body),
		Headers: flattenHeader(r.Header),
	})
	if err != nil {
		http.Error(w, "encode envelope: "+err.Error(), http.StatusInternalServerError)
		return
	}

	ch := make(chan WireResponse, 1)
	b.mu.Lock()
	b.waiters[id] = ch
	b.mu.Unlock()

	go b.orch.Receive(r.Context(), env)

	select {
	case resp := <-ch:
		for _, h := range resp.Headers {
			w.Header().Add(h.Name, h.Value)
		}
		w.WriteHeader(resp.Status)
		_, _ = io.WriteString(w, resp.Body)
	case <-r.Context().Done():
		b.forget(id)
		w.WriteHeader(http.StatusGatewayTimeout)
	}
}

// deliver is the orchestrator's emission callback. A response whose waiter
// already left (client timeout or disconnect) is logged and dropped.
func (b *Bridge) deliver(resp WireResponse) {
	id := resp.ID.String()
	b.mu.Lock()
	ch, ok := b.waiters[id]
	delete(b.waiters, id)
	b.mu.Unlock()

	if !ok {
		b.orch.log.Warn("dropping response, no waiting connection", "id", id)
		return
	}
	ch <- resp
}

// forget abandons the waiter for id after the client gave up.
func (b *Bridge) forget(id string) {
	b.mu.Lock()
	delete(b.waiters, id)
	b.mu.Unlock()
}

// flattenHeader converts the http.Header map to the ordered wire list.
// Names are sorted so envelope bytes are deterministic for a given request.
func flattenHeader(h http.Header) []wireHeader {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []wireHeader
	for _, name := range names {
		for _, v := range h[name] {
			out = append(out, wireHeader{Name: name, Value: v})
		}
	}
	return out
}
