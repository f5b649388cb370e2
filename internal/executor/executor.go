package executor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/studiowebux/restengine/internal/assembler"
	"github.com/studiowebux/restengine/internal/transport"
	"github.com/studiowebux/restengine/internal/types"
	"github.com/studiowebux/restengine/internal/version"
)

const (
	// AckWaitTimeout bounds the wait for connection_ack after connection_init.
	AckWaitTimeout = 5 * time.Second
	// ReceiveWindow bounds the generic WebSocket receive loop.
	ReceiveWindow = 30 * time.Second
	// SubscriptionWindow bounds GraphQL subscription receive loops (WS and SSE).
	SubscriptionWindow = 60 * time.Second
)

// defaultUserAgent is the identifying header value applied unless the
// caller disabled the User-Agent header.
const defaultUserAgent = "restengine/" + version.Version

// Executor performs the network exchange for one request variant. CanHandle
// predicates partition the variant space: exactly one executor claims any
// given request. Execute always returns a Response, never an error.
type Executor interface {
	CanHandle(req *types.Request) bool
	Execute(ctx context.Context, req *types.Request) *types.Response
}

// Dispatcher routes a request to the single executor whose predicate
// matches, evaluating the executors in registration order.
type Dispatcher struct {
	executors []Executor
}

// NewDispatcher creates a dispatcher over the given executors.
func NewDispatcher(executors ...Executor) *Dispatcher {
	return &Dispatcher{executors: executors}
}

// Execute dispatches the request to the first matching executor. A request
// no executor claims is a configuration defect; it yields a deterministic
// fail-fast Response rather than a panic, so the caller always gets a result.
func (d *Dispatcher) Execute(ctx context.Context, req *types.Request) *types.Response {
	for _, e := range d.executors {
		if e.CanHandle(req) {
			return e.Execute(ctx, req)
		}
	}
	return assembler.New().
		WithStatus(types.StatusTransportError, "no executor for request").
		WithBodyFromContent(fmt.Sprintf("no executor registered for request kind %q", req.Kind)).
		Build()
}

// buildHeaders assembles the outgoing headers for HTTP-based executors:
// the default identifying header unless disabled, then authentication, then
// every enabled custom header. A custom Authorization header is skipped when
// the auth mode already set one, to avoid duplicate or conflicting values.
func buildHeaders(req *types.Request) http.Header {
	h := http.Header{}
	if req.DisabledHeaders["User-Agent"] {
		// Empty value tells net/http to send no User-Agent at all.
		h.Set("User-Agent", "")
	} else {
		h.Set("User-Agent", defaultUserAgent)
	}
	authSet := transport.ApplyAuth(h, req.Auth)
	for key, value := range transport.EnabledEntries(req.Headers, req.DisabledHeaders) {
		if authSet && strings.EqualFold(key, "Authorization") {
			continue
		}
		h.Set(key, value)
	}
	return h
}

// restrictedHandshakeHeaders cannot legally be set on a WebSocket opening
// handshake; the dialer owns them.
var restrictedHandshakeHeaders = map[string]bool{
	"Upgrade":                  true,
	"Connection":               true,
	"Sec-Websocket-Key":        true,
	"Sec-Websocket-Version":    true,
	"Sec-Websocket-Extensions": true,
	"Sec-Websocket-Protocol":   true,
}

// buildHandshakeHeaders assembles headers for a WebSocket handshake. Headers
// the handshake reserves are not applied; they are returned as warnings to
// be surfaced as StreamEvents, not treated as fatal.
func buildHandshakeHeaders(req *types.Request) (http.Header, []string) {
	h := http.Header{}
	if !req.DisabledHeaders["User-Agent"] {
		h.Set("User-Agent", defaultUserAgent)
	}
	authSet := transport.ApplyAuth(h, req.Auth)

	var warnings []string
	for key, value := range transport.EnabledEntries(req.Headers, req.DisabledHeaders) {
		if authSet && strings.EqualFold(key, "Authorization") {
			continue
		}
		if restrictedHandshakeHeaders[http.CanonicalHeaderKey(key)] {
			warnings = append(warnings, fmt.Sprintf("header %q cannot be set on a WebSocket handshake", key))
			continue
		}
		h.Set(key, value)
	}
	return h, warnings
}

// flattenHeaders converts an http.Header into the map form recorded on a
// SentRequest, joining repeated values.
func flattenHeaders(h http.Header) map[string]string {
	m := make(map[string]string, len(h))
	for key, values := range h {
		value := strings.Join(values, ", ")
		if value == "" {
			// Empty means suppressed, not transmitted.
			continue
		}
		m[key] = value
	}
	return m
}
