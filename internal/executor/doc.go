/*
Package executor performs the network exchange for fully-resolved requests
across five protocols, returning a uniform Response regardless of protocol.

# Overview

Five executors share one (CanHandle, Execute) contract:

  - Rest: standard HTTP requests, including multipart form-data
  - GraphQL: query and mutation operations over a single POST
  - GraphQLWS: subscriptions over the graphql-transport-ws protocol
  - GraphQLSSE: subscriptions over Server-Sent Events
  - WebSocket: generic WebSocket sessions

The Dispatcher routes each request to the single executor whose predicate
matches; the predicates partition the request variant space.

# Result Contract

Execute always returns a *types.Response and never an error:

  - transport failures become status 0 with the failure detail as body
  - protocol anomalies (missing connection_ack, unexpected frames) become
    named failure states in the status text
  - timeouts are normal stream terminations recorded as "timeout" events
  - restricted handshake headers and cleanup failures become "warning"
    events and never replace the primary result

Streaming executions collect an ordered StreamEvent transcript and render
it as the response body, one line per event in capture order.

# Timeouts

Fixed wall-clock windows bound all receiving: 5s for the connection_ack
wait, 30s for the generic WebSocket receive loop, 60s for subscription and
SSE streams. There is no retry and no idle reset.

# Concurrency

Executors hold no per-call state and are safe for concurrent use. The
pooled HTTP clients and the WebSocket dialer are process-scoped and
injected at construction; sockets opened for a call are exclusively owned
by that call and released on every exit path.
*/
package executor
