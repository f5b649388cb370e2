package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"github.com/studiowebux/restengine/internal/assembler"
	"github.com/studiowebux/restengine/internal/transport"
	"github.com/studiowebux/restengine/internal/types"
)

// subscriptionID is the single operation id used on the wire; the engine
// runs one subscription per connection.
const subscriptionID = "1"

// gqlWSMessage is one graphql-transport-ws frame.
type gqlWSMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// GraphQLWS executes GraphQL subscriptions over the graphql-transport-ws
// protocol: connection_init -> connection_ack -> subscribe -> next* ->
// complete. Subscribe is never sent before an ack was received.
type GraphQLWS struct {
	dialer     *websocket.Dialer
	ackTimeout time.Duration
	window     time.Duration
}

// NewGraphQLWS creates the subscription executor over the shared dialer.
func NewGraphQLWS(dialer *websocket.Dialer) *GraphQLWS {
	return &GraphQLWS{
		dialer:     dialer,
		ackTimeout: AckWaitTimeout,
		window:     SubscriptionWindow,
	}
}

// CanHandle claims GraphQL subscriptions not explicitly routed to SSE.
func (e *GraphQLWS) CanHandle(req *types.Request) bool {
	return req.Kind == types.KindGraphQL && req.GraphQL != nil &&
		req.GraphQL.Operation == types.OperationSubscription &&
		req.GraphQL.Transport != types.TransportSSE
}

// Execute opens the socket, runs the subscription session and renders the
// transcript. Cleanup always runs; its failures become warning events and
// never replace the accumulated result.
func (e *GraphQLWS) Execute(ctx context.Context, req *types.Request) *types.Response {
	b := assembler.New()

	payload, err := buildGraphQLPayload(req.GraphQL)
	if err != nil {
		return b.WithError(err).Build()
	}

	wsURL := transport.ToWebSocketURL(req.URL)
	headers, warnings := buildHandshakeHeaders(req)

	b.WithSent(&types.SentRequest{
		URL:     wsURL,
		Headers: flattenHeaders(headers),
	})

	// The shared dialer is read-only; subprotocols go on a per-call copy.
	dialer := *e.dialer
	dialer.Subprotocols = []string{"graphql-transport-ws", "graphql-ws"}

	slog.Debug("dialing graphql subscription", "url", wsURL)

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return b.WithError(err).Build()
	}

	// Timing covers connection establishment; the receive loop that follows
	// is reported through the transcript.
	b.StopTiming()
	b.WithStatus(types.StatusProtocolSwitch, "101 Switching Protocols")
	if resp != nil {
		b.WithHeaders(resp.Header)
	}
	for _, warning := range warnings {
		b.AddStreamEvent(warning, types.EventWarning)
	}

	e.run(conn, payload, b)
	closeSocket(conn, true, b)

	return b.FinalizeStreaming().Build()
}

// run drives the protocol session. Ack-before-subscribe and
// subscribe-before-receive orderings are hard invariants here.
func (e *GraphQLWS) run(conn *websocket.Conn, payload []byte, b *assembler.Builder) {
	initFrame := `{"type":"connection_init"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(initFrame)); err != nil {
		b.WithStatusText("graphql-transport-ws: failed to send connection_init")
		b.AddStreamEvent(err.Error(), types.EventError)
		return
	}
	b.AddStreamEvent(initFrame, types.EventSent)

	if !e.awaitAck(conn, b) {
		return
	}

	subscribe, err := json.Marshal(gqlWSMessage{ID: subscriptionID, Type: "subscribe", Payload: payload})
	if err != nil {
		b.WithStatusText("graphql-transport-ws: failed to encode subscribe")
		b.AddStreamEvent(err.Error(), types.EventError)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, subscribe); err != nil {
		b.WithStatusText("graphql-transport-ws: failed to send subscribe")
		b.AddStreamEvent(err.Error(), types.EventError)
		return
	}
	b.AddStreamEvent(string(subscribe), types.EventSent)

	e.receive(conn, b)
}

// awaitAck waits up to the ack timeout for a connection_ack frame. Any
// other frame type, or silence, aborts the session before subscribe.
func (e *GraphQLWS) awaitAck(conn *websocket.Conn, b *assembler.Builder) bool {
	_ = conn.SetReadDeadline(time.Now().Add(e.ackTimeout))
	_, message, err := conn.ReadMessage()
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			b.WithStatusText(fmt.Sprintf("graphql-transport-ws: connection_ack not received within %s", e.ackTimeout))
		} else {
			b.WithStatusText("graphql-transport-ws: connection closed before connection_ack")
			b.AddStreamEvent(err.Error(), types.EventError)
		}
		return false
	}

	b.AddStreamEvent(string(message), types.EventReceived)

	var frame gqlWSMessage
	if err := json.Unmarshal(message, &frame); err != nil || frame.Type != "connection_ack" {
		b.WithStatusText(fmt.Sprintf("graphql-transport-ws: expected connection_ack, got %q", frame.Type))
		return false
	}
	return true
}

// receive consumes subscription frames until complete, close, error or the
// overall window elapses. Timeout expiry is a normal termination.
func (e *GraphQLWS) receive(conn *websocket.Conn, b *assembler.Builder) {
	_ = conn.SetReadDeadline(time.Now().Add(e.window))
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			recordReadTermination(err, e.window, b)
			return
		}

		var frame gqlWSMessage
		if err := json.Unmarshal(message, &frame); err != nil {
			b.AddStreamEvent(string(message), types.EventReceived)
			continue
		}

		switch frame.Type {
		case "next":
			b.AddStreamEvent(prettyJSON(frame.Payload), types.EventData)
		case "complete":
			b.AddStreamEvent(string(frame.Payload), types.EventComplete)
			return
		case "error":
			// The server may still send complete after an operation error.
			b.AddStreamEvent(string(frame.Payload), types.EventError)
		default:
			b.AddStreamEvent(string(message), frame.Type)
		}
	}
}

// recordReadTermination classifies the end of a receive loop: peer close,
// window expiry, or a receive failure. None of them erase prior events.
func recordReadTermination(err error, window time.Duration, b *assembler.Builder) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		b.AddStreamEvent(fmt.Sprintf("%d %s", closeErr.Code, closeErr.Text), types.EventClose)
		return
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		b.AddStreamEvent(fmt.Sprintf("receive window elapsed after %s", window), types.EventTimeout)
		return
	}
	b.AddStreamEvent(err.Error(), types.EventError)
}

// closeSocket is the guaranteed cleanup path shared by the WebSocket-based
// executors. When sendComplete is set it first signals operation completion.
// Failures here are downgraded to warnings; the primary result stands.
func closeSocket(conn *websocket.Conn, sendComplete bool, b *assembler.Builder) {
	if sendComplete {
		complete := fmt.Sprintf(`{"id":%q,"type":"complete"}`, subscriptionID)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(complete)); err != nil {
			b.AddStreamEvent("failed to send complete: "+err.Error(), types.EventWarning)
		}
	}
	deadline := time.Now().Add(time.Second)
	if err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline); err != nil {
		b.AddStreamEvent("failed to send close: "+err.Error(), types.EventWarning)
	}
	if err := conn.Close(); err != nil {
		b.AddStreamEvent("failed to close socket: "+err.Error(), types.EventWarning)
	}
}

// prettyJSON indents a JSON payload for the transcript, falling back to the
// raw text when it does not parse.
func prettyJSON(raw json.RawMessage) string {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}
