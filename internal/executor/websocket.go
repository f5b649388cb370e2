package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/studiowebux/restengine/internal/assembler"
	"github.com/studiowebux/restengine/internal/transport"
	"github.com/studiowebux/restengine/internal/types"
)

// WebSocket executes generic WebSocket requests: connect, optionally send
// one initial message, then record everything received until the peer
// closes or the receive window elapses.
type WebSocket struct {
	dialer *websocket.Dialer
	window time.Duration
}

// NewWebSocket creates the generic WebSocket executor over the shared dialer.
func NewWebSocket(dialer *websocket.Dialer) *WebSocket {
	return &WebSocket{
		dialer: dialer,
		window: ReceiveWindow,
	}
}

// CanHandle claims the WebSocket request variant.
func (e *WebSocket) CanHandle(req *types.Request) bool {
	return req.Kind == types.KindWebSocket
}

// Execute runs the session and renders the transcript. The socket is closed
// on every exit path; cleanup failures become warning events.
func (e *WebSocket) Execute(ctx context.Context, req *types.Request) *types.Response {
	b := assembler.New()

	var initialMessage string
	var subprotocols []string
	if req.WebSocket != nil {
		initialMessage = req.WebSocket.InitialMessage
		subprotocols = req.WebSocket.Subprotocols
	}

	wsURL := transport.ToWebSocketURL(req.URL)
	headers, warnings := buildHandshakeHeaders(req)

	b.WithSent(&types.SentRequest{
		URL:     wsURL,
		Headers: flattenHeaders(headers),
		Body:    initialMessage,
	})

	dialer := *e.dialer
	dialer.Subprotocols = subprotocols

	slog.Debug("dialing websocket", "url", wsURL, "subprotocols", subprotocols)

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return b.WithError(err).Build()
	}

	b.StopTiming()
	b.WithStatus(types.StatusProtocolSwitch, "101 Switching Protocols")
	if resp != nil {
		b.WithHeaders(resp.Header)
	}
	for _, warning := range warnings {
		b.AddStreamEvent(warning, types.EventWarning)
	}

	e.run(conn, initialMessage, b)
	closeSocket(conn, false, b)

	return b.FinalizeStreaming().Build()
}

// run sends the optional initial message, then receives until close,
// timeout or failure.
func (e *WebSocket) run(conn *websocket.Conn, initialMessage string, b *assembler.Builder) {
	if initialMessage != "" {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(initialMessage)); err != nil {
			b.AddStreamEvent("failed to send initial message: "+err.Error(), types.EventError)
			return
		}
		b.AddStreamEvent(initialMessage, types.EventSent)
	}

	_ = conn.SetReadDeadline(time.Now().Add(e.window))
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			recordReadTermination(err, e.window, b)
			return
		}
		b.AddStreamEvent(string(message), types.EventMessage)
	}
}
