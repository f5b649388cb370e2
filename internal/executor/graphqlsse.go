package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/studiowebux/restengine/internal/assembler"
	"github.com/studiowebux/restengine/internal/transport"
	"github.com/studiowebux/restengine/internal/types"
)

// GraphQLSSE executes GraphQL subscriptions over Server-Sent Events: one
// POST whose response body is read as an event stream while it arrives.
type GraphQLSSE struct {
	client *http.Client
	window time.Duration
}

// NewGraphQLSSE creates the SSE subscription executor. The client must not
// carry a client-level timeout; the receive window bounds the stream.
func NewGraphQLSSE(client *http.Client) *GraphQLSSE {
	return &GraphQLSSE{
		client: client,
		window: SubscriptionWindow,
	}
}

// CanHandle claims GraphQL subscriptions explicitly routed to SSE.
func (e *GraphQLSSE) CanHandle(req *types.Request) bool {
	return req.Kind == types.KindGraphQL && req.GraphQL != nil &&
		req.GraphQL.Operation == types.OperationSubscription &&
		req.GraphQL.Transport == types.TransportSSE
}

// Execute posts the subscription and streams the response body line by
// line under the receive window. Non-2xx responses skip the streaming read
// but still capture status, headers and timing.
func (e *GraphQLSSE) Execute(ctx context.Context, req *types.Request) *types.Response {
	b := assembler.New()

	payload, err := buildGraphQLPayload(req.GraphQL)
	if err != nil {
		return b.WithError(err).Build()
	}

	headers := buildHeaders(req)
	headers.Set("Accept", "text/event-stream")
	if headers.Get("Content-Type") == "" {
		headers.Set("Content-Type", "application/json")
	}

	b.WithSent(&types.SentRequest{
		Method:  http.MethodPost,
		URL:     req.URL,
		Headers: flattenHeaders(headers),
		Body:    string(payload),
	})

	streamCtx, cancel := context.WithTimeout(ctx, e.window)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(streamCtx, http.MethodPost, req.URL, strings.NewReader(string(payload)))
	if err != nil {
		return b.WithError(fmt.Errorf("failed to create request: %w", err)).Build()
	}
	httpReq.Header = headers

	slog.Debug("executing graphql sse subscription", "url", req.URL)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return b.WithError(err).Build()
	}
	defer resp.Body.Close()

	// Headers have arrived; timing covers stream establishment, the events
	// that follow carry their own timestamps.
	b.StopTiming()
	b.WithStatus(resp.StatusCode, resp.Status)
	b.WithHeaders(resp.Header)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return b.WithBodyFromContent(string(body)).Build()
	}

	e.readStream(streamCtx, resp.Body, b)

	return b.FinalizeStreaming().Build()
}

// readStream frames the body into StreamEvents as lines arrive, without
// buffering the whole response. Window expiry is a normal termination.
func (e *GraphQLSSE) readStream(ctx context.Context, body io.Reader, b *assembler.Builder) {
	parser := transport.NewSSEParser()
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if ev, ok := parser.Feed(line); ok {
			b.AddStreamEvent(ev.Data, ev.Type)
		}
	}

	// However the stream ended, flush pending data first so none is lost.
	if ev, ok := parser.Flush(); ok {
		b.AddStreamEvent(ev.Data, ev.Type)
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			b.AddStreamEvent(fmt.Sprintf("receive window elapsed after %s", e.window), types.EventTimeout)
			return
		}
		b.AddStreamEvent(err.Error(), types.EventError)
	}
}
