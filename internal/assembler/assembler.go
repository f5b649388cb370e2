// Package assembler builds the uniform Response for every executor. A
// Builder starts its timer on creation, accumulates status, headers, body
// or a streaming transcript, and never discards partial results on failure.
package assembler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/studiowebux/restengine/internal/types"
)

// transcriptTimeLayout renders event timestamps as hh:mm:ss.fff.
const transcriptTimeLayout = "15:04:05.000"

// Builder accumulates the outcome of one execution. It is created fresh per
// call and is not safe for concurrent use; executors own it exclusively.
type Builder struct {
	start   time.Time
	stopped bool
	resp    types.Response
}

// New creates a Builder and starts the timer.
func New() *Builder {
	now := time.Now()
	return &Builder{
		start: now,
		resp: types.Response{
			Timestamp: now.Format(time.RFC3339),
		},
	}
}

// StopTiming records the elapsed time once. Later calls keep the first value,
// so timing captured at connection open survives a long receive loop.
func (b *Builder) StopTiming() {
	if b.stopped {
		return
	}
	b.stopped = true
	b.resp.Duration = time.Since(b.start).Milliseconds()
}

// WithStatus sets the numeric status and its text.
func (b *Builder) WithStatus(status int, text string) *Builder {
	b.resp.Status = status
	b.resp.StatusText = text
	return b
}

// WithStatusText replaces only the status text, keeping the status code.
// Used for protocol-level anomalies on an already-established connection.
func (b *Builder) WithStatusText(text string) *Builder {
	b.resp.StatusText = text
	return b
}

// WithHeaders captures response headers, joining repeated values.
func (b *Builder) WithHeaders(h http.Header) *Builder {
	headers := make(map[string]string, len(h))
	for key, values := range h {
		headers[key] = strings.Join(values, ", ")
	}
	b.resp.Headers = headers
	return b
}

// WithBodyFromContent sets the body and its byte size for the
// non-streaming case.
func (b *Builder) WithBodyFromContent(body string) *Builder {
	b.resp.Body = body
	b.resp.Size = len(body)
	return b
}

// WithSent attaches the as-transmitted request echo.
func (b *Builder) WithSent(sent *types.SentRequest) *Builder {
	b.resp.Sent = sent
	return b
}

// AddStreamEvent appends one event to the transcript in receipt order.
func (b *Builder) AddStreamEvent(data, eventType string) *Builder {
	b.resp.Events = append(b.resp.Events, types.StreamEvent{
		Timestamp: time.Now(),
		Type:      eventType,
		Data:      data,
	})
	return b
}

// EventCount returns the number of captured stream events.
func (b *Builder) EventCount() int {
	return len(b.resp.Events)
}

// FinalizeStreaming renders the transcript body, one line per event in
// capture order. It is pure given the event list: finalizing twice with no
// new events produces an identical transcript.
func (b *Builder) FinalizeStreaming() *Builder {
	b.resp.Streaming = true
	var sb strings.Builder
	for _, ev := range b.resp.Events {
		sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", ev.Timestamp.Format(transcriptTimeLayout), ev.Type, ev.Data))
	}
	b.resp.Body = sb.String()
	b.resp.Size = len(b.resp.Body)
	return b
}

// WithError converts a transport failure into the sentinel outcome: status 0,
// a short status text and the error detail in the body. Timing and any
// events captured so far are preserved.
func (b *Builder) WithError(err error) *Builder {
	b.StopTiming()
	b.resp.Status = types.StatusTransportError
	b.resp.StatusText = "Request failed"
	b.resp.Body = err.Error()
	b.resp.Size = len(b.resp.Body)
	return b
}

// Build stops the timer if still running and returns the response.
func (b *Builder) Build() *types.Response {
	b.StopTiming()
	resp := b.resp
	return &resp
}
