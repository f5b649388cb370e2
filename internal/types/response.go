package types

import "time"

const (
	// StatusTransportError is the sentinel status meaning the transport
	// failed before any real protocol status could be obtained.
	StatusTransportError = 0

	// StatusProtocolSwitch marks an established WebSocket connection.
	// It signals protocol establishment, not an HTTP exchange.
	StatusProtocolSwitch = 101
)

// StreamEvent is one timestamped, typed unit of streaming transcript output.
// Events are appended strictly in receipt order and never reordered.
type StreamEvent struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Type      string    `json:"type" yaml:"type"`
	Data      string    `json:"data" yaml:"data"`
}

// Stream event type tags used across the executors.
const (
	EventSent     = "sent"
	EventReceived = "received"
	EventData     = "data"
	EventMessage  = "message"
	EventComplete = "complete"
	EventError    = "error"
	EventClose    = "close"
	EventTimeout  = "timeout"
	EventWarning  = "warning"
)

// Response unifies request/response and streaming outcomes. For streaming
// executions Streaming is true, Events holds the transcript in capture order
// and Body holds its rendered form. Status 0 means transport-level failure.
type Response struct {
	Status     int               `json:"status" yaml:"status"`
	StatusText string            `json:"statusText" yaml:"statusText"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       string            `json:"body,omitempty" yaml:"body,omitempty"`
	Size       int               `json:"size" yaml:"size"`
	Duration   int64             `json:"duration" yaml:"duration"` // milliseconds
	Timestamp  string            `json:"timestamp" yaml:"timestamp"`
	Streaming  bool              `json:"streaming,omitempty" yaml:"streaming,omitempty"`
	Events     []StreamEvent     `json:"events,omitempty" yaml:"events,omitempty"`
	Sent       *SentRequest      `json:"sent,omitempty" yaml:"sent,omitempty"`
}
