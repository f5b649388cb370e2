package transport

import "strings"

// SSEEvent is one framed Server-Sent-Events message.
type SSEEvent struct {
	Type string
	Data string
}

// SSEParser frames SSE lines into events. Feed it one line at a time
// (line terminators already stripped); a blank line flushes the pending
// event. The zero value is not ready to use, call NewSSEParser.
type SSEParser struct {
	eventType string
	data      []string
}

// NewSSEParser returns a parser with the default "message" event type.
func NewSSEParser() *SSEParser {
	return &SSEParser{eventType: "message"}
}

// Feed consumes one line. It returns a completed event when the line is an
// event boundary (blank line) and data or an event type was pending.
func (p *SSEParser) Feed(line string) (*SSEEvent, bool) {
	switch {
	case line == "":
		return p.Flush()
	case strings.HasPrefix(line, ":"):
		// Comment line, ignored.
		return nil, false
	case strings.HasPrefix(line, "event:"):
		p.eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		return nil, false
	case strings.HasPrefix(line, "data:"):
		p.data = append(p.data, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		return nil, false
	default:
		// Unknown field, ignored per the SSE framing rules.
		return nil, false
	}
}

// Flush emits the pending event, if any, and resets the parser to the
// default "message" type. Called on blank lines and at end of stream so
// data without a trailing boundary is not lost.
func (p *SSEParser) Flush() (*SSEEvent, bool) {
	if len(p.data) == 0 && p.eventType == "message" {
		return nil, false
	}
	ev := &SSEEvent{
		Type: p.eventType,
		Data: strings.Join(p.data, "\n"),
	}
	p.eventType = "message"
	p.data = nil
	return ev, true
}
