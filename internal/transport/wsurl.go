package transport

import "strings"

// ToWebSocketURL converts an http(s) URL to its ws(s) equivalent.
// URLs already using a ws scheme pass through unchanged.
func ToWebSocketURL(rawURL string) string {
	switch {
	case strings.HasPrefix(rawURL, "https://"):
		return "wss://" + strings.TrimPrefix(rawURL, "https://")
	case strings.HasPrefix(rawURL, "http://"):
		return "ws://" + strings.TrimPrefix(rawURL, "http://")
	default:
		return rawURL
	}
}
