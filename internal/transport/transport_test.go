package transport

import (
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/studiowebux/restengine/internal/types"
)

func TestApplyAuth_Basic(t *testing.T) {
	h := http.Header{}
	set := ApplyAuth(h, types.Auth{Mode: types.AuthBasic, Username: "user", Password: "pass"})

	if !set {
		t.Error("Expected auth header to be set")
	}
	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("user:pass"))
	if h.Get("Authorization") != expected {
		t.Errorf("Expected %q, got: %q", expected, h.Get("Authorization"))
	}
}

func TestApplyAuth_Bearer(t *testing.T) {
	h := http.Header{}
	set := ApplyAuth(h, types.Auth{Mode: types.AuthBearer, Token: "token123"})

	if !set {
		t.Error("Expected auth header to be set")
	}
	if h.Get("Authorization") != "Bearer token123" {
		t.Errorf("Expected 'Bearer token123', got: %q", h.Get("Authorization"))
	}
}

func TestApplyAuth_None(t *testing.T) {
	h := http.Header{}
	if ApplyAuth(h, types.Auth{Mode: types.AuthNone}) {
		t.Error("Expected no auth header for mode none")
	}
	if h.Get("Authorization") != "" {
		t.Errorf("Expected empty Authorization, got: %q", h.Get("Authorization"))
	}
}

func TestEnabledEntries_FiltersDisabled(t *testing.T) {
	entries := EnabledEntries(
		map[string]string{"Keep": "1", "Drop": "2"},
		map[string]bool{"Drop": true},
	)

	if _, ok := entries["Drop"]; ok {
		t.Error("Expected disabled entry to be filtered out")
	}
	if entries["Keep"] != "1" {
		t.Errorf("Expected enabled entry kept, got: %v", entries)
	}
}

func TestEnabledEntries_NilDisabledSet(t *testing.T) {
	entries := EnabledEntries(map[string]string{"A": "1"}, nil)
	if len(entries) != 1 {
		t.Errorf("Expected all entries with nil disabled set, got: %v", entries)
	}
}

func TestToWebSocketURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://example.com/graphql", "ws://example.com/graphql"},
		{"https://example.com/graphql", "wss://example.com/graphql"},
		{"ws://example.com/socket", "ws://example.com/socket"},
		{"wss://example.com/socket", "wss://example.com/socket"},
	}

	for _, tt := range tests {
		if got := ToWebSocketURL(tt.in); got != tt.want {
			t.Errorf("ToWebSocketURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
