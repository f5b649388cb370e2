package executor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/studiowebux/restengine/internal/types"
)

func restRequest(url string) *types.Request {
	return &types.Request{
		Kind: types.KindRest,
		URL:  url,
		Rest: &types.RestOptions{Method: http.MethodGet},
	}
}

func TestRest_SuccessfulRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	e := NewRest(server.Client())
	resp := e.Execute(context.Background(), restRequest(server.URL))

	if resp.Status != http.StatusOK {
		t.Errorf("Expected status 200, got: %d", resp.Status)
	}
	if resp.Body != `{"ok":true}` {
		t.Errorf("Expected body, got: %s", resp.Body)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("Expected content type captured, got: %v", resp.Headers)
	}
	if resp.Size != len(resp.Body) {
		t.Errorf("Expected size %d, got: %d", len(resp.Body), resp.Size)
	}
	if resp.Streaming {
		t.Error("Expected non-streaming response")
	}
}

func TestRest_DisabledHeadersAndParamsNotSent(t *testing.T) {
	var gotHeaders http.Header
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotQuery = r.URL.RawQuery
	}))
	defer server.Close()

	req := &types.Request{
		Kind: types.KindRest,
		URL:  server.URL,
		Headers: map[string]string{
			"X-Active":   "yes",
			"X-Disabled": "no",
		},
		DisabledHeaders: map[string]bool{"X-Disabled": true},
		Rest: &types.RestOptions{
			Method:         http.MethodGet,
			Params:         map[string]string{"keep": "1", "drop": "2"},
			DisabledParams: map[string]bool{"drop": true},
		},
	}

	e := NewRest(server.Client())
	resp := e.Execute(context.Background(), req)

	if gotHeaders.Get("X-Active") != "yes" {
		t.Errorf("Expected enabled header sent, got: %v", gotHeaders)
	}
	if gotHeaders.Get("X-Disabled") != "" {
		t.Error("Disabled header must not be transmitted")
	}
	if !strings.Contains(gotQuery, "keep=1") {
		t.Errorf("Expected enabled param in query, got: %s", gotQuery)
	}
	if strings.Contains(gotQuery, "drop") {
		t.Errorf("Disabled param must not reach the wire, got: %s", gotQuery)
	}

	// The echo reflects the filtered reality.
	if resp.Sent == nil {
		t.Fatal("Expected sent request echo")
	}
	if _, ok := resp.Sent.Headers["X-Disabled"]; ok {
		t.Error("SentRequest must not contain disabled headers")
	}
	if _, ok := resp.Sent.Params["drop"]; ok {
		t.Error("SentRequest must not contain disabled params")
	}
	if !strings.Contains(resp.Sent.URL, "keep=1") {
		t.Errorf("Expected final URL in echo, got: %s", resp.Sent.URL)
	}
}

func TestRest_BearerAuthSkipsCustomAuthorization(t *testing.T) {
	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Values("Authorization")
	}))
	defer server.Close()

	req := restRequest(server.URL)
	req.Auth = types.Auth{Mode: types.AuthBearer, Token: "token123"}
	req.Headers = map[string]string{"Authorization": "Basic stale"}

	NewRest(server.Client()).Execute(context.Background(), req)

	if len(gotAuth) != 1 {
		t.Fatalf("Expected exactly one Authorization header, got: %v", gotAuth)
	}
	if gotAuth[0] != "Bearer token123" {
		t.Errorf("Expected auth mode to win, got: %s", gotAuth[0])
	}
}

func TestRest_DefaultUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	NewRest(server.Client()).Execute(context.Background(), restRequest(server.URL))
	if gotUA != defaultUserAgent {
		t.Errorf("Expected default User-Agent %q, got: %q", defaultUserAgent, gotUA)
	}

	req := restRequest(server.URL)
	req.DisabledHeaders = map[string]bool{"User-Agent": true}
	resp := NewRest(server.Client()).Execute(context.Background(), req)
	if gotUA != "" {
		t.Errorf("Expected no User-Agent when disabled, got: %q", gotUA)
	}
	if _, ok := resp.Sent.Headers["User-Agent"]; ok {
		t.Error("SentRequest must not echo the suppressed User-Agent")
	}
}

func TestRest_ContentTypeFromBodyKind(t *testing.T) {
	var gotContentType string
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	req := &types.Request{
		Kind: types.KindRest,
		URL:  server.URL,
		Rest: &types.RestOptions{
			Method:   http.MethodPost,
			Body:     `{"a":1}`,
			BodyKind: types.BodyJSON,
		},
	}

	NewRest(server.Client()).Execute(context.Background(), req)

	if gotContentType != "application/json" {
		t.Errorf("Expected application/json, got: %s", gotContentType)
	}
	if gotBody != `{"a":1}` {
		t.Errorf("Expected body transmitted, got: %s", gotBody)
	}
}

func TestRest_ExplicitContentTypeOverride(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
	}))
	defer server.Close()

	req := &types.Request{
		Kind:    types.KindRest,
		URL:     server.URL,
		Headers: map[string]string{"Content-Type": "application/vnd.custom+json"},
		Rest: &types.RestOptions{
			Method:   http.MethodPost,
			Body:     `{}`,
			BodyKind: types.BodyJSON,
		},
	}

	NewRest(server.Client()).Execute(context.Background(), req)

	if gotContentType != "application/vnd.custom+json" {
		t.Errorf("Expected explicit override to win, got: %s", gotContentType)
	}
}

func TestRest_MultipartFormData(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(tmpFile, []byte("file contents"), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	var gotField, gotFile, gotFileType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Failed to parse multipart form: %v", err)
			return
		}
		gotField = r.FormValue("comment")
		file, header, err := r.FormFile("attachment")
		if err != nil {
			t.Errorf("Failed to read form file: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotFile = string(data)
		gotFileType = header.Header.Get("Content-Type")
	}))
	defer server.Close()

	req := &types.Request{
		Kind: types.KindRest,
		URL:  server.URL,
		Rest: &types.RestOptions{
			Method:   http.MethodPost,
			BodyKind: types.BodyFormData,
			FormFields: []types.FormField{
				{Name: "comment", Value: "hello", Enabled: true},
				{Name: "hidden", Value: "skipped", Enabled: false},
			},
			FormFiles: []types.FormFile{
				{Name: "attachment", Path: tmpFile, Enabled: true},
			},
		},
	}

	resp := NewRest(server.Client()).Execute(context.Background(), req)

	if resp.Status != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d (%s)", resp.Status, resp.Body)
	}
	if gotField != "hello" {
		t.Errorf("Expected form field 'hello', got: %q", gotField)
	}
	if gotFile != "file contents" {
		t.Errorf("Expected streamed file contents, got: %q", gotFile)
	}
	if gotFileType != "text/plain; charset=utf-8" {
		t.Errorf("Expected inferred text/plain content type, got: %q", gotFileType)
	}
}

func TestRest_TransportFailure(t *testing.T) {
	e := NewRest(&http.Client{})
	resp := e.Execute(context.Background(), restRequest("http://127.0.0.1:1"))

	if resp == nil {
		t.Fatal("Expected a response, got nil")
	}
	if resp.Status != types.StatusTransportError {
		t.Errorf("Expected sentinel status 0, got: %d", resp.Status)
	}
	if resp.Body == "" {
		t.Error("Expected failure detail in body")
	}
	if resp.Duration < 0 {
		t.Errorf("Expected non-negative duration, got: %d", resp.Duration)
	}
}
