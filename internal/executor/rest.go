package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/studiowebux/restengine/internal/assembler"
	"github.com/studiowebux/restengine/internal/transport"
	"github.com/studiowebux/restengine/internal/types"
)

// Rest executes standard HTTP requests (GET, POST, PUT, DELETE, ...).
type Rest struct {
	client *http.Client
}

// NewRest creates the REST executor over the shared pooled client.
func NewRest(client *http.Client) *Rest {
	return &Rest{client: client}
}

// CanHandle claims the REST request variant.
func (e *Rest) CanHandle(req *types.Request) bool {
	return req.Kind == types.KindRest
}

// Execute performs the HTTP exchange. Transport failures never escape as
// errors; they become a status-0 Response with the failure detail as body.
func (e *Rest) Execute(ctx context.Context, req *types.Request) *types.Response {
	b := assembler.New()

	opts := req.Rest
	if opts == nil {
		return b.WithError(fmt.Errorf("rest request has no rest options")).Build()
	}

	targetURL, err := buildRequestURL(req.URL, opts)
	if err != nil {
		return b.WithError(err).Build()
	}

	headers := buildHeaders(req)

	var bodyReader io.Reader
	sentBody := opts.Body
	if opts.BodyKind == types.BodyFormData {
		payload, contentType, err := buildMultipartBody(opts)
		if err != nil {
			return b.WithError(err).Build()
		}
		headers.Set("Content-Type", contentType)
		bodyReader = payload
		sentBody = describeFormData(opts)
	} else if opts.Body != "" {
		if headers.Get("Content-Type") == "" {
			headers.Set("Content-Type", contentTypeForBodyKind(opts.BodyKind))
		}
		bodyReader = strings.NewReader(opts.Body)
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	// Capture the as-transmitted echo before sending.
	b.WithSent(&types.SentRequest{
		Method:  method,
		URL:     targetURL,
		Headers: flattenHeaders(headers),
		Params:  transport.EnabledEntries(opts.Params, opts.DisabledParams),
		Body:    sentBody,
	})

	httpReq, err := http.NewRequestWithContext(ctx, method, targetURL, bodyReader)
	if err != nil {
		return b.WithError(fmt.Errorf("failed to create request: %w", err)).Build()
	}
	httpReq.Header = headers

	slog.Debug("executing rest request", "method", method, "url", targetURL)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return b.WithError(err).Build()
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return b.WithError(fmt.Errorf("failed to read response body: %w", err)).Build()
	}
	b.StopTiming()

	return b.
		WithStatus(resp.StatusCode, resp.Status).
		WithHeaders(resp.Header).
		WithBodyFromContent(string(bodyBytes)).
		Build()
}

// buildRequestURL appends the enabled query params, URL-encoded, to the
// target URL. Disabled params never reach the wire.
func buildRequestURL(rawURL string, opts *types.RestOptions) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	params := transport.EnabledEntries(opts.Params, opts.DisabledParams)
	if len(params) > 0 {
		query := u.Query()
		for key, value := range params {
			query.Set(key, value)
		}
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// buildMultipartBody assembles a multipart payload from the enabled text
// fields and enabled file attachments, streaming each file from disk.
func buildMultipartBody(opts *types.RestOptions) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, field := range opts.FormFields {
		if !field.Enabled {
			continue
		}
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", field.Name, err)
		}
	}

	for _, file := range opts.FormFiles {
		if !file.Enabled {
			continue
		}
		if err := writeFormFile(writer, file); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// writeFormFile streams one attachment from disk into the multipart writer,
// using the explicit content type when provided and inferring it otherwise.
func writeFormFile(writer *multipart.Writer, file types.FormFile) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open attachment %s: %w", file.Path, err)
	}
	defer f.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(file.Path))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`,
		file.Name, filepath.Base(file.Path)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create form part %s: %w", file.Name, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read attachment %s: %w", file.Path, err)
	}
	return nil
}

// describeFormData summarizes a multipart body for the SentRequest echo,
// which records text, not raw multipart bytes.
func describeFormData(opts *types.RestOptions) string {
	var lines []string
	for _, field := range opts.FormFields {
		if field.Enabled {
			lines = append(lines, fmt.Sprintf("field %s=%s", field.Name, field.Value))
		}
	}
	for _, file := range opts.FormFiles {
		if file.Enabled {
			lines = append(lines, fmt.Sprintf("file %s=%s", file.Name, file.Path))
		}
	}
	return strings.Join(lines, "\n")
}

// contentTypeForBodyKind maps the declared body kind to its content type.
func contentTypeForBodyKind(kind types.BodyKind) string {
	switch kind {
	case types.BodyJSON:
		return "application/json"
	case types.BodyXML:
		return "application/xml"
	case types.BodyHTML:
		return "text/html"
	case types.BodyJS:
		return "application/javascript"
	default:
		return "text/plain"
	}
}
