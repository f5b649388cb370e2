package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/studiowebux/restengine/internal/assembler"
	"github.com/studiowebux/restengine/internal/types"
)

// graphQLPayload is the JSON body shared by all GraphQL executors.
// Variables carries the raw JSON of the variables object and is omitted
// when the request supplied none.
type graphQLPayload struct {
	Query         string          `json:"query"`
	Variables     json.RawMessage `json:"variables,omitempty"`
	OperationName string          `json:"operationName,omitempty"`
}

// buildGraphQLPayload validates the variables text and marshals the
// {query, variables, operationName} body.
func buildGraphQLPayload(opts *types.GraphQLOptions) ([]byte, error) {
	payload := graphQLPayload{
		Query:         opts.Query,
		OperationName: opts.OperationName,
	}
	if vars := strings.TrimSpace(opts.Variables); vars != "" {
		if !json.Valid([]byte(vars)) {
			return nil, fmt.Errorf("graphql variables are not valid JSON")
		}
		payload.Variables = json.RawMessage(vars)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode graphql payload: %w", err)
	}
	return body, nil
}

// GraphQL executes query and mutation operations over a single POST.
type GraphQL struct {
	client *http.Client
}

// NewGraphQL creates the GraphQL query/mutation executor over the shared
// pooled client.
func NewGraphQL(client *http.Client) *GraphQL {
	return &GraphQL{client: client}
}

// CanHandle claims GraphQL requests whose operation is a query or mutation.
func (e *GraphQL) CanHandle(req *types.Request) bool {
	return req.Kind == types.KindGraphQL && req.GraphQL != nil &&
		(req.GraphQL.Operation == types.OperationQuery || req.GraphQL.Operation == types.OperationMutation)
}

// Execute posts the {query, variables, operationName} body and assembles a
// non-streaming Response. Same fail-soft contract as the REST executor.
func (e *GraphQL) Execute(ctx context.Context, req *types.Request) *types.Response {
	b := assembler.New()

	payload, err := buildGraphQLPayload(req.GraphQL)
	if err != nil {
		return b.WithError(err).Build()
	}

	headers := buildHeaders(req)
	if headers.Get("Content-Type") == "" {
		headers.Set("Content-Type", "application/json")
	}

	b.WithSent(&types.SentRequest{
		Method:  http.MethodPost,
		URL:     req.URL,
		Headers: flattenHeaders(headers),
		Body:    string(payload),
	})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, strings.NewReader(string(payload)))
	if err != nil {
		return b.WithError(fmt.Errorf("failed to create request: %w", err)).Build()
	}
	httpReq.Header = headers

	slog.Debug("executing graphql request", "url", req.URL, "operation", req.GraphQL.Operation)

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
