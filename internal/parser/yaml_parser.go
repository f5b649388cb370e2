// Package parser loads request description files. Files hold one request
// or an array of requests in YAML, JSON or JSONC form; every request is
// already fully resolved (no {{variable}} placeholders reach the engine).
package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/studiowebux/restengine/internal/types"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Parse reads a request file, dispatching on extension: .json and .jsonc
// are parsed as JSON (comments stripped for .jsonc), everything else as
// YAML, which also accepts plain JSON.
func Parse(filePath string) ([]types.Request, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".jsonc":
		return parseJSON(jsonc.ToJSON(data))
	case ".json":
		return parseJSON(data)
	default:
		return parseYAML(data)
	}
}

// parseJSON accepts an array of requests or a single request document.
func parseJSON(data []byte) ([]types.Request, error) {
	var requests []types.Request
	if err := json.Unmarshal(data, &requests); err == nil {
		return normalize(requests)
	}

	var request types.Request
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return normalize([]types.Request{request})
}

// parseYAML accepts an array of requests or a single request document.
func parseYAML(data []byte) ([]types.Request, error) {
	var requests []types.Request
	if err := yaml.Unmarshal(data, &requests); err == nil && len(requests) > 0 {
		return normalize(requests)
	}

	var request types.Request
	if err := yaml.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return normalize([]types.Request{request})
}

// normalize fills defaults and validates that each request carries the
// options block its kind requires.
func normalize(requests []types.Request) ([]types.Request, error) {
	for i := range requests {
		req := &requests[i]
		if req.Kind == "" {
			req.Kind = inferKind(req)
		}
		if req.URL == "" {
			return nil, fmt.Errorf("request %d has no url", i)
		}
		switch req.Kind {
		case types.KindRest:
			if req.Rest == nil {
				req.Rest = &types.RestOptions{}
			}
		case types.KindGraphQL:
			if req.GraphQL == nil {
				return nil, fmt.Errorf("request %d is graphql but has no graphql block", i)
			}
			if req.GraphQL.Operation == "" {
				req.GraphQL.Operation = types.OperationQuery
			}
		case types.KindWebSocket:
			if req.WebSocket == nil {
				req.WebSocket = &types.WebSocketOptions{}
			}
		default:
			return nil, fmt.Errorf("request %d has unknown kind %q", i, req.Kind)
		}
	}
	return requests, nil
}

// inferKind guesses the variant when the file omits kind, from whichever
// options block is present. Plain URL-only documents default to rest.
func inferKind(req *types.Request) types.RequestKind {
	switch {
	case req.GraphQL != nil:
		return types.KindGraphQL
	case req.WebSocket != nil:
		return types.KindWebSocket
	default:
		return types.KindRest
	}
}
