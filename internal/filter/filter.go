// Package filter narrows and transforms JSON response bodies for CLI
// output using JMESPath expressions.
package filter

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// Apply applies filter and query expressions to a response body.
// Filter narrows results (e.g., items[?status==`active`]); query selects or
// reshapes fields (e.g., [].name). Either may be empty.
func Apply(body string, filter string, query string) (string, error) {
	result := body

	if filter != "" {
		filtered, err := applyJMESPath(result, filter)
		if err != nil {
			return "", fmt.Errorf("failed to apply filter: %w", err)
		}
		result = filtered
	}

	if query != "" {
		queried, err := applyJMESPath(result, query)
		if err != nil {
			return "", fmt.Errorf("failed to apply query: %w", err)
		}
		result = queried
	}

	return result, nil
}

// applyJMESPath applies a JMESPath expression to a JSON string.
func applyJMESPath(jsonStr string, expression string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return string(output), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax.
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}
