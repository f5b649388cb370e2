package filter

import (
	"strings"
	"testing"
)

const body = `{"items":[{"name":"a","status":"active"},{"name":"b","status":"inactive"}]}`

func TestApply_FilterOnly(t *testing.T) {
	result, err := Apply(body, "items[?status=='active']", "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(result, `"a"`) || strings.Contains(result, `"b"`) {
		t.Errorf("Expected only active items, got: %s", result)
	}
}

func TestApply_FilterThenQuery(t *testing.T) {
	result, err := Apply(body, "items[?status=='active']", "[].name")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(result, `"a"`) || strings.Contains(result, "status") {
		t.Errorf("Expected names only, got: %s", result)
	}
}

func TestApply_NoExpressionsPassesThrough(t *testing.T) {
	result, err := Apply(body, "", "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != body {
		t.Errorf("Expected body unchanged, got: %s", result)
	}
}

func TestApply_NullResult(t *testing.T) {
	result, err := Apply(body, "", "missing")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != "null" {
		t.Errorf("Expected 'null', got: %s", result)
	}
}

func TestApply_InvalidJSON(t *testing.T) {
	if _, err := Apply("not json", "items", ""); err == nil {
		t.Error("Expected error for non-JSON body")
	}
}

func TestIsValidJMESPath(t *testing.T) {
	if !IsValidJMESPath("items[0].name") {
		t.Error("Expected valid expression")
	}
	if IsValidJMESPath("items[?") {
		t.Error("Expected invalid expression")
	}
}
