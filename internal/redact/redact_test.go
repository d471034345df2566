package redact

import (
	"reflect"
	"testing"
)

func TestStringRedactsSecrets(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"kv secret", "token=abc123456789", "token=[REDACTED_SECRET]"},
		{"bearer token", "Authorization: Bearer abcdef1234567890", "Authorization: Bearer [REDACTED_SECRET]"},
		{"email", "report sent to alice@example.com", "report sent to [REDACTED_EMAIL]"},
		{"plain text untouched", "shift the letters by three", "shift the letters by three"},
		{"blank untouched", "  ", "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.input); got != tt.expected {
				t.Fatalf("String(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMapRedactsNestedValues(t *testing.T) {
	input := map[string]any{
		"nested": []any{"token=abc123456789"},
		"plain":  "hello",
		"count":  3,
	}
	masked := Map(input)
	nested, ok := masked["nested"].([]any)
	if !ok || len(nested) != 1 {
		t.Fatalf("expected nested slice to be preserved, got %#v", masked["nested"])
	}
	if item, _ := nested[0].(string); item != "token=[REDACTED_SECRET]" {
		t.Fatalf("expected nested value to be redacted, got %q", item)
	}
	if masked["plain"] != "hello" {
		t.Fatalf("plain value changed: %#v", masked["plain"])
	}
	if masked["count"] != 3 {
		t.Fatalf("non-string value changed: %#v", masked["count"])
	}
}

func TestMapNilAndEmpty(t *testing.T) {
	if got := Map(nil); got != nil {
		t.Fatalf("expected nil input to return nil, got %#v", got)
	}
	if got := Map(map[string]any{}); got != nil {
		t.Fatalf("expected empty map to return nil, got %#v", got)
	}
	if got := MapString(nil); got != nil {
		t.Fatalf("expected nil string map to return nil, got %#v", got)
	}
	if got := MapString(map[string]string{}); got != nil {
		t.Fatalf("expected empty string map to return nil, got %#v", got)
	}
}

func TestSliceRedactsValues(t *testing.T) {
	out := Slice([]string{"token=secretvalue123456", "  "})
	expected := []string{"token=[REDACTED_SECRET]", "  "}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("expected %v, got %v", expected, out)
	}
}
