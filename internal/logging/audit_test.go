package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestAuditLoggerEmit(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("cloakctl", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}

	event := AuditEvent{
		EventType: EventTransformApplied,
		Operation: "caesar_encrypt",
		Decision:  DecisionAllow,
	}
	if err := logger.Emit(event); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	var decoded AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}

	if decoded.Component != "cloakctl" {
		t.Fatalf("expected component 'cloakctl', got %q", decoded.Component)
	}
	if decoded.EventType != EventTransformApplied {
		t.Fatalf("expected event type %q, got %q", EventTransformApplied, decoded.EventType)
	}
	if decoded.Operation != "caesar_encrypt" {
		t.Fatalf("expected operation 'caesar_encrypt', got %q", decoded.Operation)
	}
	if decoded.Decision != DecisionAllow {
		t.Fatalf("expected decision %q, got %q", DecisionAllow, decoded.Decision)
	}
	if decoded.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
}

func TestAuditLoggerRedactsMetadata(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("api", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}

	event := AuditEvent{
		EventType: EventAPIDenied,
		Decision:  DecisionDeny,
		Reason:    "bad header: Bearer abcdef1234567890",
		Metadata:  map[string]any{"header": "token=abc123456789"},
	}
	if err := logger.Emit(event); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	var decoded AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if decoded.Reason != "bad header: Bearer [REDACTED_SECRET]" {
		t.Fatalf("reason not redacted: %q", decoded.Reason)
	}
	if decoded.Metadata["header"] != "token=[REDACTED_SECRET]" {
		t.Fatalf("metadata not redacted: %#v", decoded.Metadata["header"])
	}
}

func TestAuditLoggerWithComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("cloakctl", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}

	scoped := logger.WithComponent("detector")
	if err := scoped.Emit(AuditEvent{EventType: EventDetectionRun}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	var decoded AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if decoded.Component != "detector" {
		t.Fatalf("expected component 'detector', got %q", decoded.Component)
	}
}

func TestAuditLoggerRequiresWriter(t *testing.T) {
	if _, err := NewAuditLogger("cloakctl", WithoutStdout()); err == nil {
		t.Fatal("expected error when no writers are configured")
	}
	if _, err := NewAuditLogger("cloakctl", WithWriter(nil)); err == nil {
		t.Fatal("expected error for nil writer")
	}
}
