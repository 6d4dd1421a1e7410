package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// TestLogger_IncludesOpFields verifies operation fields are present in log output.
func TestLogger_IncludesOpFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := OpMeta{
		Kind:   "get_type",
		Module: "/mod/app",
		Target: "MyApp.Widget",
	}

	opLogger := logger.WithOp(meta)
	opLogger.Info(context.Background(), "test message")

	output := buf.String()

	// Parse JSON output
	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, output)
	}

	// Verify operation fields
	if v, ok := logEntry["query.op"].(string); !ok || v != "get_type" {
		t.Errorf("expected query.op='get_type', got %v", logEntry["query.op"])
	}
	if v, ok := logEntry["query.module"].(string); !ok || v != "/mod/app" {
		t.Errorf("expected query.module='/mod/app', got %v", logEntry["query.module"])
	}
	if v, ok := logEntry["query.target"].(string); !ok || v != "MyApp.Widget" {
		t.Errorf("expected query.target='MyApp.Widget', got %v", logEntry["query.target"])
	}
}

// TestLogger_IncludesDuration verifies duration_ms field is present.
func TestLogger_IncludesDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := OpMeta{Kind: "list_types"}
	opLogger := logger.WithOp(meta)

	opLogger.Info(context.Background(), "test message",
		Field{Key: "duration_ms", Value: 50.5},
	)

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["duration_ms"].(float64); !ok || v != 50.5 {
		t.Errorf("expected duration_ms=50.5, got %v", logEntry["duration_ms"])
	}
}

// TestLogger_ErrorLevel verifies error log level and error field.
func TestLogger_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := OpMeta{Kind: "get_member"}
	opLogger := logger.WithOp(meta)

	opLogger.Error(context.Background(), "operation failed",
		Field{Key: "error", Value: "type not found"},
	)

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	// Verify level
	if v, ok := logEntry["level"].(string); !ok || v != "error" {
		t.Errorf("expected level='error', got %v", logEntry["level"])
	}

	// Verify error field
	if v, ok := logEntry["error"].(string); !ok || v != "type not found" {
		t.Errorf("expected error='type not found', got %v", logEntry["error"])
	}
}

// TestLogger_InfoLevel verifies info log level.
func TestLogger_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := OpMeta{Kind: "list_modules"}
	opLogger := logger.WithOp(meta)

	opLogger.Info(context.Background(), "operation complete")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "info" {
		t.Errorf("expected level='info', got %v", logEntry["level"])
	}
}

// TestLogger_CredentialsRedacted verifies sensitive fields are not logged raw.
func TestLogger_CredentialsRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := OpMeta{Kind: "list_types"}
	opLogger := logger.WithOp(meta)

	opLogger.Info(context.Background(), "operation executed",
		Field{Key: "password", Value: "secret_password_123"},
	)

	output := buf.String()

	// The raw value should NOT appear
	if strings.Contains(output, "secret_password_123") {
		t.Error("credential should be redacted, but found in output")
	}
	if !strings.Contains(output, "[REDACTED]") {
		t.Error("expected [REDACTED] marker in output")
	}
}

// TestLogger_LevelFiltering verifies log level filtering.
func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	meta := OpMeta{Kind: "list_types"}
	opLogger := logger.WithOp(meta)

	// Info should be filtered out
	opLogger.Info(context.Background(), "info message")

	output := buf.String()
	if strings.Contains(output, "info message") {
		t.Error("info message should be filtered when level is warn")
	}

	// Warn should pass through
	opLogger.Warn(context.Background(), "warn message")

	output = buf.String()
	if !strings.Contains(output, "warn message") {
		t.Error("warn message should pass through when level is warn")
	}
}

// TestLogger_DebugLevel verifies debug level filtering.
func TestLogger_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	meta := OpMeta{Kind: "list_types"}
	opLogger := logger.WithOp(meta)

	opLogger.Debug(context.Background(), "debug message")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "debug" {
		t.Errorf("expected level='debug', got %v", logEntry["level"])
	}
}

// TestLogger_WarnLevel verifies warn level.
func TestLogger_WarnLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := OpMeta{Kind: "list_types"}
	opLogger := logger.WithOp(meta)

	opLogger.Warn(context.Background(), "warning message")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "warn" {
		t.Errorf("expected level='warn', got %v", logEntry["level"])
	}
}

// TestLogger_ContinuationTokensNotRedacted verifies pagination tokens pass
// through untouched; they carry no credentials.
func TestLogger_ContinuationTokensNotRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	opLogger := logger.WithOp(OpMeta{Kind: "list_members"})
	opLogger.Info(context.Background(), "page served",
		Field{Key: "next_token", Value: "MzpkZWFkYmVlZg"},
	)

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["next_token"].(string); !ok || v != "MzpkZWFkYmVlZg" {
		t.Errorf("expected next_token to pass through, got %v", logEntry["next_token"])
	}
}
