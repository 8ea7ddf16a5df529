package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	if err := Init(WithFormat("xml")); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithFormat(FormatJSON), WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = SetLevelString("info") }()

	ctx := WithRequestID(context.Background(), "req-1")
	Get().Info(ctx, "test message", String("k", "v"), Int("n", 3))

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("invalid json line %q: %v", buf.String(), err)
	}
	if line["msg"] != "test message" {
		t.Errorf("unexpected msg: %v", line["msg"])
	}
	if line["k"] != "v" {
		t.Errorf("unexpected field k: %v", line["k"])
	}
	if line["request_id"] != "req-1" {
		t.Errorf("unexpected request_id: %v", line["request_id"])
	}
	if caller, _ := line["caller"].(string); !strings.Contains(caller, "logger_test.go") {
		t.Errorf("caller should point at the test, got %q", caller)
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = SetLevelString("info") }()

	ctx := context.Background()
	Get().Debug(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %q", buf.String())
	}

	if err := SetLevelString("DEBUG"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Level() != "debug" {
		t.Fatalf("expected debug level, got %s", Level())
	}
	Get().Debug(ctx, "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("debug line missing: %q", buf.String())
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Warn(context.Background(), "test message")
	if !strings.Contains(buf.String(), "test") {
		t.Fatalf("logger name missing: %q", buf.String())
	}
}

func TestLoggerFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perfscore.log")
	if err := Init(WithFile(FileConfig{Path: path, MaxSizeMB: 1})); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = Init() }()

	Get().Error(context.Background(), "written to file")
	_ = Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Fatalf("unexpected log file contents: %q", data)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info(context.Background(), "discarded")
	l.Named("x").Error(context.Background(), "discarded")
}
