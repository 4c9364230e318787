package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestBuild_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := build(Config{Level: "warn", Console: true}, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown")
	logger.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "shown") {
		t.Errorf("expected warn line, got %q", out)
	}
}

func TestBuild_FileIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gapquiz.log")
	cfg := DefaultConfig()
	cfg.File = path
	cfg.Console = false

	logger, closer, err := build(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("generated", zap.String("path", "structured"))
	logger.Sync()
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if entry["msg"] != "generated" || entry["path"] != "structured" || entry["level"] != "INFO" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestBuild_InvalidLevel(t *testing.T) {
	if _, _, err := build(Config{Level: "loud"}, nil); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestBuild_NoSinks(t *testing.T) {
	logger, _, err := build(Config{Level: "info"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("dropped")
}
