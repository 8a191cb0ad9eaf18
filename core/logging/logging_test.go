package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in, zapcore.InfoLevel); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewWritesConsoleAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	var console bytes.Buffer

	log := New(Config{File: path, Level: "info"}, &console)
	log.Debug("hidden")
	log.Info("book rendered", zap.Int("id", 1342))
	if err := log.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if out := console.String(); !strings.Contains(out, "book rendered") || strings.Contains(out, "hidden") {
		t.Errorf("console output = %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("log file has %d lines, want 1: %q", len(lines), data)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "book rendered" || entry["id"] != float64(1342) || entry["level"] != "info" {
		t.Errorf("log entry = %v", entry)
	}
}

func TestNewWithoutFile(t *testing.T) {
	var console bytes.Buffer
	log := New(Config{Development: true}, &console)
	log.Debug("segmenting")
	if !strings.Contains(console.String(), "segmenting") {
		t.Errorf("development logger dropped debug entry: %q", console.String())
	}
}
