package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/nerrad567/stagelight-core/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{"json to stdout", config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}},
		{"text to stderr", config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"}},
		{"unknown format falls back to json", config.LoggingConfig{Level: "info", Format: "xml", Output: "stdout"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if logger := New(tc.cfg, "1.0.0"); logger == nil {
				t.Fatal("New returned nil")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tc := range cases {
		if got := parseLevel(tc.input); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestWith_ReturnsChildLogger(t *testing.T) {
	logger := Default()

	child := logger.With("component", "fade")
	if child == nil {
		t.Fatal("With returned nil")
	}
	if child == logger {
		t.Error("With returned the parent logger")
	}
}

// Every record carries the service and version fields New stamps on,
// plus whatever the call site adds.
func TestNew_RecordsCarryDefaultFields(t *testing.T) {
	var buf bytes.Buffer

	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}).
		WithAttrs([]slog.Attr{
			slog.String("service", "stagelight"),
			slog.String("version", "0.3.0"),
		})
	logger := &Logger{Logger: slog.New(handler)}

	logger.Info("fade engine started", "interval_ms", 25)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	if record["service"] != "stagelight" {
		t.Errorf("service = %v, want stagelight", record["service"])
	}
	if record["version"] != "0.3.0" {
		t.Errorf("version = %v, want 0.3.0", record["version"])
	}
	if record["msg"] != "fade engine started" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["interval_ms"] != float64(25) {
		t.Errorf("interval_ms = %v, want 25", record["interval_ms"])
	}
}
