package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_JSONWithServiceAndChild(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: INFO, Output: &buf, Service: "wizard"})

	log.With("component", "kafka_consumer").Info("started", "topic", "payment.status")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	for key, want := range map[string]string{
		"msg":       "started",
		"service":   "wizard",
		"component": "kafka_consumer",
		"topic":     "payment.status",
	} {
		if rec[key] != want {
			t.Errorf("%s = %v, want %s", key, rec[key], want)
		}
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: ERROR, Format: TEXT, Output: &buf})

	log.Info("dropped")
	log.Error("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info record written at error level")
	}
	if !strings.Contains(out, "msg=kept") {
		t.Errorf("text output missing error record: %q", out)
	}
}
