package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerFormatsMessages(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, &Config{Level: "info"})

	log.Debug("hidden %d", 1)
	log.Info("match %d moved to %s", 7, "live")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected debug to be filtered, got %d lines", len(lines))
	}

	var record map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if record["msg"] != "match 7 moved to live" {
		t.Fatalf("unexpected message %v", record["msg"])
	}
	if record["level"] != "INFO" {
		t.Fatalf("unexpected level %v", record["level"])
	}
}

func TestLoggerWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, &Config{Level: "debug"}).With("component", "http")
	log.Warn("slow request")

	if !strings.Contains(buf.String(), `"component":"http"`) {
		t.Fatalf("expected component attribute, got %s", buf.String())
	}
}
