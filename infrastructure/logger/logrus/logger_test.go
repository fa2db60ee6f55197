// ABOUTME: Tests for the logrus logger adapter
// ABOUTME: Verifies level filtering, field output and JSON formatting

package logrus

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInfoIncludesMessageAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "info", Output: &buf})

	logger.Info("Scrape job created", map[string]interface{}{
		"query":  "notebook",
		"job_id": "j1",
	})

	out := buf.String()
	if !strings.Contains(out, "Scrape job created") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "notebook") || !strings.Contains(out, "j1") {
		t.Errorf("output missing fields: %q", out)
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "info", Output: &buf})

	logger.Debug("noisy detail", nil)

	if buf.Len() != 0 {
		t.Errorf("debug output not suppressed: %q", buf.String())
	}
}

func TestDebugEmittedAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "debug", Output: &buf})

	logger.Debug("noisy detail", nil)

	if !strings.Contains(buf.String(), "noisy detail") {
		t.Errorf("debug output missing: %q", buf.String())
	}
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "noisy", Output: &buf})

	logger.Debug("hidden", nil)
	logger.Info("visible", nil)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug leaked at default level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("info missing at default level: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "info", JSONFormat: true, Output: &buf})

	logger.Error("Source failed", map[string]interface{}{"source": "Falabella"})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "Source failed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["source"] != "Falabella" {
		t.Errorf("source = %v", entry["source"])
	}
}
