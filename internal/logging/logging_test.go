package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLoggerWritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Info().Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "hello" {
		t.Errorf("message = %v", entry["message"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("log line missing timestamp")
	}
}

func TestWithComponentTagsEveryLine(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(NewLogger(&buf), "palette")
	logger.Info().Msg("extracted")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["component"] != "palette" {
		t.Errorf("component = %v, want palette", entry["component"])
	}
}
