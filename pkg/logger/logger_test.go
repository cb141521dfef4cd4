/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"},
	}

	for _, test := range tests {
		if result := test.level.String(); result != test.expected {
			t.Errorf("Level.String() = %v, expected %v", result, test.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != DebugLevel {
		t.Error("expected debug level")
	}
	if ParseLevel("bogus") != InfoLevel {
		t.Error("unknown levels should fall back to info")
	}
}

func TestInitializeDefaultsComponent(t *testing.T) {
	if err := Initialize(Config{Level: InfoLevel}); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	if defaultLogger.config.Component != "flutterkit" {
		t.Errorf("expected default component flutterkit, got %q", defaultLogger.config.Component)
	}
}

func TestLoggerPrettyFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, Component: "test"}, &buf)

	l.Log(InfoLevel, "manifest updated", String("path", "pubspec.yaml"), Int("assets", 3))

	out := buf.String()
	if !strings.Contains(out, "[INFO] test: manifest updated") {
		t.Errorf("unexpected output: %s", out)
	}
	if !strings.Contains(out, "{assets=3, path=pubspec.yaml}") {
		t.Errorf("fields should be sorted by key: %s", out)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: WarnLevel}, &buf)

	l.Log(InfoLevel, "hidden")
	l.Log(ErrorLevel, "shown", Err(errors.New("boom")))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "error=boom") {
		t.Errorf("expected error field, got %s", out)
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, JSON: true, Component: "test"}, &buf)

	l.Log(WarnLevel, "slow", Duration("elapsed", 2*time.Second), Strings("assets", []string{"assets/a.png"}))

	var entry LogEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry.Level != "WARN" || entry.Message != "slow" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Fields["elapsed"] != "2s" {
		t.Errorf("expected elapsed=2s, got %v", entry.Fields["elapsed"])
	}
}

func TestErrNilSafe(t *testing.T) {
	if f := Err(nil); f.Value != "<nil>" {
		t.Errorf("Err(nil) = %v", f.Value)
	}
}
