// SPDX-License-Identifier: MIT
package applog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)
	l.Info("job started", String("pid", "123"))

	line := strings.TrimSuffix(buf.String(), "\n")
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v, line=%q", err, line)
	}
	if decoded["msg"] != "job started" {
		t.Errorf("msg = %v, want %q", decoded["msg"], "job started")
	}
	if decoded["level"] != "info" {
		t.Errorf("level = %v, want %q", decoded["level"], "info")
	}
	if decoded["pid"] != "123" {
		t.Errorf("pid field = %v, want %q", decoded["pid"], "123")
	}
}

func TestDebugSuppressedBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)
	l.Debug("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	l.Info("should not panic") // must not panic
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
