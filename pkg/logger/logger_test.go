package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DEBUG,
		"DEBUG":   DEBUG,
		"info":    INFO,
		"":        INFO,
		"warn":    WARN,
		"warning": WARN,
		"error":   ERROR,
		"bogus":   INFO,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestLogLineFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	defer SetOutput(os.Stderr)

	InfoCF("soul", "Document written", map[string]interface{}{
		"tier": "session",
		"path": "/tmp/SOUL.md",
	})

	line := buf.String()
	if !strings.Contains(line, "INFO") {
		t.Errorf("expected level in output, got %q", line)
	}
	if !strings.Contains(line, "[soul]") {
		t.Errorf("expected component tag, got %q", line)
	}
	// Fields are sorted by key so the line is stable.
	if !strings.Contains(line, "path=/tmp/SOUL.md tier=session") {
		t.Errorf("expected sorted fields, got %q", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	defer SetOutput(os.Stderr)
	SetLevel(WARN)
	defer SetLevel(INFO)

	DebugC("soul", "debug message")
	InfoC("soul", "info message")
	WarnC("soul", "warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below WARN should be suppressed, got %q", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("expected warn message in output, got %q", out)
	}
}
