package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)
	defer SetLevel(Notice)

	logger := New("test")

	SetLevel(Notice)
	logger.Info("hidden")
	logger.Notice("shown")

	SetLevel(Debug)
	logger.Debugf("debug %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatal("expected info message to be filtered at notice level")
	}
	if !strings.Contains(out, "shown") {
		t.Fatal("expected notice message to be logged")
	}
	if !strings.Contains(out, "debug 42") || !strings.Contains(out, "[test]") {
		t.Fatalf("expected debug message with module name; got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	specs := []struct {
		in  string
		exp Level
	}{
		{"debug", Debug},
		{"INFO", Info},
		{"notice", Notice},
		{"warn", Warning},
		{"error", Error},
	}

	for index, s := range specs {
		got, err := ParseLevel(s.in)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if got != s.exp {
			t.Fatalf("[spec %d] expected level %d; got %d", index, s.exp, got)
		}
	}

	if _, err := ParseLevel("chatty"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}
