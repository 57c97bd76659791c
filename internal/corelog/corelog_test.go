package corelog

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()

	l := New(w, LevelWarn)
	l.Debug("should not appear")
	l.Warn("should appear", "key", "value")
	w.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("read: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("debug line leaked through a Warn-level logger: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("expected warn line in output, got %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Fatalf("expected structured key=value pair, got %q", out)
	}
}

func TestWithAddsFields(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()

	l := New(w, LevelInfo).With("component", "driver")
	l.Info("started")
	w.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(buf.String(), "component=driver") {
		t.Fatalf("expected component=driver in output, got %q", buf.String())
	}
}
