package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.Debugf("hidden %d", 1)
	l.Warnf("careful\n")
	l.Printf("plain")

	want := "[2024-01-02T03:04:05Z] warning: careful\n[2024-01-02T03:04:05Z] plain\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}

	buf.Reset()
	l.verbose = true
	l.Debugf("shown %d", 2)
	if !strings.HasSuffix(buf.String(), "debug: shown 2\n") {
		t.Fatalf("debug line missing in verbose mode: %q", buf.String())
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	var l *Logger
	l.Printf("nothing")
	l.Debugf("nothing")
	if l.Verbose() {
		t.Fatalf("nil logger should not be verbose")
	}
}
