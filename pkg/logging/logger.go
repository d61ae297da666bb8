package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Logger writes timestamped lines to an output stream. Debug lines are only
// written in verbose mode. A nil *Logger discards everything.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	now     func() time.Time
}

func New(out io.Writer, verbose bool) *Logger {
	return &Logger{out: out, verbose: verbose, now: time.Now}
}

func (l *Logger) Verbose() bool {
	return l != nil && l.verbose
}

func (l *Logger) Printf(format string, args ...any) {
	l.write("", format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.write("warning: ", format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	if !l.Verbose() {
		return
	}
	l.write("debug: ", format, args...)
}

func (l *Logger) write(level, format string, args ...any) {
	if l == nil || l.out == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[%s] %s%s\n", l.now().Format(time.RFC3339), level, line)
}
