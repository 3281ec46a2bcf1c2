package testing

import (
	"fmt"
	"strings"
	"sync"
)

// RecordingLogger keeps every formatted message, including verbose ones.
// Server notices arrive through Verbose, so tests can assert on them.
// Thread-safe for concurrent use.
type RecordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Verbose(format string, args ...interface{}) {
	l.record("verbose", format, args)
}

func (l *RecordingLogger) Info(format string, args ...interface{}) {
	l.record("info", format, args)
}

func (l *RecordingLogger) Error(format string, args ...interface{}) {
	l.record("error", format, args)
}

func (l *RecordingLogger) record(level, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, level+": "+fmt.Sprintf(format, args...))
}

// Messages returns a copy of everything logged so far.
func (l *RecordingLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.messages))
	copy(out, l.messages)
	return out
}

// Contains reports whether any message contains substr.
func (l *RecordingLogger) Contains(substr string) bool {
	for _, m := range l.Messages() {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
