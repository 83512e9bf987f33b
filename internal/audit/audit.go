// Package audit appends one line per payment-related event to a log file.
// The log is write-only from the application's perspective: nothing in the
// service reads it back.
package audit

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Logger records payment and entitlement events.
type Logger interface {
	Event(format string, args ...any)
}

// FileLogger appends timestamped lines to a single file.
type FileLogger struct {
	mu sync.Mutex
	f  *os.File
}

func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{f: f}, nil
}

func (l *FileLogger) Event(format string, args ...any) {
	line := fmt.Sprintf("%s | %s\n", time.Now().UTC().Format(time.RFC3339), fmt.Sprintf(format, args...))
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.f.WriteString(line)
	_ = l.f.Sync()
}

func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// Nop discards every event. Used in tests.
type Nop struct{}

func (Nop) Event(string, ...any) {}
