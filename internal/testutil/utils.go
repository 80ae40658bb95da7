package testutil

import (
	"bytes"
	"log"
	"os"
	"sync"
	"testing"
)

// TestLogger returns a logger prefixed with the running test's name.
func TestLogger(t *testing.T) *log.Logger {
	logger := log.New(os.Stdout, "["+t.Name()+"] ", log.LstdFlags)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
	})
	return logger
}

// LogBuffer is a goroutine-safe sink for log output.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// CaptureLogger returns a logger whose output can be inspected by the test.
func CaptureLogger(t *testing.T) (*log.Logger, *LogBuffer) {
	t.Helper()
	buf := &LogBuffer{}
	return log.New(buf, "["+t.Name()+"] ", 0), buf
}
