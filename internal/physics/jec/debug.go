package jec

import (
	"io"
	"log"
	"sync"
)

var (
	mu          sync.RWMutex
	opsLogger   *log.Logger
	diagLogger  *log.Logger
	traceLogger *log.Logger
)

// SetLogWriters configures the three logging streams for the jec package.
// Pass nil for any writer to disable that stream.
func SetLogWriters(ops, diag, trace io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	opsLogger = newLogger("[jec] ", ops)
	diagLogger = newLogger("[jec] ", diag)
	traceLogger = newLogger("[jec] ", trace)
}

func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}

func logger(stream **log.Logger) *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return *stream
}

// opsf logs to the ops stream (missing corrector services, skipped shifts).
func opsf(format string, args ...interface{}) {
	if l := logger(&opsLogger); l != nil {
		l.Printf(format, args...)
	}
}

// diagf logs to the diag stream (level chain construction).
func diagf(format string, args ...interface{}) {
	if l := logger(&diagLogger); l != nil {
		l.Printf(format, args...)
	}
}

// tracef logs to the trace stream (per-jet scale factors).
func tracef(format string, args ...interface{}) {
	if l := logger(&traceLogger); l != nil {
		l.Printf(format, args...)
	}
}
