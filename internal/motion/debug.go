package motion

import (
	"io"
	"log"
	"sync"
)

// LogWriters holds the destination for each debug stream. A nil writer
// leaves that stream disabled.
type LogWriters struct {
	Ops   io.Writer
	Diag  io.Writer
	Trace io.Writer
}

// The three streams are verbosity tiers: ops for per-analysis summaries,
// diag for phase-level decisions, trace for per-frame firehose output.
type debugStream int

const (
	streamOps debugStream = iota
	streamDiag
	streamTrace
	streamCount
)

var (
	logMu   sync.RWMutex
	loggers [streamCount]*log.Logger
)

// SetLogWriters configures all three streams in one call. It is safe to
// call while an analysis is running, so a caller can retarget or silence
// streams mid-session.
func SetLogWriters(w LogWriters) {
	logMu.Lock()
	defer logMu.Unlock()
	for s, wr := range []io.Writer{w.Ops, w.Diag, w.Trace} {
		if wr == nil {
			loggers[s] = nil
			continue
		}
		loggers[s] = log.New(wr, "[motion] ", log.LstdFlags|log.Lmicroseconds)
	}
}

func logTo(s debugStream, format string, args ...interface{}) {
	logMu.RLock()
	l := loggers[s]
	logMu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}

// Opsf logs per-analysis summaries and actionable warnings.
func Opsf(format string, args ...interface{}) { logTo(streamOps, format, args...) }

// Diagf logs phase transitions, noise rejections and tuning context.
func Diagf(format string, args ...interface{}) { logTo(streamDiag, format, args...) }

// Tracef logs high-frequency per-frame telemetry.
func Tracef(format string, args ...interface{}) { logTo(streamTrace, format, args...) }
