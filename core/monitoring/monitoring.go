// Package monitoring is the error-reporting seam. Calculation failures and
// publish errors are reported through a process-wide Monitor; the default
// drops everything, and the service wiring installs the Sentry adapter from
// infra/monitoring when a DSN is configured.
package monitoring

import (
	"sync"
	"time"
)

// Monitor receives failures that should reach an operator.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	CapturePanic(v any)
	Flush(timeout time.Duration)
}

// NopMonitor discards every report.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) CapturePanic(any)                          {}
func (NopMonitor) Flush(time.Duration)                       {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init installs the process-wide monitor. A nil monitor keeps the current
// one, so wiring code can pass a constructor result unconditionally.
func Init(m Monitor) {
	if m == nil {
		return
	}
	mu.Lock()
	current = m
	mu.Unlock()
}

func active() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException reports err with its tags. A nil error is ignored.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	active().CaptureException(err, tags)
}

// Recover stops a panic in the calling goroutine and reports it to the
// monitor. Defer it directly; recover only works in the deferred frame.
func Recover() {
	if v := recover(); v != nil {
		active().CapturePanic(v)
	}
}

// Flush blocks until buffered reports are delivered or the timeout elapses.
func Flush(d time.Duration) {
	active().Flush(d)
}
