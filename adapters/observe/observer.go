package observe

import (
	"context"
	"log"
	"sync"
	"time"
)

// LoggingObserver writes one line per operation and persist to the standard
// logger.
type LoggingObserver struct{}

func NewLoggingObserver() *LoggingObserver {
	return &LoggingObserver{}
}

func (o *LoggingObserver) OnOperationStart(ctx context.Context, name string) {
	log.Printf("[Engine] Operation started: %s", name)
}

func (o *LoggingObserver) OnOperationEnd(ctx context.Context, name string, duration time.Duration, err error) {
	ms := float64(duration.Nanoseconds()) / 1e6
	if err != nil {
		log.Printf("[Engine] Operation %s failed in %.2fms: %v", name, ms, err)
		return
	}
	log.Printf("[Engine] Operation %s completed in %.2fms", name, ms)
}

func (o *LoggingObserver) OnPersist(ctx context.Context, path string, duration time.Duration, err error) {
	ms := float64(duration.Nanoseconds()) / 1e6
	if err != nil {
		log.Printf("[Engine] Persist to %s failed in %.2fms: %v", path, ms, err)
		return
	}
	log.Printf("[Engine] Persisted %s in %.2fms", path, ms)
}

// Metrics is a point-in-time snapshot of observed activity.
type Metrics struct {
	OperationCount   int64
	SuccessCount     int64
	FailureCount     int64
	PersistCount     int64
	PersistFailures  int64
	TotalDuration    time.Duration
	TotalPersistTime time.Duration
}

// MetricsObserver counts operations and persists. Safe for concurrent use.
type MetricsObserver struct {
	mu sync.Mutex
	m  Metrics
}

func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

func (o *MetricsObserver) OnOperationStart(ctx context.Context, name string) {
	o.mu.Lock()
	o.m.OperationCount++
	o.mu.Unlock()
}

func (o *MetricsObserver) OnOperationEnd(ctx context.Context, name string, duration time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.m.TotalDuration += duration
	if err != nil {
		o.m.FailureCount++
		return
	}
	o.m.SuccessCount++
}

func (o *MetricsObserver) OnPersist(ctx context.Context, path string, duration time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.m.PersistCount++
	o.m.TotalPersistTime += duration
	if err != nil {
		o.m.PersistFailures++
	}
}

// Snapshot returns a copy of the current counters.
func (o *MetricsObserver) Snapshot() Metrics {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.m
}
