package lsh

import (
	"time"
)

// MetricsCollector receives the outcome of every index operation.
// Implementations must be safe for concurrent use.
type MetricsCollector interface {
	RecordAdd(duration time.Duration, err error)
	RecordDelete(duration time.Duration, deleted bool, err error)
	RecordQuery(stats QueryStats, err error)
}

// NoopMetricsCollector drops everything
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, error)          {}
func (NoopMetricsCollector) RecordDelete(time.Duration, bool, error) {}
func (NoopMetricsCollector) RecordQuery(QueryStats, error)           {}
