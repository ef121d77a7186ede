package metrics

import (
	"time"

	"github.com/gasparian/lsh-search-go/lsh"
	"github.com/prometheus/client_golang/prometheus"
)

var _ lsh.MetricsCollector = (*Collector)(nil)

const (
	resultOk      = "ok"
	resultMissing = "missing"
	resultError   = "error"
)

// Collector exports index operations as prometheus metrics
type Collector struct {
	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	comparisons prometheus.Histogram
	candidates  prometheus.Histogram
	found       prometheus.Histogram
}

// NewCollector creates metrics labeled with the index name and registers them in reg.
// Nil reg means the default prometheus registry.
func NewCollector(index string, reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := prometheus.Labels{"index": index}
	c := &Collector{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "lsh_operations_total",
				Help:        "Total number of index operations",
				ConstLabels: labels,
			},
			[]string{"operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "lsh_operation_duration_seconds",
				Help:        "Index operation latency",
				Buckets:     prometheus.ExponentialBuckets(1e-6, 4, 12),
				ConstLabels: labels,
			},
			[]string{"operation"},
		),
		comparisons: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:        "lsh_query_comparisons",
				Help:        "Distance computations per query",
				Buckets:     prometheus.ExponentialBuckets(1, 2, 16),
				ConstLabels: labels,
			},
		),
		candidates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:        "lsh_query_candidates",
				Help:        "Bucket entries visited per query",
				Buckets:     prometheus.ExponentialBuckets(1, 2, 16),
				ConstLabels: labels,
			},
		),
		found: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:        "lsh_query_found",
				Help:        "Neighbors returned per query",
				Buckets:     prometheus.ExponentialBuckets(1, 2, 12),
				ConstLabels: labels,
			},
		),
	}
	for _, m := range []prometheus.Collector{c.operations, c.duration, c.comparisons, c.candidates, c.found} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOk
}

func (c *Collector) RecordAdd(duration time.Duration, err error) {
	c.operations.WithLabelValues("add", result(err)).Inc()
	c.duration.WithLabelValues("add").Observe(duration.Seconds())
}

func (c *Collector) RecordDelete(duration time.Duration, deleted bool, err error) {
	res := result(err)
	if err == nil && !deleted {
		res = resultMissing
	}
	c.operations.WithLabelValues("delete", res).Inc()
	c.duration.WithLabelValues("delete").Observe(duration.Seconds())
}

func (c *Collector) RecordQuery(stats lsh.QueryStats, err error) {
	c.operations.WithLabelValues("query", result(err)).Inc()
	if err != nil {
		return
	}
	c.duration.WithLabelValues("query").Observe(stats.Elapsed.Seconds())
	c.comparisons.Observe(float64(stats.Comparisons))
	c.candidates.Observe(float64(stats.Candidates))
	c.found.Observe(float64(stats.Found))
}
