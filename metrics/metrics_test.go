package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/gasparian/lsh-search-go/lsh"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector("test", reg)
	require.NoError(t, err)

	c.RecordAdd(time.Millisecond, nil)
	c.RecordAdd(time.Millisecond, errors.New("boom"))
	c.RecordDelete(time.Millisecond, true, nil)
	c.RecordDelete(time.Millisecond, false, nil)
	c.RecordQuery(lsh.QueryStats{Comparisons: 3, Candidates: 5, Found: 1, Elapsed: time.Millisecond}, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("add", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("delete", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("delete", "missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("query", "ok")))
	assert.Equal(t, 5, testutil.CollectAndCount(c.operations))

	_, err = NewCollector("test", reg)
	assert.Error(t, err, "metrics of the same index can't be registered twice")
}

func TestCollectorWithIndex(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector("idx", reg)
	require.NoError(t, err)
	idx, err := lsh.New(lsh.Config{Omega: 4, K: 2, Dims: 2, Capacity: 10, Seed: 1, Metrics: c})
	require.NoError(t, err)

	require.NoError(t, idx.Add([]float64{0, 0}))
	_, err = idx.FindNeighbors([]float64{0, 0}, 1)
	require.NoError(t, err)
	_, err = idx.FindNeighbors([]float64{0}, 1)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("query", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("query", "error")))
}
