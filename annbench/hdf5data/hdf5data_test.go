package hdf5data

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gasparian/lsh-search-go/lsh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/hdf5"
)

func writeTable(t *testing.T, f *hdf5.File, name string, dtype *hdf5.Datatype, rows, cols uint, data interface{}) {
	t.Helper()
	space, err := hdf5.CreateSimpleDataspace([]uint{rows, cols}, nil)
	require.NoError(t, err)
	defer space.Close()
	dset, err := f.CreateDataset(name, dtype, space)
	require.NoError(t, err)
	defer dset.Close()
	require.NoError(t, dset.Write(data))
}

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiny-2-euclidean.hdf5")
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	require.NoError(t, err)
	defer f.Close()

	train := []float32{0, 0, 1, 0, 10, 10, 0.5, 0}
	test := []float32{0, 0, 10, 10}
	neighbors := []int32{0, 3, 1, 2, 0, 3}
	distances := []float32{0, 0.5, 1, 0, 14.14, 13.8}
	writeTable(t, f, "train", hdf5.T_NATIVE_FLOAT, 4, 2, &train)
	writeTable(t, f, "test", hdf5.T_NATIVE_FLOAT, 2, 2, &test)
	writeTable(t, f, "neighbors", hdf5.T_NATIVE_INT32, 2, 3, &neighbors)
	writeTable(t, f, "distances", hdf5.T_NATIVE_FLOAT, 2, 3, &distances)
	return path
}

func TestSplit(t *testing.T) {
	t.Parallel()
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, Split([]float32{1, 2, 3, 4, 5}, 2))
	assert.Nil(t, Split([]float32{1}, 0))
	assert.Equal(t, [][]int{{1, 2, 3}}, SplitInt([]int32{1, 2, 3}, 3))
}

func TestLoad(t *testing.T) {
	ds, err := Load(writeDataset(t))
	require.NoError(t, err)
	require.Len(t, ds.Train, 4)
	require.Len(t, ds.Test, 2)
	assert.Equal(t, []float64{10, 10}, ds.Train[2])
	assert.Equal(t, [][]int{{0, 1, 3}, {0, 2, 3}}, ds.Neighbors)
	assert.Equal(t, []int{0, 1, 3}, ds.WithinRadius(0, 1))
	assert.Equal(t, []int{0, 3}, ds.WithinRadius(0, 0.5))
	assert.Equal(t, []int{2}, ds.WithinRadius(1, 1))

	_, err = Load(filepath.Join(t.TempDir(), "missing.hdf5"))
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	ds, err := Load(writeDataset(t))
	require.NoError(t, err)
	idx, err := lsh.New(lsh.Config{Omega: 4, K: 2, Dims: 2, Delta: 0.01, Capacity: 4, Seed: 1})
	require.NoError(t, err)
	for _, vec := range ds.Train {
		require.NoError(t, idx.Add(vec))
	}
	ev, err := Evaluate(context.Background(), idx, ds, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, ev.Queries)
	assert.InDelta(t, 1.0, ev.Precision, 1e-9, "every reported vector is within the radius")
	assert.Greater(t, ev.Recall, 0.0)
	assert.LessOrEqual(t, ev.Recall, 1.0)
}

func TestEvaluateDuplicates(t *testing.T) {
	t.Parallel()
	ds := &Dataset{
		Train:     [][]float64{{0, 0}, {0, 0}, {5, 5}},
		Test:      [][]float64{{0, 0}},
		Neighbors: [][]int{{0, 1}},
		Distances: [][]float64{{0, 0}},
		ranked:    [][]int{{0, 1}},
	}
	idx, err := lsh.New(lsh.Config{Omega: 4, K: 2, Dims: 2, Capacity: 3, Seed: 2})
	require.NoError(t, err)
	for _, vec := range ds.Train {
		require.NoError(t, idx.Add(vec))
	}
	ev, err := Evaluate(context.Background(), idx, ds, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, ev.Recall, "both copies of the duplicate are found")
	assert.Equal(t, 1.0, ev.Precision)
}
