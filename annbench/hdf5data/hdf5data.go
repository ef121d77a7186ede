package hdf5data

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gasparian/lsh-search-go/lsh"
	"gonum.org/v1/hdf5"
)

// Objects inside the ann-benchmarks hdf5 file:
// train
// test
// distances
// neighbors

var (
	errShape = errors.New("hdf5data: dataset must be a two dimensional table")
	// ErrEmpty is returned when the train set has no vectors
	ErrEmpty = errors.New("hdf5data: train set is empty")
)

// Dataset holds a train/test split with the ground truth
type Dataset struct {
	Train [][]float64
	Test  [][]float64
	// Neighbors holds sorted train indices of the nearest neighbors of each test vector
	Neighbors [][]int
	// Distances holds distances to the neighbors in the original order
	Distances [][]float64
	ranked    [][]int
}

// GetVectorsFromHDF5 reads the whole dataset into vecs, returns the row length
func GetVectorsFromHDF5(table *hdf5.File, datasetName string, vecs interface{}) (int, error) {
	dataset, err := table.OpenDataset(datasetName)
	if err != nil {
		return 0, err
	}
	defer dataset.Close()

	fileSpace := dataset.Space()
	defer fileSpace.Close()
	dims, _, err := fileSpace.SimpleExtentDims()
	if err != nil {
		return 0, err
	}
	if len(dims) != 2 {
		return 0, fmt.Errorf("%w: %s has %d dimensions", errShape, datasetName, len(dims))
	}
	numTicks := fileSpace.SimpleExtentNPoints()

	switch vecs := vecs.(type) {
	case *[]float32:
		*vecs = make([]float32, numTicks)
	case *[]int32:
		*vecs = make([]int32, numTicks)
	default:
		return 0, fmt.Errorf("hdf5data: unsupported destination %T", vecs)
	}

	err = dataset.Read(vecs)
	if err != nil {
		return 0, err
	}
	return int(dims[1]), nil
}

// Split cuts the flat table into rows
func Split(flat []float32, rowLen int) [][]float64 {
	if rowLen <= 0 {
		return nil
	}
	rows := make([][]float64, len(flat)/rowLen)
	for i := range rows {
		rows[i] = lsh.ConvertTo64(flat[i*rowLen : (i+1)*rowLen])
	}
	return rows
}

// SplitInt cuts the flat table of ids into rows
func SplitInt(flat []int32, rowLen int) [][]int {
	if rowLen <= 0 {
		return nil
	}
	rows := make([][]int, len(flat)/rowLen)
	for i := range rows {
		row := make([]int, rowLen)
		for j, v := range flat[i*rowLen : (i+1)*rowLen] {
			row[j] = int(v)
		}
		rows[i] = row
	}
	return rows
}

// Load reads train, test, neighbors and distances tables from the file
func Load(path string) (*Dataset, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds := &Dataset{}
	var flat []float32
	rowLen, err := GetVectorsFromHDF5(f, "train", &flat)
	if err != nil {
		return nil, err
	}
	ds.Train = Split(flat, rowLen)

	rowLen, err = GetVectorsFromHDF5(f, "test", &flat)
	if err != nil {
		return nil, err
	}
	ds.Test = Split(flat, rowLen)

	var ids []int32
	rowLen, err = GetVectorsFromHDF5(f, "neighbors", &ids)
	if err != nil {
		return nil, err
	}
	ds.ranked = SplitInt(ids, rowLen)

	rowLen, err = GetVectorsFromHDF5(f, "distances", &flat)
	if err != nil {
		return nil, err
	}
	ds.Distances = Split(flat, rowLen)

	ds.Neighbors = make([][]int, len(ds.ranked))
	for i, row := range ds.ranked {
		sorted := append([]int(nil), row...)
		sort.Ints(sorted)
		ds.Neighbors[i] = sorted
	}
	return ds, nil
}

// WithinRadius returns sorted train indices of the test vector neighbors
// lying within the radius, according to the stored distances
func (ds *Dataset) WithinRadius(test int, radius float64) []int {
	truth := make([]int, 0)
	for j, id := range ds.ranked[test] {
		if j < len(ds.Distances[test]) && ds.Distances[test][j] <= radius {
			truth = append(truth, id)
		}
	}
	sort.Ints(truth)
	return truth
}
