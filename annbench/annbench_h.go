package annbench

import (
	"errors"
	"time"

	cm "github.com/gasparian/lsh-search-go/common"
	"github.com/gasparian/lsh-search-go/lsh"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	errOuterUnreachable = errors.New("annbench: can't place a vector beyond the radius inside the border")
	errBadGenerator     = errors.New("annbench: dimensions, radius and border must be positive")
	errBadRun           = errors.New("annbench: vectors and queries numbers must be positive")
)

// Generator produces synthetic vectors around a query point
type Generator struct {
	dims    int
	radius  float64
	border  float64
	uniform distuv.Uniform
	inner   int
	outer   int
}

// Comparison splits the index output against the exact answer
type Comparison struct {
	Both   [][]float64 // found by the index and by the full scan
	Missed [][]float64 // found by the full scan only
	Extra  [][]float64 // found by the index only
}

// RunConfig describes a synthetic benchmark
type RunConfig struct {
	Index lsh.Config
	// Vectors is the number of vectors inserted per query
	Vectors int
	// InnerEvery places one vector within the radius per InnerEvery inserts
	InnerEvery int
	Queries    int
	Radius     float64
	Border     float64
	Seed       uint64
	Logger     *cm.Logger
	// Progress is called after every insert with the number of vectors inserted so far
	Progress func(done int)
}

// Report aggregates the benchmark results over all the queries
type Report struct {
	Params      lsh.Params
	Build       lsh.BuildStats
	Queries     int
	Inserted    int
	Inner       int
	Outer       int
	Both        int
	Missed      int
	Extra       int
	Candidates  int
	Comparisons int // distance computations made by the index
	BruteForce  int // distance computations made by the full scan
	QueryTime   time.Duration
	ScanTime    time.Duration
}
