package lsh

import (
	"sync"
	"sync/atomic"
	"time"

	cm "github.com/gasparian/lsh-search-go/common"
	"github.com/gasparian/lsh-search-go/store"
)

const (
	// Prime is the modulus both composite hashes are reduced by
	Prime uint64 = 4294967291
	// MaxTables limits the derived number of tables
	MaxTables    = 1 << 16
	defaultDelta = 0.90
	// raw projection hashes must stay exactly representable by float64
	maxRawHash = 1 << 53
)

// StoreFactory creates the bucket store once the number of tables is known
type StoreFactory func(tables int, tableSize uint64) store.Store

// Config holds everything needed to initialize the index
type Config struct {
	Omega    float64 // bucket width along a random projection
	K        int     // hash functions per table
	Dims     int
	Delta    float64 // miss probability bound, 0.90 when left empty
	Capacity int     // expected number of vectors, fixes the table size
	// Seed of the hash functions generator, the clock is used when it's 0
	Seed uint64
	// Workers is the number of tables hashed concurrently
	Workers int
	// LooseDelete makes Delete match stored entries by fingerprint only
	LooseDelete bool
	NewStore    StoreFactory
	Logger      *cm.Logger
	Metrics     MetricsCollector
}

// Params holds the derived index parameters, they never change after Init
type Params struct {
	Dims      int
	K         int
	L         int
	Omega     float64
	Delta     float64
	Capacity  int
	TableSize uint64
	Prime     uint64
	Seed      uint64
}

// QueryStats describes the work done by a single FindNeighbors call
type QueryStats struct {
	Tables      int
	Candidates  int // entries read from the probed buckets
	Comparisons int // exact distance evaluations
	Found       int
	Elapsed     time.Duration
}

// Result holds vectors found within the radius, in no particular order
type Result struct {
	Neighbors [][]float64
	Stats     QueryStats
}

// BuildStats holds cumulative counters of the index
type BuildStats struct {
	InitTime time.Duration
	AddTime  time.Duration
	Added    int64
	Deleted  int64
}

// Index is a p-stable LSH index for radius search under the euclidean distance.
// Zero value is an uninitialized index: every operation fails until Init succeeds.
type Index struct {
	mx      sync.RWMutex
	ready   bool
	id      string
	config  Config
	params  Params
	hasher  *hasher
	store   store.Store
	logger  *cm.Logger
	metrics MetricsCollector

	initNanos atomic.Int64
	addNanos  atomic.Int64
	added     atomic.Int64
	deleted   atomic.Int64
}
