package lsh

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	cm "github.com/gasparian/lsh-search-go/common"
	"github.com/gasparian/lsh-search-go/store"
	"github.com/gasparian/lsh-search-go/store/kv"
	guuid "github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
)

// New creates the index and initializes it with the config
func New(config Config) (*Index, error) {
	idx := &Index{}
	if err := idx.Init(config); err != nil {
		return nil, err
	}
	return idx, nil
}

func newKVStore(tables int, tableSize uint64) store.Store {
	return kv.NewKVStore(tables, tableSize)
}

// Init derives the number of tables, generates hash functions and allocates the store.
// Calling it again drops all the stored vectors, since they were placed by the old hash functions.
func (idx *Index) Init(config Config) error {
	start := time.Now()
	if config.Delta == 0 {
		config.Delta = defaultDelta
	}
	if config.Dims <= 0 {
		return configErr("dimensions number must be a positive integer, got %d", config.Dims)
	}
	if config.Capacity <= 0 {
		return configErr("expected capacity must be a positive integer, got %d", config.Capacity)
	}
	l, err := TableCount(config.Omega, config.K, config.Delta)
	if err != nil {
		return err
	}
	if config.Seed == 0 {
		config.Seed = uint64(time.Now().UnixNano())
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.NewStore == nil {
		config.NewStore = newKVStore
	}
	if config.Logger == nil {
		config.Logger = cm.NewDiscardLogger()
	}
	if config.Metrics == nil {
		config.Metrics = NoopMetricsCollector{}
	}

	src := rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15)
	f, err := newFamily(l, config.K, config.Dims, config.Omega, src)
	if err != nil {
		return err
	}
	tableSize := uint64(config.Capacity)
	h := newHasher(f, config.K, tableSize, rand.New(src))
	params := Params{
		Dims:      config.Dims,
		K:         config.K,
		L:         l,
		Omega:     config.Omega,
		Delta:     config.Delta,
		Capacity:  config.Capacity,
		TableSize: tableSize,
		Prime:     Prime,
		Seed:      config.Seed,
	}

	s := config.NewStore(l, tableSize)
	if s == nil {
		return configErr("store factory returned no store")
	}
	if s.Tables() != l || s.TableSize() != tableSize {
		return configErr("store has %d tables of size %d, expected %d tables of size %d",
			s.Tables(), s.TableSize(), l, tableSize)
	}

	idx.mx.Lock()
	defer idx.mx.Unlock()

	if idx.ready {
		if err := idx.store.Clear(); err != nil {
			return fmt.Errorf("clearing the store of index %s: %w", idx.id, err)
		}
		config.Logger.Warn.Printf("Index %s re-initialized, stored vectors are dropped", idx.id)
	}
	idx.id = guuid.NewString()
	idx.config = config
	idx.params = params
	idx.hasher = h
	idx.store = s
	idx.logger = config.Logger
	idx.metrics = config.Metrics
	idx.addNanos.Store(0)
	idx.added.Store(0)
	idx.deleted.Store(0)
	idx.initNanos.Store(int64(time.Since(start)))
	idx.ready = true
	idx.logger.Info.Printf("Index %s initialized: %v", idx.id, params)
	return nil
}

// check must be called with at least the read lock held
func (idx *Index) check(vec []float64) error {
	if !idx.ready {
		return ErrNotInitialized
	}
	if len(vec) != idx.params.Dims {
		return &DimensionMismatchError{Expected: idx.params.Dims, Actual: len(vec)}
	}
	return nil
}

// Add hashes the vector with every table and stores it in the matching buckets.
// The vector is copied, the caller keeps the ownership of vec.
func (idx *Index) Add(vec []float64) (err error) {
	start := time.Now()
	idx.mx.RLock()
	defer idx.mx.RUnlock()
	defer func() {
		if idx.ready {
			idx.metrics.RecordAdd(time.Since(start), err)
		}
	}()

	if err = idx.check(vec); err != nil {
		return err
	}
	hashes, err := idx.hasher.hashAll(vec, idx.config.Workers)
	if err != nil {
		return err
	}
	stored := copyVec(vec)
	key := VecKey(stored)
	for t, th := range hashes {
		err = idx.store.Insert(t, th.bucket, store.Entry{
			Fingerprint: th.fingerprint,
			Key:         key,
			Vec:         stored,
		})
		if err != nil {
			return err
		}
	}
	idx.added.Add(1)
	idx.addNanos.Add(int64(time.Since(start)))
	return nil
}

// Delete removes the vector from every table. Entries are matched by the fingerprint
// and by the exact vector values, unless the index was configured with LooseDelete.
// Removal is all or nothing: when some table holds no matching entry,
// nothing is removed and false is returned.
func (idx *Index) Delete(vec []float64) (deleted bool, err error) {
	start := time.Now()
	idx.mx.RLock()
	defer idx.mx.RUnlock()
	defer func() {
		if idx.ready {
			idx.metrics.RecordDelete(time.Since(start), deleted, err)
		}
	}()

	if err = idx.check(vec); err != nil {
		return false, err
	}
	hashes, err := idx.hasher.hashAll(vec, idx.config.Workers)
	if err != nil {
		return false, err
	}
	targets := make([]store.Target, len(hashes))
	for t, th := range hashes {
		targets[t] = store.Target{Table: t, Bucket: th.bucket}
	}
	loose := idx.config.LooseDelete
	match := func(table int, e store.Entry) bool {
		if e.Fingerprint != hashes[table].fingerprint {
			return false
		}
		return loose || floats.Equal(e.Vec, vec)
	}
	_, deleted, err = idx.store.RemoveAll(targets, match)
	if err != nil {
		return false, err
	}
	if deleted {
		idx.deleted.Add(1)
	}
	return deleted, nil
}

// FindNeighbors returns stored vectors within the radius from the query.
// Only vectors sharing a bucket with the query in at least one table are
// considered, and each distinct one is checked against the radius once.
func (idx *Index) FindNeighbors(query []float64, radius float64) (res Result, err error) {
	start := time.Now()
	idx.mx.RLock()
	defer idx.mx.RUnlock()
	defer func() {
		if idx.ready {
			idx.metrics.RecordQuery(res.Stats, err)
		}
	}()

	if err = idx.check(query); err != nil {
		return Result{}, err
	}
	if math.IsNaN(radius) || radius < 0 {
		return Result{}, ErrInvalidRadius
	}
	hashes, err := idx.hasher.hashAll(query, idx.config.Workers)
	if err != nil {
		return Result{}, err
	}
	seen := make(map[string]struct{})
	res.Neighbors = make([][]float64, 0)
	for t, th := range hashes {
		entries, err := idx.store.Lookup(t, th.bucket)
		if err != nil {
			return Result{}, err
		}
		res.Stats.Tables++
		for _, e := range entries {
			res.Stats.Candidates++
			if _, ok := seen[e.Key]; ok {
				continue
			}
			seen[e.Key] = struct{}{}
			res.Stats.Comparisons++
			if L2(query, e.Vec) <= radius {
				res.Neighbors = append(res.Neighbors, copyVec(e.Vec))
			}
		}
	}
	res.Stats.Found = len(res.Neighbors)
	res.Stats.Elapsed = time.Since(start)
	return res, nil
}

// Each calls fn with a copy of every stored vector until fn returns false.
// Every vector is stored in each table, so walking the first one is enough.
func (idx *Index) Each(fn func(vec []float64) bool) error {
	idx.mx.RLock()
	defer idx.mx.RUnlock()
	if !idx.ready {
		return ErrNotInitialized
	}
	return idx.store.Each(0, func(e store.Entry) bool {
		return fn(copyVec(e.Vec))
	})
}

// Params returns the derived index parameters
func (idx *Index) Params() (Params, error) {
	idx.mx.RLock()
	defer idx.mx.RUnlock()
	if !idx.ready {
		return Params{}, ErrNotInitialized
	}
	return idx.params, nil
}

// ID returns the unique id generated on the last Init
func (idx *Index) ID() string {
	idx.mx.RLock()
	defer idx.mx.RUnlock()
	return idx.id
}

// Len returns the number of stored vectors
func (idx *Index) Len() int {
	idx.mx.RLock()
	defer idx.mx.RUnlock()
	if !idx.ready {
		return 0
	}
	return idx.store.Load()[0].Entries
}

// LoadStats returns buckets usage of every table
func (idx *Index) LoadStats() ([]store.TableLoad, error) {
	idx.mx.RLock()
	defer idx.mx.RUnlock()
	if !idx.ready {
		return nil, ErrNotInitialized
	}
	return idx.store.Load(), nil
}

// BuildStats returns time spent on building the index and operations counters
func (idx *Index) BuildStats() BuildStats {
	return BuildStats{
		InitTime: time.Duration(idx.initNanos.Load()),
		AddTime:  time.Duration(idx.addNanos.Load()),
		Added:    idx.added.Load(),
		Deleted:  idx.deleted.Load(),
	}
}
