package kv

import (
	"sort"
	"sync"

	"github.com/gasparian/lsh-search-go/store"
	guuid "github.com/google/uuid"
)

var _ store.Store = (*KVStore)(nil)

type table struct {
	mx      sync.RWMutex
	buckets map[uint64][]store.Entry
}

// KVStore keeps all the tables in memory.
// Every table is guarded by its own lock, so writes
// into different tables never wait for each other.
type KVStore struct {
	tableSize uint64
	tables    []*table
}

// NewKVStore creates nTables empty tables with tableSize bucket slots each
func NewKVStore(nTables int, tableSize uint64) *KVStore {
	tables := make([]*table, nTables)
	for i := range tables {
		tables[i] = &table{buckets: make(map[uint64][]store.Entry)}
	}
	return &KVStore{
		tableSize: tableSize,
		tables:    tables,
	}
}

func (s *KVStore) Tables() int {
	return len(s.tables)
}

func (s *KVStore) TableSize() uint64 {
	return s.tableSize
}

func (s *KVStore) getTable(idx int, bucket uint64) (*table, error) {
	if idx < 0 || idx >= len(s.tables) {
		return nil, store.ErrTableNotFound
	}
	if bucket >= s.tableSize {
		return nil, store.ErrBucketOutOfRange
	}
	return s.tables[idx], nil
}

// Insert appends the entry to the bucket, the bucket gets created on first use
func (s *KVStore) Insert(tableIdx int, bucket uint64, e store.Entry) error {
	t, err := s.getTable(tableIdx, bucket)
	if err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = guuid.NewString()
	}
	t.mx.Lock()
	defer t.mx.Unlock()
	t.buckets[bucket] = append(t.buckets[bucket], e)
	return nil
}

// Lookup returns entries of the bucket, or empty slice if there is no such bucket
func (s *KVStore) Lookup(tableIdx int, bucket uint64) ([]store.Entry, error) {
	t, err := s.getTable(tableIdx, bucket)
	if err != nil {
		return nil, err
	}
	t.mx.RLock()
	defer t.mx.RUnlock()
	entries := t.buckets[bucket]
	return entries[:len(entries):len(entries)], nil
}

// filter builds a new slice so readers holding the old one are not affected
func filter(tableIdx int, entries []store.Entry, match store.Matcher) ([]store.Entry, int) {
	kept := make([]store.Entry, 0, len(entries))
	for _, e := range entries {
		if match(tableIdx, e) {
			continue
		}
		kept = append(kept, e)
	}
	return kept, len(entries) - len(kept)
}

func (t *table) replace(bucket uint64, kept []store.Entry) {
	if len(kept) == 0 {
		delete(t.buckets, bucket)
		return
	}
	t.buckets[bucket] = kept
}

// Remove drops all the matching entries from the bucket and returns their number
func (s *KVStore) Remove(tableIdx int, bucket uint64, match store.Matcher) (int, error) {
	t, err := s.getTable(tableIdx, bucket)
	if err != nil {
		return 0, err
	}
	t.mx.Lock()
	defer t.mx.Unlock()
	entries, ok := t.buckets[bucket]
	if !ok {
		return 0, nil
	}
	kept, removed := filter(tableIdx, entries, match)
	if removed > 0 {
		t.replace(bucket, kept)
	}
	return removed, nil
}

// RemoveAll locks every targeted table in ascending order, checks that
// each target holds at least one matching entry and only then removes them
func (s *KVStore) RemoveAll(targets []store.Target, match store.Matcher) (int, bool, error) {
	sorted := make([]store.Target, len(targets))
	copy(sorted, targets)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Table == sorted[j].Table {
			return sorted[i].Bucket < sorted[j].Bucket
		}
		return sorted[i].Table < sorted[j].Table
	})
	locked := make([]*table, 0, len(sorted))
	defer func() {
		for _, t := range locked {
			t.mx.Unlock()
		}
	}()
	for i, target := range sorted {
		t, err := s.getTable(target.Table, target.Bucket)
		if err != nil {
			return 0, false, err
		}
		if i > 0 && sorted[i-1].Table == target.Table {
			continue
		}
		t.mx.Lock()
		locked = append(locked, t)
	}

	staged := make([][]store.Entry, len(sorted))
	for i, target := range sorted {
		t := s.tables[target.Table]
		kept, removed := filter(target.Table, t.buckets[target.Bucket], match)
		if removed == 0 {
			return 0, false, nil
		}
		staged[i] = kept
	}
	total := 0
	for i, target := range sorted {
		t := s.tables[target.Table]
		total += len(t.buckets[target.Bucket]) - len(staged[i])
		t.replace(target.Bucket, staged[i])
	}
	return total, true, nil
}

// Each calls fn for every entry of the table until fn returns false.
// fn runs over a snapshot, so it may call back into the store.
func (s *KVStore) Each(tableIdx int, fn func(e store.Entry) bool) error {
	if tableIdx < 0 || tableIdx >= len(s.tables) {
		return store.ErrTableNotFound
	}
	t := s.tables[tableIdx]
	t.mx.RLock()
	snapshot := make([][]store.Entry, 0, len(t.buckets))
	for _, entries := range t.buckets {
		snapshot = append(snapshot, entries[:len(entries):len(entries)])
	}
	t.mx.RUnlock()

	for _, entries := range snapshot {
		for _, e := range entries {
			if !fn(e) {
				return nil
			}
		}
	}
	return nil
}

// Load returns buckets usage for every table
func (s *KVStore) Load() []store.TableLoad {
	loads := make([]store.TableLoad, len(s.tables))
	for i, t := range s.tables {
		t.mx.RLock()
		load := store.TableLoad{Buckets: len(t.buckets)}
		for _, entries := range t.buckets {
			load.Entries += len(entries)
			if len(entries) > load.MaxBucket {
				load.MaxBucket = len(entries)
			}
		}
		t.mx.RUnlock()
		loads[i] = load
	}
	return loads
}

// Clear drops every bucket of every table
func (s *KVStore) Clear() error {
	for _, t := range s.tables {
		t.mx.Lock()
		t.buckets = make(map[uint64][]store.Entry)
		t.mx.Unlock()
	}
	return nil
}
