package store

import (
	"errors"
)

var (
	// ErrTableNotFound returned when the table index is out of range
	ErrTableNotFound = errors.New("table not found")
	// ErrBucketOutOfRange returned when the bucket index is not lower than the table size
	ErrBucketOutOfRange = errors.New("bucket index out of range")
)

// Entry is a single record inside a bucket.
// Key is a byte encoding of Vec and identifies equal vectors across tables.
type Entry struct {
	ID          string
	Fingerprint uint64
	Key         string
	Vec         []float64
}

// Target addresses one bucket of one table
type Target struct {
	Table  int
	Bucket uint64
}

// Matcher reports whether the entry found in the table must be removed
type Matcher func(table int, e Entry) bool

// TableLoad describes how full a single table is
type TableLoad struct {
	Buckets   int
	Entries   int
	MaxBucket int
}

// Store holds L independent tables, each of them maps
// the bucket index to the list of entries.
// Entries are never mutated after insertion: a bucket
// slice returned by Lookup stays valid after later writes.
type Store interface {
	Tables() int
	TableSize() uint64
	Insert(table int, bucket uint64, e Entry) error
	Lookup(table int, bucket uint64) ([]Entry, error)
	Remove(table int, bucket uint64, match Matcher) (int, error)
	// RemoveAll removes matching entries from every target or from none of them:
	// when at least one target holds no matching entry nothing is removed and ok is false.
	RemoveAll(targets []Target, match Matcher) (removed int, ok bool, err error)
	Each(table int, fn func(e Entry) bool) error
	Load() []TableLoad
	Clear() error
}
