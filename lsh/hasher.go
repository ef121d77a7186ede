package lsh

import (
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/stat/distuv"
)

// projection is a single p-stable hash function: floor((a·v + b) / omega)
type projection struct {
	a blas64.Vector
	b float64
}

// family holds k projections for every one of L tables
type family struct {
	omega       float64
	dims        int
	projections [][]projection
}

// newFamily draws projection vectors from N(0, 1) and offsets from U[0, omega]
func newFamily(l, k, dims int, omega float64, src rand.Source) (*family, error) {
	if dims <= 0 {
		return nil, configErr("dimensions number must be a positive integer, got %d", dims)
	}
	if k <= 0 {
		return nil, configErr("hash functions number must be a positive integer, got %d", k)
	}
	if !(omega > 0) || math.IsInf(omega, 0) {
		return nil, configErr("bucket width must be a positive number, got %v", omega)
	}
	if l <= 0 {
		return nil, configErr("tables number must be a positive integer, got %d", l)
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	uniform := distuv.Uniform{Min: 0, Max: omega, Src: src}
	projections := make([][]projection, l)
	for t := range projections {
		projections[t] = make([]projection, k)
		for i := range projections[t] {
			a := make([]float64, dims)
			for j := range a {
				a[j] = normal.Rand()
			}
			projections[t][i] = projection{
				a: NewVec(a),
				b: uniform.Rand(),
			}
		}
	}
	return &family{
		omega:       omega,
		dims:        dims,
		projections: projections,
	}, nil
}

// hash computes a single projection hash of the vector
func (f *family) hash(vec blas64.Vector, table, i int) (int64, error) {
	p := &f.projections[table][i]
	val := math.Floor((blas64.Dot(p.a, vec) + p.b) / f.omega)
	if math.IsNaN(val) || math.Abs(val) > maxRawHash {
		return 0, fmt.Errorf("%w: projection %d of table %d is %v", ErrNumericOverflow, i, table, val)
	}
	return int64(val), nil
}

// rawHashes returns k projection hashes of the vector for the table
func (f *family) rawHashes(vec blas64.Vector, table int) ([]int64, error) {
	raw := make([]int64, len(f.projections[table]))
	var err error
	for i := range raw {
		raw[i], err = f.hash(vec, table, i)
		if err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// tableHash is where the vector lands in a single table
type tableHash struct {
	bucket      uint64
	fingerprint uint64
}

// hasher folds raw hashes of a table into the bucket index and the fingerprint.
// All the arithmetic is done in uint64 with every term reduced by Prime (< 2^32),
// so a product of two reduced terms never exceeds 2^64 and nothing wraps.
type hasher struct {
	family    *family
	h1        []uint64
	h2        []uint64
	tableSize uint64
}

func newHasher(f *family, k int, tableSize uint64, rng *rand.Rand) *hasher {
	h1 := make([]uint64, k)
	h2 := make([]uint64, k)
	for i := 0; i < k; i++ {
		h1[i] = rng.Uint64N(Prime-1) + 1
		h2[i] = rng.Uint64N(Prime-1) + 1
	}
	return &hasher{
		family:    f,
		h1:        h1,
		h2:        h2,
		tableSize: tableSize,
	}
}

// modPrime maps any int64 into [0, Prime)
func modPrime(v int64) uint64 {
	m := v % int64(Prime)
	if m < 0 {
		m += int64(Prime)
	}
	return uint64(m)
}

// combine returns (Σ raw[i] * coefs[i]) mod Prime
func combine(raw []int64, coefs []uint64) uint64 {
	var acc uint64
	for i, r := range raw {
		acc = (acc + (modPrime(r)*coefs[i])%Prime) % Prime
	}
	return acc
}

func (h *hasher) bucketIndex(raw []int64) uint64 {
	return combine(raw, h.h1) % h.tableSize
}

func (h *hasher) fingerprint(raw []int64) uint64 {
	return combine(raw, h.h2)
}

func (h *hasher) hashTable(vec blas64.Vector, table int) (tableHash, error) {
	raw, err := h.family.rawHashes(vec, table)
	if err != nil {
		return tableHash{}, err
	}
	return tableHash{
		bucket:      h.bucketIndex(raw),
		fingerprint: h.fingerprint(raw),
	}, nil
}

// hashAll hashes the vector for every table, up to workers tables at once
func (h *hasher) hashAll(inpVec []float64, workers int) ([]tableHash, error) {
	vec := NewVec(inpVec)
	hashes := make([]tableHash, len(h.family.projections))
	if workers <= 1 || len(hashes) == 1 {
		var err error
		for t := range hashes {
			hashes[t], err = h.hashTable(vec, t)
			if err != nil {
				return nil, err
			}
		}
		return hashes, nil
	}
	g := errgroup.Group{}
	g.SetLimit(workers)
	for t := range hashes {
		t := t
		g.Go(func() error {
			th, err := h.hashTable(vec, t)
			if err != nil {
				return err
			}
			hashes[t] = th
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hashes, nil
}
