package lsh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// CollisionProbability returns the probability that two points at distance 1
// get the same hash from a single projection with the bucket width omega:
// erf(omega/√2) - √(2/π)/omega * (1 - exp(-omega²/2))
func CollisionProbability(omega float64) float64 {
	erf := 2*distuv.UnitNormal.CDF(omega) - 1
	return erf - math.Sqrt(2/math.Pi)/omega*(1-math.Exp(-omega*omega/2))
}

// TableCount returns the smallest number of tables L for which
// (1 - p1^k)^L <= delta, i.e. ceil(log(delta) / log(1 - p1^k))
func TableCount(omega float64, k int, delta float64) (int, error) {
	if !(omega > 0) || math.IsInf(omega, 0) {
		return 0, configErr("bucket width must be a positive number, got %v", omega)
	}
	if k <= 0 {
		return 0, configErr("hash functions number must be a positive integer, got %d", k)
	}
	if !(delta > 0 && delta <= 1) {
		return 0, configErr("delta must be in (0, 1], got %v", delta)
	}
	pk := math.Pow(CollisionProbability(omega), float64(k))
	if !(pk > 0 && pk < 1) {
		return 0, configErr("degenerate collision probability p1^k = %v for omega %v and k %d", pk, omega, k)
	}
	l := math.Ceil(math.Log(delta) / math.Log1p(-pk))
	if math.IsNaN(l) || math.IsInf(l, 0) || l < 1 {
		return 0, configErr("no finite positive tables number for delta %v (got %v)", delta, l)
	}
	if l > MaxTables {
		return 0, configErr("tables number %v exceeds the limit of %d", l, MaxTables)
	}
	return int(l), nil
}

func (p Params) String() string {
	return fmt.Sprintf(
		"vectors (n): %d; dimensions (d): %d; tables (L): %d; hash functions per table (k): %d; omega: %v; delta: %v; table size: %d; prime: %d",
		p.Capacity, p.Dims, p.L, p.K, p.Omega, p.Delta, p.TableSize, p.Prime,
	)
}
