package annbench

import (
	"fmt"
	"sort"

	"github.com/gasparian/lsh-search-go/lsh"
)

// PrecisionRecall returns ratio of relevant predictions over all predictions
// and over all the true relevant items. Both arrays MUST BE SORTED
func PrecisionRecall(prediction, groundTruth []int) (float64, float64) {
	valid := 0
	for _, val := range prediction {
		idx := sort.SearchInts(groundTruth, val)
		if idx < len(groundTruth) && groundTruth[idx] == val {
			valid++
		}
	}
	precision := 0.0
	if len(prediction) > 0 {
		precision = float64(valid) / float64(len(prediction))
	}
	recall := 1.0
	if len(groundTruth) > 0 {
		recall = float64(valid) / float64(len(groundTruth))
	}
	return precision, recall
}

// BruteForce scans all the vectors and returns ones within the radius from the query
func BruteForce(vecs [][]float64, query []float64, radius float64) [][]float64 {
	found := make([][]float64, 0)
	for _, vec := range vecs {
		if lsh.L2(query, vec) <= radius {
			found = append(found, vec)
		}
	}
	return found
}

// BruteForceIndex does the full scan over vectors stored in the index
func BruteForceIndex(idx *lsh.Index, query []float64, radius float64) ([][]float64, int, error) {
	found := make([][]float64, 0)
	scanned := 0
	err := idx.Each(func(vec []float64) bool {
		scanned++
		if lsh.L2(query, vec) <= radius {
			found = append(found, vec)
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	return found, scanned, nil
}

// Compare splits vectors found by the index against the exact answer
func Compare(found, truth [][]float64) Comparison {
	c := Comparison{
		Both:   make([][]float64, 0),
		Missed: make([][]float64, 0),
		Extra:  make([][]float64, 0),
	}
	foundSet := make(map[string]bool, len(found))
	for _, vec := range found {
		foundSet[lsh.VecKey(vec)] = true
	}
	truthSet := make(map[string]bool, len(truth))
	for _, vec := range truth {
		key := lsh.VecKey(vec)
		if truthSet[key] {
			continue
		}
		truthSet[key] = true
		if foundSet[key] {
			c.Both = append(c.Both, vec)
		} else {
			c.Missed = append(c.Missed, vec)
		}
	}
	for _, vec := range found {
		if !truthSet[lsh.VecKey(vec)] {
			c.Extra = append(c.Extra, vec)
		}
	}
	return c
}

// Recall returns the share of the exact answer found by the index
func (c Comparison) Recall() float64 {
	total := len(c.Both) + len(c.Missed)
	if total == 0 {
		return 1.0
	}
	return float64(len(c.Both)) / float64(total)
}

// Recall returns the share of inner vectors found over all the queries
func (r Report) Recall() float64 {
	total := r.Both + r.Missed
	if total == 0 {
		return 1.0
	}
	return float64(r.Both) / float64(total)
}

func (r Report) String() string {
	return fmt.Sprintf(
		"queries: %d; inserted: %d; inner: %d; outer: %d; found by both: %d; missed: %d; extra: %d; recall: %.4f; "+
			"index comparisons: %d; full scan comparisons: %d; query time: %v; full scan time: %v; build time: %v",
		r.Queries, r.Inserted, r.Inner, r.Outer, r.Both, r.Missed, r.Extra, r.Recall(),
		r.Comparisons, r.BruteForce, r.QueryTime, r.ScanTime, r.Build.InitTime+r.Build.AddTime,
	)
}
