package hdf5data

import (
	"context"
	"sort"
	"time"

	bench "github.com/gasparian/lsh-search-go/annbench"
	"github.com/gasparian/lsh-search-go/lsh"
)

// Evaluation holds precision and recall averaged over the test vectors
type Evaluation struct {
	Queries     int
	Precision   float64
	Recall      float64
	Comparisons int
	QueryTime   time.Duration
}

// Evaluate queries the index, filled with the train set in order, with up to limit test vectors
// and compares the answers with the ground truth neighbors within the radius
func Evaluate(ctx context.Context, idx *lsh.Index, ds *Dataset, radius float64, limit int) (Evaluation, error) {
	// equal train vectors are reported once, so every id sharing the key counts as found
	ids := make(map[string][]int, len(ds.Train))
	for i, vec := range ds.Train {
		key := lsh.VecKey(vec)
		ids[key] = append(ids[key], i)
	}
	if limit <= 0 || limit > len(ds.Test) {
		limit = len(ds.Test)
	}
	ev := Evaluation{}
	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return Evaluation{}, err
		}
		res, err := idx.FindNeighbors(ds.Test[i], radius)
		if err != nil {
			return Evaluation{}, err
		}
		prediction := make([]int, 0, len(res.Neighbors))
		for _, vec := range res.Neighbors {
			prediction = append(prediction, ids[lsh.VecKey(vec)]...)
		}
		sort.Ints(prediction)
		p, r := bench.PrecisionRecall(prediction, ds.WithinRadius(i, radius))
		ev.Precision += p
		ev.Recall += r
		ev.Comparisons += res.Stats.Comparisons
		ev.QueryTime += res.Stats.Elapsed
		ev.Queries++
	}
	if ev.Queries > 0 {
		ev.Precision /= float64(ev.Queries)
		ev.Recall /= float64(ev.Queries)
	}
	return ev, nil
}
