package annbench

import (
	"context"
	"time"

	cm "github.com/gasparian/lsh-search-go/common"
	"github.com/gasparian/lsh-search-go/lsh"
)

// Run builds a fresh index per query, fills it with vectors around the query
// and compares the index answer with the full scan
func Run(ctx context.Context, config RunConfig) (Report, error) {
	if config.Vectors <= 0 || config.Queries <= 0 {
		return Report{}, errBadRun
	}
	if config.InnerEvery <= 0 {
		config.InnerEvery = config.Vectors
	}
	if config.Logger == nil {
		config.Logger = cm.NewDiscardLogger()
	}
	if config.Seed == 0 {
		config.Seed = uint64(time.Now().UnixNano())
	}
	if config.Index.Capacity == 0 {
		config.Index.Capacity = config.Vectors
	}
	gen, err := NewGenerator(config.Index.Dims, config.Radius, config.Border, config.Seed)
	if err != nil {
		return Report{}, err
	}

	report := Report{}
	var idx *lsh.Index
	for q := 0; q < config.Queries; q++ {
		indexConfig := config.Index
		if indexConfig.Seed != 0 {
			indexConfig.Seed += uint64(q)
		}
		idx, err = lsh.New(indexConfig)
		if err != nil {
			return Report{}, err
		}
		query := gen.Query()
		for i := 0; i < config.Vectors; i++ {
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}
			var vec []float64
			if i%config.InnerEvery == 0 {
				vec = gen.Inner(query)
			} else {
				vec, err = gen.Outer(query)
				if err != nil {
					return Report{}, err
				}
			}
			if err := idx.Add(vec); err != nil {
				return Report{}, err
			}
			report.Inserted++
			if config.Progress != nil {
				config.Progress(report.Inserted)
			}
		}

		res, err := idx.FindNeighbors(query, config.Radius)
		if err != nil {
			return Report{}, err
		}
		start := time.Now()
		truth, scanned, err := BruteForceIndex(idx, query, config.Radius)
		if err != nil {
			return Report{}, err
		}
		report.ScanTime += time.Since(start)
		report.QueryTime += res.Stats.Elapsed
		report.Candidates += res.Stats.Candidates
		report.Comparisons += res.Stats.Comparisons
		report.BruteForce += scanned

		c := Compare(res.Neighbors, truth)
		report.Both += len(c.Both)
		report.Missed += len(c.Missed)
		report.Extra += len(c.Extra)
		if len(c.Missed) > 0 {
			config.Logger.Info.Printf("Query %d: %d of %d neighbors missed", q, len(c.Missed), len(truth))
		}

		build := idx.BuildStats()
		report.Build.InitTime += build.InitTime
		report.Build.AddTime += build.AddTime
		report.Build.Added += build.Added
		report.Queries++
	}
	report.Inner, report.Outer = gen.Counts()
	report.Params, err = idx.Params()
	if err != nil {
		return Report{}, err
	}
	return report, nil
}
