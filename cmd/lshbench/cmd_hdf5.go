package main

import (
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gasparian/lsh-search-go/annbench/hdf5data"
	"github.com/gasparian/lsh-search-go/lsh"
	"github.com/spf13/cobra"
)

func newHDF5Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hdf5 <file>",
		Short: "Run the benchmark on an ann-benchmarks euclidean dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			logger.Info.Printf("Opening dataset %s...", args[0])
			ds, err := hdf5data.Load(args[0])
			if err != nil {
				return err
			}
			if len(ds.Train) == 0 {
				return hdf5data.ErrEmpty
			}
			logger.Info.Printf("Train set ready (%v entries), test set ready (%v entries)", len(ds.Train), len(ds.Test))

			c.Index.Dims = len(ds.Train[0])
			if !cmd.Flags().Changed("capacity") {
				c.Index.Capacity = len(ds.Train)
			}
			indexConfig, err := newIndexConfig(c, "hdf5")
			if err != nil {
				return err
			}
			idx, err := lsh.New(indexConfig)
			if err != nil {
				return err
			}

			logger.Info.Println("Populating index...")
			start := time.Now()
			bar := pb.StartNew(len(ds.Train))
			for _, vec := range ds.Train {
				bar.Increment()
				if err := idx.Add(vec); err != nil {
					bar.Finish()
					return err
				}
			}
			bar.Finish()
			logger.Info.Printf("Index built in %v", time.Since(start))

			logger.Info.Println("Making predictions...")
			ev, err := hdf5data.Evaluate(cmd.Context(), idx, ds, c.Bench.Radius, limit)
			if err != nil {
				return err
			}
			logger.Info.Printf("Done! Queries: %d; Precision: %.4f; Recall: %.4f; comparisons: %d; query time: %v",
				ev.Queries, ev.Precision, ev.Recall, ev.Comparisons, ev.QueryTime)
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "Number of test vectors to query, all of them if 0")
	return cmd
}
