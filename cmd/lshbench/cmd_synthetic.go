package main

import (
	"github.com/cheggaaa/pb/v3"
	bench "github.com/gasparian/lsh-search-go/annbench"
	"github.com/spf13/cobra"
)

func newSyntheticCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synthetic",
		Short: "Run the benchmark on vectors generated around random queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("vectors") {
				c.Bench.Vectors, _ = flags.GetInt("vectors")
			}
			if flags.Changed("queries") {
				c.Bench.Queries, _ = flags.GetInt("queries")
			}
			if flags.Changed("inner-every") {
				c.Bench.InnerEvery, _ = flags.GetInt("inner-every")
			}
			if flags.Changed("border") {
				c.Bench.Border, _ = flags.GetFloat64("border")
			}
			indexConfig, err := newIndexConfig(c, "synthetic")
			if err != nil {
				return err
			}

			bar := pb.StartNew(c.Bench.Vectors * c.Bench.Queries)
			report, err := bench.Run(cmd.Context(), bench.RunConfig{
				Index:      indexConfig,
				Vectors:    c.Bench.Vectors,
				InnerEvery: c.Bench.InnerEvery,
				Queries:    c.Bench.Queries,
				Radius:     c.Bench.Radius,
				Border:     c.Bench.Border,
				Seed:       c.Index.Seed,
				Logger:     logger,
				Progress:   func(int) { bar.Increment() },
			})
			bar.Finish()
			if err != nil {
				return err
			}
			logger.Info.Printf("Index: %v", report.Params)
			logger.Info.Printf("Done! %v", report)
			return nil
		},
	}
	cmd.Flags().Int("vectors", 0, "Vectors inserted per query")
	cmd.Flags().Int("queries", 0, "Number of queries")
	cmd.Flags().Int("inner-every", 0, "One vector within the radius per this many inserts")
	cmd.Flags().Float64("border", 0, "Side of the box vectors are generated in")
	return cmd
}
