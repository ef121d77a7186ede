package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	cm "github.com/gasparian/lsh-search-go/common"
	"github.com/gasparian/lsh-search-go/config"
	"github.com/gasparian/lsh-search-go/lsh"
	"github.com/gasparian/lsh-search-go/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var logger = cm.GetNewLogger()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Err.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lshbench",
		Short: "Radius search benchmarks for the p-stable LSH index",
		Long: `lshbench builds the LSH index over synthetic or ann-benchmarks data
and compares its answers with the full scan.

Parameters are read from the yaml config, then from LSH_* environment
variables, then from the flags.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to the yaml config")
	rootCmd.PersistentFlags().Float64("omega", 0, "Bucket width")
	rootCmd.PersistentFlags().Int("k", 0, "Hash functions per table")
	rootCmd.PersistentFlags().Int("dims", 0, "Vectors dimensionality")
	rootCmd.PersistentFlags().Float64("delta", 0, "Miss probability bound")
	rootCmd.PersistentFlags().Int("capacity", 0, "Expected number of vectors")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Hash functions seed, 0 means the clock")
	rootCmd.PersistentFlags().Int("workers", 0, "Tables hashed concurrently")
	rootCmd.PersistentFlags().Float64("radius", 0, "Search radius")
	rootCmd.PersistentFlags().String("metrics", "", "Address to serve prometheus metrics on")

	rootCmd.AddCommand(
		newSyntheticCmd(),
		newHDF5Cmd(),
		newParamsCmd(),
	)
	return rootCmd
}

// loadConfig reads the config file and the environment, then applies the flags set explicitly
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("omega") {
		c.Index.Omega, _ = flags.GetFloat64("omega")
	}
	if flags.Changed("k") {
		c.Index.K, _ = flags.GetInt("k")
	}
	if flags.Changed("dims") {
		c.Index.Dims, _ = flags.GetInt("dims")
	}
	if flags.Changed("delta") {
		c.Index.Delta, _ = flags.GetFloat64("delta")
	}
	if flags.Changed("capacity") {
		c.Index.Capacity, _ = flags.GetInt("capacity")
	}
	if flags.Changed("seed") {
		c.Index.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("workers") {
		c.Index.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("radius") {
		c.Bench.Radius, _ = flags.GetFloat64("radius")
	}
	if flags.Changed("metrics") {
		c.Metrics, _ = flags.GetString("metrics")
	}
	return c, nil
}

// newIndexConfig attaches the logger and, when the address is set, the prometheus collector
func newIndexConfig(c config.Config, name string) (lsh.Config, error) {
	indexConfig := c.Index.LSH()
	indexConfig.Logger = logger
	if len(c.Metrics) == 0 {
		return indexConfig, nil
	}
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(name, reg)
	if err != nil {
		return lsh.Config{}, err
	}
	indexConfig.Metrics = collector

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		logger.Info.Printf("Serving metrics on %s", c.Metrics)
		if err := http.ListenAndServe(c.Metrics, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Err.Println(fmt.Errorf("metrics server: %w", err))
		}
	}()
	return indexConfig, nil
}
