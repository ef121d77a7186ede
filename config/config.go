package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gasparian/lsh-search-go/lsh"
	"gopkg.in/yaml.v3"
)

// IndexConfig holds the index parameters
type IndexConfig struct {
	Omega       float64 `yaml:"omega"`
	K           int     `yaml:"k"`
	Dims        int     `yaml:"dims"`
	Delta       float64 `yaml:"delta"`
	Capacity    int     `yaml:"capacity"`
	Seed        uint64  `yaml:"seed"`
	Workers     int     `yaml:"workers"`
	LooseDelete bool    `yaml:"looseDelete"`
}

// BenchConfig holds the synthetic benchmark parameters
type BenchConfig struct {
	Vectors    int     `yaml:"vectors"`
	InnerEvery int     `yaml:"innerEvery"`
	Queries    int     `yaml:"queries"`
	Radius     float64 `yaml:"radius"`
	Border     float64 `yaml:"border"`
}

// Config is the bench tool config
type Config struct {
	Index   IndexConfig `yaml:"index"`
	Bench   BenchConfig `yaml:"bench"`
	Metrics string      `yaml:"metrics"` // address to serve prometheus metrics on, disabled if empty
}

// Default returns the parameters the index was originally tuned with
func Default() Config {
	return Config{
		Index: IndexConfig{
			Omega:    4,
			K:        4,
			Dims:     100,
			Delta:    0.1,
			Capacity: 1000,
			Workers:  1,
		},
		Bench: BenchConfig{
			Vectors:    1000,
			InnerEvery: 200,
			Queries:    1,
			Radius:     1,
			Border:     50,
		},
	}
}

// Load reads the yaml file on top of the defaults, empty path skips the file.
// Environment variables override the file values
func Load(path string) (Config, error) {
	config := Default()
	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	if err := config.ParseEnv(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// ParseEnv overrides the config with the set environment variables
func (c *Config) ParseEnv() error {
	intVars := map[string]*int{
		"LSH_K":           &c.Index.K,
		"LSH_DIMS":        &c.Index.Dims,
		"LSH_CAPACITY":    &c.Index.Capacity,
		"LSH_WORKERS":     &c.Index.Workers,
		"LSH_VECTORS":     &c.Bench.Vectors,
		"LSH_INNER_EVERY": &c.Bench.InnerEvery,
		"LSH_QUERIES":     &c.Bench.Queries,
	}
	for key, dst := range intVars {
		val, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("env value %s: %w", key, err)
		}
		*dst = parsed
	}
	floatVars := map[string]*float64{
		"LSH_OMEGA":  &c.Index.Omega,
		"LSH_DELTA":  &c.Index.Delta,
		"LSH_RADIUS": &c.Bench.Radius,
		"LSH_BORDER": &c.Bench.Border,
	}
	for key, dst := range floatVars {
		val, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("env value %s: %w", key, err)
		}
		*dst = parsed
	}
	if val, ok := os.LookupEnv("LSH_SEED"); ok {
		seed, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return fmt.Errorf("env value LSH_SEED: %w", err)
		}
		c.Index.Seed = seed
	}
	if val, ok := os.LookupEnv("LSH_METRICS_ADDR"); ok {
		c.Metrics = val
	}
	return nil
}

// LSH converts the index section to the index config
func (c IndexConfig) LSH() lsh.Config {
	return lsh.Config{
		Omega:       c.Omega,
		K:           c.K,
		Dims:        c.Dims,
		Delta:       c.Delta,
		Capacity:    c.Capacity,
		Seed:        c.Seed,
		Workers:     c.Workers,
		LooseDelete: c.LooseDelete,
	}
}
