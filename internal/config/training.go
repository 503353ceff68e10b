package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/lexgo-ia/lexgo/internal/classifier"
)

const (
	EnvLexgoTrainingSeed  = "LEXGO_TRAINING_SEED"
	EnvLexgoTrainingTrees = "LEXGO_TRAINING_TREES"
)

// TrainingConfig tunes dataset splitting and model fitting.
type TrainingConfig struct {
	Seed            uint64  `toml:"seed"`
	TestFraction    float64 `toml:"test_fraction"`
	Trees           int     `toml:"trees"`
	MaxDepth        int     `toml:"max_depth"`
	MinSamplesSplit int     `toml:"min_samples_split"`
	MaxFeatures     int     `toml:"max_features"`
}

// Finalize applies defaults, environment overrides, and validation.
func (c *TrainingConfig) Finalize() error {
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.TestFraction == 0 {
		c.TestFraction = 0.2
	}
	if c.Trees == 0 {
		c.Trees = 100
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = 20
	}
	if c.MinSamplesSplit == 0 {
		c.MinSamplesSplit = 5
	}
	if c.MaxFeatures == 0 {
		c.MaxFeatures = 1000
	}

	if v := os.Getenv(EnvLexgoTrainingSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvLexgoTrainingSeed, err)
		}
		c.Seed = seed
	}
	if v := os.Getenv(EnvLexgoTrainingTrees); v != "" {
		trees, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvLexgoTrainingTrees, err)
		}
		c.Trees = trees
	}

	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test_fraction %v outside (0, 1)", c.TestFraction)
	}
	if c.Trees < 1 {
		return fmt.Errorf("trees must be positive")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *TrainingConfig) Merge(overlay *TrainingConfig) {
	if overlay.Seed != 0 {
		c.Seed = overlay.Seed
	}
	if overlay.TestFraction != 0 {
		c.TestFraction = overlay.TestFraction
	}
	if overlay.Trees != 0 {
		c.Trees = overlay.Trees
	}
	if overlay.MaxDepth != 0 {
		c.MaxDepth = overlay.MaxDepth
	}
	if overlay.MinSamplesSplit != 0 {
		c.MinSamplesSplit = overlay.MinSamplesSplit
	}
	if overlay.MaxFeatures != 0 {
		c.MaxFeatures = overlay.MaxFeatures
	}
}

// VectorizerConfig translates the training section into vectorizer
// parameters.
func (c *TrainingConfig) VectorizerConfig() classifier.VectorizerConfig {
	vcfg := classifier.DefaultVectorizerConfig()
	vcfg.MaxFeatures = c.MaxFeatures
	return vcfg
}

// ForestConfig translates the training section into forest parameters.
func (c *TrainingConfig) ForestConfig() classifier.ForestConfig {
	return classifier.ForestConfig{
		Trees:           c.Trees,
		MaxDepth:        c.MaxDepth,
		MinSamplesSplit: c.MinSamplesSplit,
		Seed:            c.Seed,
	}
}
