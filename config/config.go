// Package config loads training parameters from a YAML file or the
// environment.
package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"

	"github.com/cardsolver/go-cfr"
)

const (
	AlgorithmCFR   = "cfr"
	AlgorithmMCCFR = "mccfr"
)

// Train holds the parameters of a training run.
type Train struct {
	// Either "cfr" (exhaustive CFR+) or "mccfr" (ranked sampling).
	Algorithm  string  `yaml:"algorithm" env:"CFR_ALGORITHM" env-default:"cfr"`
	Iterations int     `yaml:"iterations" env:"CFR_ITERATIONS" env-default:"1000"`
	SampleRate float64 `yaml:"sample_rate" env:"CFR_SAMPLE_RATE" env-default:"0.5"`
	// Zero selects the algorithm's default depth limit.
	MaxDepth int   `yaml:"max_depth" env:"CFR_MAX_DEPTH" env-default:"0"`
	Seed     int64 `yaml:"seed" env:"CFR_SEED" env-default:"0"`

	// Shards > 1 trains the exhaustive solver in parallel.
	Shards      int `yaml:"shards" env:"CFR_SHARDS" env-default:"1"`
	Generations int `yaml:"generations" env:"CFR_GENERATIONS" env-default:"1"`

	ResolveIterations int `yaml:"resolve_iterations" env:"CFR_RESOLVE_ITERATIONS" env-default:"0"`
	EvalSamples       int `yaml:"eval_samples" env:"CFR_EVAL_SAMPLES" env-default:"1000"`
}

// Load reads a Train config from the YAML file at path, or from the
// environment if path is empty, and validates it.
func Load(path string) (*Train, error) {
	cfg := &Train{}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}

	if err != nil {
		return nil, errors.Wrap(err, "error reading config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the config describes a runnable training job.
func (c *Train) Validate() error {
	switch c.Algorithm {
	case AlgorithmCFR, AlgorithmMCCFR:
	default:
		return errors.Errorf("unknown algorithm: %q", c.Algorithm)
	}

	if c.Iterations < 0 {
		return errors.Errorf("invalid number of iterations: %d", c.Iterations)
	}

	if c.SampleRate <= 0 || c.SampleRate > 1 {
		return errors.Errorf("sample rate must be in (0, 1]: %v", c.SampleRate)
	}

	if c.MaxDepth < 0 {
		return errors.Errorf("invalid max depth: %d", c.MaxDepth)
	}

	if c.Shards < 1 || c.Generations < 1 {
		return errors.Errorf("shards and generations must be positive: %d, %d", c.Shards, c.Generations)
	}

	if c.Shards > 1 && c.Algorithm != AlgorithmCFR {
		return errors.Errorf("parallel training requires algorithm %q", AlgorithmCFR)
	}

	if c.ResolveIterations < 0 || c.EvalSamples < 0 {
		return errors.Errorf("resolve iterations and eval samples must be non-negative: %d, %d",
			c.ResolveIterations, c.EvalSamples)
	}

	return nil
}

// Params returns the trainer parameters for the configured algorithm.
func (c *Train) Params() cfr.Params {
	params := cfr.DefaultParams()
	if c.Algorithm == AlgorithmMCCFR {
		params = cfr.DefaultMCCFRParams()
	}

	if c.MaxDepth > 0 {
		params.MaxDepth = c.MaxDepth
	}

	params.Seed = c.Seed
	return params
}

// ParallelParams returns the sharding parameters.
func (c *Train) ParallelParams() cfr.ParallelParams {
	return cfr.ParallelParams{Shards: c.Shards, Generations: c.Generations}
}
