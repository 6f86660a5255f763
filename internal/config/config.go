// Package config loads and validates the run configuration for the
// training CLI. Values flow defaults → YAML file → command-line flags, with
// the flag layer applied by the caller.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is package-shared; validator instances cache struct metadata.
var validate = validator.New()

// TrainConfig is the full configuration for one training run.
type TrainConfig struct {
	Data  DataConfig  `yaml:"data"`
	Model ModelConfig `yaml:"model"`
	Optim OptimConfig `yaml:"optim"`

	// Loss selects the training objective.
	Loss string `yaml:"loss" validate:"oneof=mse l1"`

	// Epochs is the number of full passes over the generated batch.
	Epochs int `yaml:"epochs" validate:"gt=0"`

	// Seed feeds the data generator's random source. Same seed, same data.
	Seed int64 `yaml:"seed"`

	// Device selects the compute backend.
	Device string `yaml:"device" validate:"oneof=cpu gpu"`

	// Holdout is the fraction of generated samples reserved for
	// evaluation. Zero trains on everything and skips evaluation.
	Holdout float64 `yaml:"holdout" validate:"gte=0,lt=1"`

	// LogLevel sets the slog level.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// DataConfig parameterizes the synthetic linear dataset.
type DataConfig struct {
	Samples int     `yaml:"samples" validate:"gt=0"`
	Noise   float64 `yaml:"noise" validate:"gte=0"`
	Slope   float64 `yaml:"slope"`
	Bias    float64 `yaml:"bias"`
}

// ModelConfig describes the affine model to train.
type ModelConfig struct {
	Inputs  int `yaml:"inputs" validate:"gt=0"`
	Outputs int `yaml:"outputs" validate:"gt=0"`

	// FixedBias pins the bias to a constant the optimizer never updates,
	// for the constrained-fit exercise. Nil leaves the bias trainable.
	FixedBias *float64 `yaml:"fixed_bias"`
}

// OptimConfig selects and parameterizes the optimizer.
type OptimConfig struct {
	Name     string  `yaml:"name" validate:"oneof=sgd adam"`
	LR       float64 `yaml:"lr" validate:"gt=0"`
	Momentum float64 `yaml:"momentum" validate:"gte=0,lt=1"`
	Beta1    float64 `yaml:"beta1" validate:"gte=0,lt=1"`
	Beta2    float64 `yaml:"beta2" validate:"gte=0,lt=1"`
	Eps      float64 `yaml:"eps" validate:"gte=0"`
}

// Default returns the configuration the CLI starts from before file and
// flag overrides: the walkthrough scenario of 300 noisy points on
// y = 0.5x + 0.3, twenty epochs of SGD.
func Default() TrainConfig {
	return TrainConfig{
		Data: DataConfig{
			Samples: 300,
			Noise:   0.1,
			Slope:   0.5,
			Bias:    0.3,
		},
		Model: ModelConfig{
			Inputs:  1,
			Outputs: 1,
		},
		Optim: OptimConfig{
			Name:  "sgd",
			LR:    0.1,
			Beta1: 0.9,
			Beta2: 0.999,
			Eps:   1e-8,
		},
		Loss:     "mse",
		Epochs:   20,
		Seed:     42,
		Device:   "cpu",
		Holdout:  0.2,
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults and validates the result.
// Fields absent from the file keep their default values.
func Load(path string) (TrainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TrainConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TrainConfig{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return TrainConfig{}, err
	}
	return cfg, nil
}

// Validate checks the struct-tag constraints plus the cross-field rules a
// tag cannot express.
func (c TrainConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.Holdout > 0 {
		// Mirrors the batch split rule: both sides must be non-empty.
		trainLen := int(float64(c.Data.Samples) * (1 - c.Holdout))
		if trainLen < 1 || trainLen >= c.Data.Samples {
			return fmt.Errorf("config: holdout %v of %d samples leaves an empty split", c.Holdout, c.Data.Samples)
		}
	}
	return nil
}
