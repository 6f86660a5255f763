package dataset

import (
	"fmt"
	"math/rand"

	"github.com/affine-ml/affine/internal/tensor"
)

// LinearConfig describes a synthetic linear regression dataset. Every
// recognized option is an explicit field; there is no pass-through of
// unvalidated settings.
type LinearConfig struct {
	// SampleCount is the number of (input, target) pairs to generate.
	SampleCount int
	// NoiseLevel scales the Gaussian noise added to each target. Zero
	// yields exact targets.
	NoiseLevel float64
	// Slope is the coefficient of the underlying line.
	Slope float64
	// Bias is the intercept of the underlying line.
	Bias float64
}

// Validate reports whether the configuration can generate a dataset.
func (c LinearConfig) Validate() error {
	if c.SampleCount <= 0 {
		return fmt.Errorf("%w: sample count must be positive, got %d", ErrInvalidArgument, c.SampleCount)
	}
	return nil
}

// Linear generates SampleCount points of y = slope·x + bias + ε with inputs
// drawn uniformly from [-1, 1] and ε ~ N(0, NoiseLevel²). The batch has
// inputs [n, 1] and targets [n, 1]. Apart from consuming rng it is a pure
// function of its configuration.
func Linear[B tensor.Backend](cfg LinearConfig, rng *rand.Rand, backend B) (*Batch[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	inputs := make([]float32, cfg.SampleCount)
	targets := make([]float32, cfg.SampleCount)
	for i := range inputs {
		// Targets are computed from the rounded float32 input, so with
		// zero noise a target is exactly the line evaluated at its input.
		x := float32(rng.Float64()*2 - 1)
		noise := rng.NormFloat64() * cfg.NoiseLevel
		inputs[i] = x
		targets[i] = float32(cfg.Slope*float64(x) + cfg.Bias + noise)
	}

	shape := tensor.Shape{cfg.SampleCount, 1}
	inputTensor, err := tensor.FromSlice(inputs, shape, backend)
	if err != nil {
		return nil, fmt.Errorf("building inputs: %w", err)
	}
	targetTensor, err := tensor.FromSlice(targets, shape.Clone(), backend)
	if err != nil {
		return nil, fmt.Errorf("building targets: %w", err)
	}

	return &Batch[B]{Inputs: inputTensor, Targets: targetTensor}, nil
}
