package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/affine-ml/affine/internal/tensor"
)

// RandomConfig describes the multi-feature benchmark dataset used for
// throughput measurements.
type RandomConfig struct {
	// Length is the number of samples.
	Length int
	// Size is the number of features per sample.
	Size int
}

// Validate reports whether the configuration can generate a dataset.
func (c RandomConfig) Validate() error {
	if c.Length <= 0 {
		return fmt.Errorf("%w: length must be positive, got %d", ErrInvalidArgument, c.Length)
	}
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidArgument, c.Size)
	}
	return nil
}

// Random generates a batch with standard-normal inputs of shape
// [length, size] and targets [length, 1] where each target is the sine of
// the row's maximum feature. The relationship is nonlinear on purpose: a
// model cannot trivially fit it, so epoch timing stays honest under load.
func Random[B tensor.Backend](cfg RandomConfig, rng *rand.Rand, backend B) (*Batch[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	inputs := make([]float32, cfg.Length*cfg.Size)
	targets := make([]float32, cfg.Length)
	for i := 0; i < cfg.Length; i++ {
		rowMax := float32(math.Inf(-1))
		for j := 0; j < cfg.Size; j++ {
			v := float32(rng.NormFloat64())
			inputs[i*cfg.Size+j] = v
			if v > rowMax {
				rowMax = v
			}
		}
		targets[i] = float32(math.Sin(float64(rowMax)))
	}

	inputTensor, err := tensor.FromSlice(inputs, tensor.Shape{cfg.Length, cfg.Size}, backend)
	if err != nil {
		return nil, fmt.Errorf("building inputs: %w", err)
	}
	targetTensor, err := tensor.FromSlice(targets, tensor.Shape{cfg.Length, 1}, backend)
	if err != nil {
		return nil, fmt.Errorf("building targets: %w", err)
	}

	return &Batch[B]{Inputs: inputTensor, Targets: targetTensor}, nil
}
