// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides synthetic data generators for training and
// benchmarking affine models.
//
// All generators take an explicit *rand.Rand, so the same seed always
// produces the same data — on every platform and every backend.
//
// Example:
//
//	import (
//	    "math/rand"
//
//	    "github.com/affine-ml/affine/backend/cpu"
//	    "github.com/affine-ml/affine/dataset"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    rng := rand.New(rand.NewSource(42))
//
//	    batch, err := dataset.Linear(dataset.LinearConfig{
//	        SampleCount: 300,
//	        NoiseLevel:  0.1,
//	        Slope:       0.5,
//	        Bias:        0.3,
//	    }, rng, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    train, holdout, err := batch.Split(0.8)
//	}
package dataset

import (
	"math/rand"

	"github.com/affine-ml/affine/internal/dataset"
	"github.com/affine-ml/affine/tensor"
)

// ErrInvalidArgument reports a configuration that cannot generate data.
var ErrInvalidArgument = dataset.ErrInvalidArgument

// Batch pairs inputs with their targets. Inputs have shape
// [samples, in_features] and targets [samples, out_features]; row i of one
// corresponds to row i of the other.
type Batch[B tensor.Backend] = dataset.Batch[B]

// Linear regression data

// LinearConfig describes a noisy line y = slope*x + bias.
type LinearConfig = dataset.LinearConfig

// Linear generates samples from the configured line with Gaussian noise on
// the targets. Inputs are uniform on [-1, 1).
func Linear[B tensor.Backend](cfg LinearConfig, rng *rand.Rand, backend B) (*Batch[B], error) {
	return dataset.Linear(cfg, rng, backend)
}

// Random feature data

// RandomConfig describes a dataset of standard-normal feature vectors.
type RandomConfig = dataset.RandomConfig

// Random generates feature vectors of standard-normal values; each target is
// the maximum of its row. Useful for throughput benchmarks where the learning
// problem itself does not matter.
func Random[B tensor.Backend](cfg RandomConfig, rng *rand.Rand, backend B) (*Batch[B], error) {
	return dataset.Random(cfg, rng, backend)
}

// Token corpora

// CorpusConfig describes a synthetic token-ID corpus.
type CorpusConfig = dataset.CorpusConfig

// Corpus generates rows of random token IDs bounded by the named tiktoken
// encoding's vocabulary. The result is an int64 tensor of shape
// [sentences, context_size].
func Corpus[B tensor.Backend](cfg CorpusConfig, rng *rand.Rand, backend B) (*tensor.Tensor[int64, B], error) {
	return dataset.Corpus(cfg, rng, backend)
}

// VocabSize returns the vocabulary size of the named tiktoken encoding.
func VocabSize(encodingName string) (int, error) {
	return dataset.VocabSize(encodingName)
}
