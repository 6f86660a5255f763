// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/affine-ml/affine/internal/nn"
	"github.com/affine-ml/affine/tensor"
)

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier-initialized weights and a
// zero, trainable bias.
//
// Example:
//
//	backend := cpu.New()
//	model := nn.NewLinear(1, 1, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewLinearFixedBias creates a linear layer whose bias is pinned to a
// constant. The bias participates in the forward pass but is excluded from
// Parameters(), so optimizers never update it.
//
// Example:
//
//	backend := cpu.New()
//	model := nn.NewLinearFixedBias(1, 1, 0.3, backend)  // y = w*x + 0.3
func NewLinearFixedBias[B tensor.Backend](inFeatures, outFeatures int, bias float32, backend B) *Linear[B] {
	return nn.NewLinearFixedBias(inFeatures, outFeatures, bias, backend)
}

// Loss Functions

// Loss reduces predictions and targets to a single-element tensor.
type Loss[B tensor.Backend] = nn.Loss[B]

// MSELoss represents the mean squared error loss for regression.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates a new MSE loss function.
//
// Example:
//
//	criterion := nn.NewMSELoss[*cpu.Backend]()
//	loss := criterion.Forward(predictions, targets)
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return nn.NewMSELoss[B]()
}

// L1Loss represents the mean absolute error loss for regression.
type L1Loss[B tensor.Backend] = nn.L1Loss[B]

// NewL1Loss creates a new L1 loss function.
//
// Example:
//
//	criterion := nn.NewL1Loss[*cpu.Backend]()
//	loss := criterion.Forward(predictions, targets)
func NewL1Loss[B tensor.Backend]() *L1Loss[B] {
	return nn.NewL1Loss[B]()
}

// Initialization

// Xavier returns a tensor initialized with Xavier/Glorot uniform values for
// the given fan-in and fan-out.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// XavierFrom is Xavier with an explicit random source, for reproducible
// initialization.
func XavierFrom[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.XavierFrom(fanIn, fanOut, shape, rng, backend)
}

// Zeros returns a zero-initialized float32 tensor.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Full returns a float32 tensor filled with the given value.
func Full[B tensor.Backend](shape tensor.Shape, value float32, backend B) *tensor.Tensor[float32, B] {
	return nn.Full(shape, value, backend)
}

// Verification

// VerifyAffineFit checks that a trained 1-in/1-out model recovered the given
// weight and bias to within tol. Returns nil when both coefficients are
// within tolerance, an error describing the miss otherwise.
//
// Example:
//
//	if err := nn.VerifyAffineFit(model, 0.5, 0.3, 0.01); err != nil {
//	    log.Fatal(err)
//	}
func VerifyAffineFit[B tensor.Backend](model *Linear[B], wantWeight, wantBias, tol float32) error {
	return nn.VerifyAffineFit(model, wantWeight, wantBias, tol)
}
