// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network building blocks for affine models.
//
// # Overview
//
// This package contains:
//   - Layers: Linear (with an optional fixed, non-trainable bias)
//   - Loss functions: MSELoss, L1Loss
//   - Utilities: Module interface, Parameter, Save/Load
//   - Initialization: Xavier, Zeros, Full
//   - Verification: VerifyAffineFit
//
// # Basic Usage
//
//	import (
//	    "github.com/affine-ml/affine/nn"
//	    "github.com/affine-ml/affine/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // y = w*x + b with scalar weight and bias
//	    model := nn.NewLinear(1, 1, backend)
//
//	    // Forward pass over a [batch, 1] input
//	    output := model.Forward(input)
//	}
//
// # Layers
//
// Linear: fully connected layer with Xavier initialization
//
//	layer := nn.NewLinear(inFeatures, outFeatures, backend)
//
// NewLinearFixedBias pins the bias to a constant. The bias still
// participates in the forward pass but is excluded from Parameters(), so
// optimizers never touch it:
//
//	model := nn.NewLinearFixedBias(1, 1, 0.3, backend)
//
// # Loss Functions
//
// MSELoss: mean squared error, the standard regression loss
//
//	criterion := nn.NewMSELoss[*cpu.Backend]()
//	loss := criterion.Forward(predictions, targets)
//
// L1Loss: mean absolute error, less sensitive to outliers
//
//	criterion := nn.NewL1Loss[*cpu.Backend]()
//
// # Parameter Management
//
// Access model parameters for optimization:
//
//	params := model.Parameters()
//	for _, param := range params {
//	    fmt.Println(param.Name(), param.Tensor().Shape())
//	}
//
// # Verification
//
// VerifyAffineFit checks a trained scalar model against known coefficients:
//
//	if err := nn.VerifyAffineFit(model, 0.5, 0.3, 0.01); err != nil {
//	    log.Fatal(err)
//	}
package nn
