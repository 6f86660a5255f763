// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training affine models.
//
// # Overview
//
// This package contains:
//   - SGD: stochastic gradient descent with optional momentum
//   - Adam: adaptive moment estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/affine-ml/affine/optim"
//	    "github.com/affine-ml/affine/nn"
//	    "github.com/affine-ml/affine/backend/cpu"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    model := nn.NewLinear(1, 1, backend)
//
//	    optimizer := optim.NewSGD(
//	        model.Parameters(),
//	        optim.SGDConfig{LR: 0.1},
//	        backend,
//	    )
//
//	    for epoch := 0; epoch < epochs; epoch++ {
//	        optimizer.ZeroGrad()
//	        backend.GetTape().Clear()
//	        loss := criterion.Forward(model.Forward(inputs), targets)
//	        grads := autodiff.Backward(loss, backend)
//	        optimizer.Step(grads)
//	    }
//	}
//
// # Optimizers
//
// SGD (Stochastic Gradient Descent):
//
//	optimizer := optim.NewSGD(
//	    model.Parameters(),
//	    optim.SGDConfig{
//	        LR:       0.01,
//	        Momentum: 0.9,
//	    },
//	    backend,
//	)
//
// Adam (Adaptive Moment Estimation):
//
//	optimizer := optim.NewAdam(
//	    model.Parameters(),
//	    optim.AdamConfig{
//	        LR:    0.001,
//	        Betas: [2]float32{0.9, 0.999},
//	        Eps:   1e-8,
//	    },
//	    backend,
//	)
//
// Zero config fields fall back to the standard defaults, so
// optim.NewAdam(params, optim.AdamConfig{}, backend) is a valid Adam with
// LR 0.001.
//
// # Learning Rate Scheduling
//
// Optimizers expose GetLR/SetLR so training loops can adjust the rate
// between epochs:
//
//	optimizer.SetLR(optimizer.GetLR() * 0.9)
package optim
