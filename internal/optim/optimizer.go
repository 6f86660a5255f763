// Package optim implements gradient-based optimizers for training models.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - SGD: stochastic gradient descent with optional momentum
//   - Adam: adaptive moment estimation
//
// Parameter updates run directly on the host buffers rather than through a
// backend, so stepping an optimizer never records onto a gradient tape.
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01}, backend)
//
//	for epoch := 0; epoch < epochs; epoch++ {
//	    optimizer.ZeroGrad()
//	    backend.Tape().Clear()
//	    loss := lossFn.Forward(model.Forward(inputs), targets)
//	    grads := autodiff.Backward(loss, backend)
//	    optimizer.Step(grads)
//	}
package optim

import (
	"github.com/affine-ml/affine/internal/nn"
	"github.com/affine-ml/affine/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers update model parameters in place based on the gradients
// computed by a backward pass.
type Optimizer interface {
	// Step applies one gradient update to all parameters. The map comes
	// from autodiff.Backward and is keyed by raw parameter tensors.
	// Parameters absent from the map are left untouched.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients. Call before each backward
	// pass so gradients never accumulate across iterations.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32

	// SetLR updates the learning rate, for scheduling during training.
	SetLR(lr float32)
}

// getGradient retrieves the gradient for a parameter, or nil when the
// parameter was not part of the computation graph.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}
