// Package nn implements the neural network building blocks for affine models:
//   - Module interface: base interface for all NN components
//   - Parameter: trainable parameters with gradient tracking
//   - Linear: fully connected layer, the affine regression model
//   - Loss functions: MSE, L1
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/affine-ml/affine/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every module must implement:
//   - Forward: compute output from input
//   - Parameters: return all trainable parameters
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor must have the appropriate shape for this module.
	// For example, Linear expects [batch_size, in_features].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module.
	//
	// This includes weights, biases, and any nested module parameters.
	// Returns an empty slice for modules without trainable parameters.
	Parameters() []*Parameter[B]
}
