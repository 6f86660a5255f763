// Package ops defines the differentiable operations recorded on the gradient tape.
//
// Each operation captures its inputs and output during the forward pass and
// knows how to turn the gradient of its output into gradients of its inputs:
//   - AddOp/SubOp: gradient flows through unchanged (negated for the subtrahend)
//   - MulOp: d(a*b)/da = b, d(a*b)/db = a
//   - DivOp: d(a/b)/da = 1/b, d(a/b)/db = -a/b²
//   - MatMulOp: d(A@B)/dA = grad@Bᵀ, d(A@B)/dB = Aᵀ@grad
//   - reductions (SumOp, SumDimOp, MeanDimOp): gradient is broadcast back
package ops

import "github.com/affine-ml/affine/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
