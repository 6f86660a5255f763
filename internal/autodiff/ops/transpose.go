package ops

import "github.com/affine-ml/affine/internal/tensor"

// TransposeOp represents a 2D matrix transpose: output = xᵀ.
//
// Transpose must be recorded even though it looks like a view: the backend
// materializes a new tensor, and without the op the gradient computed for
// the transposed tensor would never reach the original parameter. The Linear
// layer depends on this (output = input @ weightᵀ).
//
// Backward pass: transposing is its own inverse, so grad_x = outputGradᵀ.
type TransposeOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // xᵀ
}

// NewTransposeOp creates a new TransposeOp.
func NewTransposeOp(x, output *tensor.RawTensor) *TransposeOp {
	return &TransposeOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient for transpose.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Transpose(outputGrad)}
}

// Inputs returns the input tensors [x].
func (op *TransposeOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor xᵀ.
func (op *TransposeOp) Output() *tensor.RawTensor {
	return op.output
}
