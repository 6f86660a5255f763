package ops

import "github.com/affine-ml/affine/internal/tensor"

// SumDimOp represents a sum reduction along one dimension.
//
// Backward pass: the gradient is broadcast back along the reduced dimension.
// When keepDim was false the reduced dimension is first re-inserted so that
// broadcasting lines up.
type SumDimOp struct {
	inputs  []*tensor.RawTensor // [x]
	output  *tensor.RawTensor   // sum(x, dim)
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp. dim must already be normalized.
func NewSumDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{
		inputs:  []*tensor.RawTensor{x},
		output:  output,
		dim:     dim,
		keepDim: keepDim,
	}
}

// Backward computes the input gradient for the dimension sum.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]

	// A 1-D input reduces to shape [1] rather than dropping to rank 0, so
	// re-insert the dimension only when the rank actually dropped.
	grad := outputGrad
	if !op.keepDim && len(grad.Shape()) < len(x.Shape()) {
		grad = unsqueeze(grad, op.dim)
	}

	return []*tensor.RawTensor{broadcastTo(grad, x.Shape())}
}

// Inputs returns the input tensors [x].
func (op *SumDimOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the reduced output tensor.
func (op *SumDimOp) Output() *tensor.RawTensor {
	return op.output
}
