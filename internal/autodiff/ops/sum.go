package ops

import "github.com/affine-ml/affine/internal/tensor"

// SumOp represents a full reduction: output = sum(x), shape [1].
//
// Backward pass: every element contributed with weight 1, so the scalar
// gradient is broadcast back to the input shape.
type SumOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // sum(x)
}

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.RawTensor) *SumOp {
	return &SumOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient for the full sum.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{broadcastTo(outputGrad, op.inputs[0].Shape())}
}

// Inputs returns the input tensors [x].
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the one-element output tensor.
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}
