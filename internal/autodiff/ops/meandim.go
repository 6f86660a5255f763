package ops

import "github.com/affine-ml/affine/internal/tensor"

// MeanDimOp represents a mean reduction along one dimension.
//
// Forward: y = sum(x, dim, keepDim) / size[dim]
// Backward: grad_x = broadcast(grad_y, x.shape) / size[dim]
type MeanDimOp struct {
	inputs  []*tensor.RawTensor // [x]
	output  *tensor.RawTensor   // mean(x, dim)
	dim     int
	keepDim bool
	dimSize int
}

// NewMeanDimOp creates a new MeanDimOp. dim must already be normalized.
func NewMeanDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *MeanDimOp {
	return &MeanDimOp{
		inputs:  []*tensor.RawTensor{x},
		output:  output,
		dim:     dim,
		keepDim: keepDim,
		dimSize: x.Shape()[dim],
	}
}

// Backward computes the input gradient for the dimension mean.
func (op *MeanDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]

	grad := outputGrad
	if !op.keepDim && len(grad.Shape()) < len(x.Shape()) {
		grad = unsqueeze(grad, op.dim)
	}

	gradX := broadcastTo(grad, x.Shape())
	gradX = backend.DivScalar(gradX, float64(op.dimSize))

	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *MeanDimOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the reduced output tensor.
func (op *MeanDimOp) Output() *tensor.RawTensor {
	return op.output
}
