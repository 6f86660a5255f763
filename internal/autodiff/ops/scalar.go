package ops

import "github.com/affine-ml/affine/internal/tensor"

// Scalar operations participate in the graph so that losses built from them
// (for example a mean computed as sum/n) propagate gradients correctly. The
// scalar itself is a constant and receives no gradient.

// AddScalarOp represents output = x + s.
type AddScalarOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewAddScalarOp creates a new AddScalarOp.
func NewAddScalarOp(x, output *tensor.RawTensor) *AddScalarOp {
	return &AddScalarOp{inputs: []*tensor.RawTensor{x}, output: output}
}

// Backward computes the input gradient: d(x+s)/dx = 1.
func (op *AddScalarOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad.Clone()}
}

// Inputs returns the input tensors [x].
func (op *AddScalarOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the output tensor x + s.
func (op *AddScalarOp) Output() *tensor.RawTensor { return op.output }

// SubScalarOp represents output = x - s.
type SubScalarOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewSubScalarOp creates a new SubScalarOp.
func NewSubScalarOp(x, output *tensor.RawTensor) *SubScalarOp {
	return &SubScalarOp{inputs: []*tensor.RawTensor{x}, output: output}
}

// Backward computes the input gradient: d(x-s)/dx = 1.
func (op *SubScalarOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad.Clone()}
}

// Inputs returns the input tensors [x].
func (op *SubScalarOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the output tensor x - s.
func (op *SubScalarOp) Output() *tensor.RawTensor { return op.output }

// MulScalarOp represents output = x * s.
type MulScalarOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	scalar any
}

// NewMulScalarOp creates a new MulScalarOp.
func NewMulScalarOp(x, output *tensor.RawTensor, scalar any) *MulScalarOp {
	return &MulScalarOp{inputs: []*tensor.RawTensor{x}, output: output, scalar: scalar}
}

// Backward computes the input gradient: d(x*s)/dx = s.
func (op *MulScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
}

// Inputs returns the input tensors [x].
func (op *MulScalarOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the output tensor x * s.
func (op *MulScalarOp) Output() *tensor.RawTensor { return op.output }

// DivScalarOp represents output = x / s.
type DivScalarOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	scalar any
}

// NewDivScalarOp creates a new DivScalarOp.
func NewDivScalarOp(x, output *tensor.RawTensor, scalar any) *DivScalarOp {
	return &DivScalarOp{inputs: []*tensor.RawTensor{x}, output: output, scalar: scalar}
}

// Backward computes the input gradient: d(x/s)/dx = 1/s.
func (op *DivScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.DivScalar(outputGrad, op.scalar)}
}

// Inputs returns the input tensors [x].
func (op *DivScalarOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the output tensor x / s.
func (op *DivScalarOp) Output() *tensor.RawTensor { return op.output }
