// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation (CPU, GPU, etc.) and adds
// gradient tracking through a GradientTape:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: records operations during the forward pass
//   - Operation interface: each op implements its own backward pass
//   - Reverse-mode AD: gradients flow backwards through the tape
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	x := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
//	y := x.Mul(x) // y = x²
//	grads := autodiff.Backward(y, backend)
//	// grads[x.Raw()] holds dy/dx = 2x = 4
package autodiff

import (
	"github.com/affine-ml/affine/internal/autodiff/ops"
	"github.com/affine-ml/affine/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

var _ tensor.Backend = (*AutodiffBackend[tensor.Backend])(nil)

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control: starting and stopping
// recording, clearing between iterations, inspecting recorded operations.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	// Inplace reuse of an operand would corrupt tensors the tape still
	// references. Bump the refcount so the inner backend allocates fresh.
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Add(a, c)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewAddOp(a, c, result))
	}

	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Sub(a, c)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSubOp(a, c, result))
	}

	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Mul(a, c)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMulOp(a, c, result))
	}

	return result
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Div(a, c)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewDivOp(a, c, result))
	}

	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.MatMul(a, c)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMatMulOp(a, c, result))
	}

	return result
}

// Reshape reshapes a tensor and records the operation, so gradients flow
// back to the original tensor rather than stopping at the reshaped view.
func (b *AutodiffBackend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	result := b.inner.Reshape(t, newShape)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReshapeOp(t, result))
	}

	return result
}

// Transpose transposes a matrix and records the operation.
//
// The backend materializes a new tensor for the transpose, so without the
// recorded op the gradient of weightᵀ would never reach weight itself and
// parameters would silently stop updating.
func (b *AutodiffBackend[B]) Transpose(t *tensor.RawTensor) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	result := b.inner.Transpose(t)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTransposeOp(t, result))
	}

	return result
}

// AddScalar adds a scalar to each element and records the operation.
func (b *AutodiffBackend[B]) AddScalar(t *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	result := b.inner.AddScalar(t, scalar)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewAddScalarOp(t, result))
	}

	return result
}

// SubScalar subtracts a scalar from each element and records the operation.
func (b *AutodiffBackend[B]) SubScalar(t *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	result := b.inner.SubScalar(t, scalar)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSubScalarOp(t, result))
	}

	return result
}

// MulScalar multiplies each element by a scalar and records the operation.
func (b *AutodiffBackend[B]) MulScalar(t *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	result := b.inner.MulScalar(t, scalar)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMulScalarOp(t, result, scalar))
	}

	return result
}

// DivScalar divides each element by a scalar and records the operation.
func (b *AutodiffBackend[B]) DivScalar(t *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	result := b.inner.DivScalar(t, scalar)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewDivScalarOp(t, result, scalar))
	}

	return result
}

// Sum reduces all elements to a one-element tensor and records the operation.
// Losses depend on this: the mean of the squared error is sum/n, and both
// steps must be on the tape for gradients to reach the parameters.
func (b *AutodiffBackend[B]) Sum(t *tensor.RawTensor) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	result := b.inner.Sum(t)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSumOp(t, result))
	}

	return result
}

// SumDim sums along a dimension and records the operation.
func (b *AutodiffBackend[B]) SumDim(t *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	result := b.inner.SumDim(t, dim, keepDim)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSumDimOp(t, result, normalizeDim(dim, len(t.Shape())), keepDim))
	}

	return result
}

// MeanDim averages along a dimension and records the operation.
func (b *AutodiffBackend[B]) MeanDim(t *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	result := b.inner.MeanDim(t, dim, keepDim)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMeanDimOp(t, result, normalizeDim(dim, len(t.Shape())), keepDim))
	}

	return result
}

func normalizeDim(dim, ndim int) int {
	if dim < 0 {
		return ndim + dim
	}
	return dim
}
