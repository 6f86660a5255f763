// Package cpu implements the pure-Go CPU backend.
package cpu

import (
	"fmt"

	"github.com/affine-ml/affine/internal/tensor"
)

// Verify interface compliance at compile time.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor operations on the host CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b, addKernel)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b, subKernel)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b, mulKernel)
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b, divKernel)
}

// binaryOp routes to the fastest applicable path: in-place when a uniquely
// owns its buffer, a flat loop when shapes match, and the strided broadcast
// walk otherwise.
func (cpu *CPUBackend) binaryOp(name string, a, b *tensor.RawTensor, kernel binaryKernel) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		if a.IsUnique() {
			applyInplace(a, b, kernel)
			return a
		}
		result := newResult(name, outShape, a.DType(), cpu.device)
		applyVectorized(result, a, b, kernel)
		return result
	}

	result := newResult(name, outShape, a.DType(), cpu.device)
	applyBroadcast(result, a, b, outShape, kernel)
	return result
}

// Reshape returns a tensor with the same elements and a new shape.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.Shape(), newShape))
	}

	result := newResult("reshape", newShape, t.DType(), t.Device())
	copy(result.Data(), t.Data())
	return result
}

// Transpose swaps the dimensions of a 2-D tensor.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor) *tensor.RawTensor {
	shape := t.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("transpose: requires a 2D tensor, got %v", shape))
	}
	rows, cols := shape[0], shape[1]

	result := newResult("transpose", tensor.Shape{cols, rows}, t.DType(), t.Device())
	transposeData(result, t, rows, cols)
	return result
}

// newResult allocates an output tensor, panicking on failure. Shapes at this
// point have already been validated or produced by broadcasting.
func newResult(name string, shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}
	return result
}
