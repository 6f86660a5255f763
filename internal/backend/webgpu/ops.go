//go:build windows

package webgpu

import (
	"fmt"

	"github.com/affine-ml/affine/internal/tensor"
)

// Add performs element-wise addition on GPU.
func (b *Backend) Add(a, other *tensor.RawTensor) *tensor.RawTensor {
	x, y := b.broadcastOperands("Add", a, other)
	result, err := b.runBinaryOp(x, y, "add", addShader)
	if err != nil {
		panic("webgpu: Add: " + err.Error())
	}
	return result
}

// Sub performs element-wise subtraction on GPU.
func (b *Backend) Sub(a, other *tensor.RawTensor) *tensor.RawTensor {
	x, y := b.broadcastOperands("Sub", a, other)
	result, err := b.runBinaryOp(x, y, "sub", subShader)
	if err != nil {
		panic("webgpu: Sub: " + err.Error())
	}
	return result
}

// Mul performs element-wise multiplication on GPU.
func (b *Backend) Mul(a, other *tensor.RawTensor) *tensor.RawTensor {
	x, y := b.broadcastOperands("Mul", a, other)
	result, err := b.runBinaryOp(x, y, "mul", mulShader)
	if err != nil {
		panic("webgpu: Mul: " + err.Error())
	}
	return result
}

// Div performs element-wise division on GPU.
func (b *Backend) Div(a, other *tensor.RawTensor) *tensor.RawTensor {
	x, y := b.broadcastOperands("Div", a, other)
	result, err := b.runBinaryOp(x, y, "div", divShader)
	if err != nil {
		panic("webgpu: Div: " + err.Error())
	}
	return result
}

// MatMul performs matrix multiplication on GPU.
func (b *Backend) MatMul(a, other *tensor.RawTensor) *tensor.RawTensor {
	result, err := b.runMatMul(a, other)
	if err != nil {
		panic("webgpu: MatMul: " + err.Error())
	}
	return result
}

// Reshape returns a tensor with a new shape and the same elements.
func (b *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic("webgpu: reshape: invalid shape: " + err.Error())
	}
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("webgpu: reshape: cannot reshape %v into %v", t.Shape(), newShape))
	}

	result, err := tensor.NewRaw(newShape, t.DType(), tensor.WebGPU)
	if err != nil {
		panic("webgpu: reshape: " + err.Error())
	}

	copy(result.Data(), t.Data())
	return result
}

// Transpose transposes a 2D matrix on GPU.
func (b *Backend) Transpose(t *tensor.RawTensor) *tensor.RawTensor {
	result, err := b.runTranspose(t)
	if err != nil {
		panic("webgpu: Transpose: " + err.Error())
	}
	return result
}

// AddScalar adds a scalar to tensor elements on GPU.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat32(scalar)
	result, err := b.runScalarOp(x, s, "scalarAdd", scalarAddShader)
	if err != nil {
		panic("webgpu: AddScalar: " + err.Error())
	}
	return result
}

// SubScalar subtracts a scalar from tensor elements on GPU.
func (b *Backend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat32(scalar)
	result, err := b.runScalarOp(x, -s, "scalarAdd", scalarAddShader) // x - s = x + (-s)
	if err != nil {
		panic("webgpu: SubScalar: " + err.Error())
	}
	return result
}

// MulScalar multiplies tensor elements by a scalar on GPU.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat32(scalar)
	result, err := b.runScalarOp(x, s, "scalarMul", scalarMulShader)
	if err != nil {
		panic("webgpu: MulScalar: " + err.Error())
	}
	return result
}

// DivScalar divides tensor elements by a scalar on GPU.
func (b *Backend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat32(scalar)
	if s == 0 {
		panic("webgpu: DivScalar: division by zero")
	}
	result, err := b.runScalarOp(x, 1.0/s, "scalarMul", scalarMulShader) // x / s = x * (1/s)
	if err != nil {
		panic("webgpu: DivScalar: " + err.Error())
	}
	return result
}

// Sum computes the total sum of all elements, returned as a one-element tensor.
//
// Tensor data is host-resident between dispatches, so the reduction runs on
// the CPU rather than paying an upload for a single pass over the data.
func (b *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic("webgpu: Sum: only float32 is supported, got " + x.DType().String())
	}

	result, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, tensor.WebGPU)
	if err != nil {
		panic("webgpu: Sum: " + err.Error())
	}

	var sum float32
	for _, v := range x.AsFloat32() {
		sum += v
	}
	result.AsFloat32()[0] = sum
	return result
}

// SumDim sums elements along the specified dimension on the host.
func (b *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic("webgpu: SumDim: only float32 is supported, got " + x.DType().String())
	}

	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("webgpu: SumDim: dimension %d out of range for %dD tensor", dim, ndim))
	}

	outShape := collapseDim(shape, dim, keepDim)
	result, err := tensor.NewRaw(outShape, tensor.Float32, tensor.WebGPU)
	if err != nil {
		panic("webgpu: SumDim: " + err.Error())
	}

	src := x.AsFloat32()
	dst := result.AsFloat32()

	strides := shape.ComputeStrides()
	reduced := shape.Clone()
	reduced[dim] = 1
	outStrides := reduced.ComputeStrides()

	for i := range src {
		outIdx := 0
		temp := i
		for d := 0; d < ndim; d++ {
			coord := temp / strides[d]
			temp %= strides[d]
			if d != dim {
				outIdx += coord * outStrides[d]
			}
		}
		dst[outIdx] += src[i]
	}

	return result
}

// MeanDim computes the mean along the specified dimension on the host.
func (b *Backend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	normalized := dim
	if normalized < 0 {
		normalized = len(shape) + normalized
	}
	if normalized < 0 || normalized >= len(shape) {
		panic(fmt.Sprintf("webgpu: MeanDim: dimension %d out of range for %dD tensor", dim, len(shape)))
	}

	result := b.SumDim(x, normalized, keepDim)

	divisor := float32(shape[normalized])
	data := result.AsFloat32()
	for i := range data {
		data[i] /= divisor
	}
	return result
}

// broadcastOperands expands a and b to their common broadcast shape.
//
// The element-wise shaders index both operands linearly, so broadcasting is
// materialized on the host before upload.
func (b *Backend) broadcastOperands(name string, x, y *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor) {
	if x.Shape().Equal(y.Shape()) {
		return x, y
	}

	outShape, _, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(fmt.Sprintf("webgpu: %s: %v", name, err))
	}

	return b.expandTo(name, x, outShape), b.expandTo(name, y, outShape)
}

// expandTo broadcasts x to shape, copying data on the host.
func (b *Backend) expandTo(name string, x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	if x.Shape().Equal(shape) {
		return x
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("webgpu: %s: only float32 is supported, got %s", name, x.DType()))
	}

	result, err := tensor.NewRaw(shape, tensor.Float32, tensor.WebGPU)
	if err != nil {
		panic(fmt.Sprintf("webgpu: %s: %v", name, err))
	}

	src := x.AsFloat32()
	dst := result.AsFloat32()

	srcShape := x.Shape()
	srcStrides := srcShape.ComputeStrides()
	dstStrides := shape.ComputeStrides()

	// Left-pad source strides; broadcast dims contribute stride 0.
	dimDiff := len(shape) - len(srcShape)
	padded := make([]int, len(shape))
	for i := range srcShape {
		if srcShape[i] == 1 && shape[dimDiff+i] != 1 {
			padded[dimDiff+i] = 0
		} else {
			padded[dimDiff+i] = srcStrides[i]
		}
	}

	for i := range dst {
		srcIdx := 0
		temp := i
		for d := 0; d < len(shape); d++ {
			coord := temp / dstStrides[d]
			temp %= dstStrides[d]
			srcIdx += coord * padded[d]
		}
		dst[i] = src[srcIdx]
	}

	return result
}

// collapseDim computes the output shape after reducing dim.
func collapseDim(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for i, s := range shape {
		if i != dim {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}

// toFloat32 converts any numeric scalar to float32.
func toFloat32(v any) float32 {
	switch val := v.(type) {
	case float32:
		return val
	case float64:
		return float32(val)
	case int:
		return float32(val)
	case int32:
		return float32(val)
	case int64:
		return float32(val)
	default:
		panic("webgpu: unsupported scalar type")
	}
}
