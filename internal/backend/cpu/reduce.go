package cpu

import (
	"fmt"

	"github.com/affine-ml/affine/internal/tensor"
)

// Sum computes the total sum of all elements, returned as a one-element tensor.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := newResult("sum", tensor.Shape{1}, x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		sumAll(result.AsFloat32(), x.AsFloat32())
	case tensor.Float64:
		sumAll(result.AsFloat64(), x.AsFloat64())
	case tensor.Int32:
		sumAll(result.AsInt32(), x.AsInt32())
	case tensor.Int64:
		sumAll(result.AsInt64(), x.AsInt64())
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %v", x.DType()))
	}

	return result
}

// SumDim sums elements along the specified dimension.
//
// Negative dims index from the end (-1 = last dim). With keepDim the reduced
// dimension stays in the shape with size 1, otherwise it is removed.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumdim: dimension %d out of range for %dD tensor", dim, ndim))
	}

	outShape := reducedShape(shape, dim, keepDim)
	result := newResult("sumdim", outShape, x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		sumDimLoop(result.AsFloat32(), x.AsFloat32(), shape, dim)
	case tensor.Float64:
		sumDimLoop(result.AsFloat64(), x.AsFloat64(), shape, dim)
	case tensor.Int32:
		sumDimLoop(result.AsInt32(), x.AsInt32(), shape, dim)
	case tensor.Int64:
		sumDimLoop(result.AsInt64(), x.AsInt64(), shape, dim)
	default:
		panic(fmt.Sprintf("sumdim: unsupported dtype %v", x.DType()))
	}

	return result
}

// MeanDim computes the mean along the specified dimension. Float dtypes only.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	normalized := dim
	if normalized < 0 {
		normalized = ndim + normalized
	}
	if normalized < 0 || normalized >= ndim {
		panic(fmt.Sprintf("meandim: dimension %d out of range for %dD tensor", dim, ndim))
	}

	result := cpu.SumDim(x, normalized, keepDim)
	divisor := float64(shape[normalized])

	switch result.DType() {
	case tensor.Float32:
		divideAll(result.AsFloat32(), float32(divisor))
	case tensor.Float64:
		divideAll(result.AsFloat64(), divisor)
	default:
		panic(fmt.Sprintf("meandim: unsupported dtype %v (float32/float64 only)", result.DType()))
	}

	return result
}

// reducedShape computes the output shape after collapsing dim.
func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
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

func sumAll[T tensor.DType](dst, src []T) {
	var sum T
	for _, v := range src {
		sum += v
	}
	dst[0] = sum
}

// sumDimLoop accumulates src into dst, collapsing dim.
//
// The input is walked once; each flat index is decomposed into coordinates
// and re-linearized into the output with the reduced coordinate dropped.
func sumDimLoop[T tensor.DType](dst, src []T, shape tensor.Shape, dim int) {
	for i := range dst {
		dst[i] = 0
	}

	strides := shape.ComputeStrides()

	outShape := shape.Clone()
	outShape[dim] = 1
	outStrides := outShape.ComputeStrides()

	for i := range src {
		outIdx := 0
		temp := i
		for d := 0; d < len(shape); d++ {
			coord := temp / strides[d]
			temp %= strides[d]
			if d != dim {
				outIdx += coord * outStrides[d]
			}
		}
		dst[outIdx] += src[i]
	}
}

func divideAll[T tensor.DType](data []T, divisor T) {
	for i := range data {
		data[i] /= divisor
	}
}
