package cpu

import (
	"github.com/affine-ml/affine/internal/tensor"
)

// binaryKernel selects the arithmetic op. The switch happens once per call,
// outside the element loops.
type binaryKernel int

const (
	addKernel binaryKernel = iota
	subKernel
	mulKernel
	divKernel
)

func applyInplace(a, b *tensor.RawTensor, kernel binaryKernel) {
	switch a.DType() {
	case tensor.Float32:
		inplaceLoop(kernel, a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		inplaceLoop(kernel, a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		inplaceLoop(kernel, a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		inplaceLoop(kernel, a.AsInt64(), b.AsInt64())
	default:
		panic("cpu: unsupported dtype")
	}
}

func applyVectorized(result, a, b *tensor.RawTensor, kernel binaryKernel) {
	switch a.DType() {
	case tensor.Float32:
		vectorizedLoop(kernel, result.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		vectorizedLoop(kernel, result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	case tensor.Int32:
		vectorizedLoop(kernel, result.AsInt32(), a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		vectorizedLoop(kernel, result.AsInt64(), a.AsInt64(), b.AsInt64())
	default:
		panic("cpu: unsupported dtype")
	}
}

func applyBroadcast(result, a, b *tensor.RawTensor, outShape tensor.Shape, kernel binaryKernel) {
	switch a.DType() {
	case tensor.Float32:
		broadcastLoop(kernel, result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape)
	case tensor.Float64:
		broadcastLoop(kernel, result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape)
	case tensor.Int32:
		broadcastLoop(kernel, result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape)
	case tensor.Int64:
		broadcastLoop(kernel, result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape)
	default:
		panic("cpu: unsupported dtype")
	}
}

// inplaceLoop computes a op= b. Requires equal shapes and a uniquely owned.
func inplaceLoop[T tensor.DType](kernel binaryKernel, a, b []T) {
	switch kernel {
	case addKernel:
		for i := range a {
			a[i] += b[i]
		}
	case subKernel:
		for i := range a {
			a[i] -= b[i]
		}
	case mulKernel:
		for i := range a {
			a[i] *= b[i]
		}
	case divKernel:
		for i := range a {
			a[i] /= b[i]
		}
	}
}

// vectorizedLoop computes dst = a op b over equal shapes.
func vectorizedLoop[T tensor.DType](kernel binaryKernel, dst, a, b []T) {
	switch kernel {
	case addKernel:
		for i := range a {
			dst[i] = a[i] + b[i]
		}
	case subKernel:
		for i := range a {
			dst[i] = a[i] - b[i]
		}
	case mulKernel:
		for i := range a {
			dst[i] = a[i] * b[i]
		}
	case divKernel:
		for i := range a {
			dst[i] = a[i] / b[i]
		}
	}
}

// broadcastLoop computes dst = a op b walking outShape with stride-0 reads
// on broadcast dimensions.
func broadcastLoop[T tensor.DType](kernel binaryKernel, dst, a, b []T, aShape, bShape, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		aIdx := flatIndex(i, outStrides, aStrides)
		bIdx := flatIndex(i, outStrides, bStrides)
		switch kernel {
		case addKernel:
			dst[i] = a[aIdx] + b[bIdx]
		case subKernel:
			dst[i] = a[aIdx] - b[bIdx]
		case mulKernel:
			dst[i] = a[aIdx] * b[bIdx]
		case divKernel:
			dst[i] = a[aIdx] / b[bIdx]
		}
	}
}

// broadcastStrides maps inShape onto outShape: padded and size-1 dimensions
// get stride 0 so every output coordinate reads the broadcast element.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	inDim := len(inShape)
	offset := outDim - inDim
	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0 || inIdx >= inDim:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// flatIndex converts an output flat index into a source flat index using
// broadcast-adjusted strides.
func flatIndex(outIdx int, outStrides, inStrides []int) int {
	flat := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flat += coord * inStrides[i]
	}
	return flat
}

// transposeData writes the 2-D transpose of src into dst.
func transposeData(dst, src *tensor.RawTensor, rows, cols int) {
	switch src.DType() {
	case tensor.Float32:
		transposeLoop(dst.AsFloat32(), src.AsFloat32(), rows, cols)
	case tensor.Float64:
		transposeLoop(dst.AsFloat64(), src.AsFloat64(), rows, cols)
	case tensor.Int32:
		transposeLoop(dst.AsInt32(), src.AsInt32(), rows, cols)
	case tensor.Int64:
		transposeLoop(dst.AsInt64(), src.AsInt64(), rows, cols)
	default:
		panic("cpu: unsupported dtype")
	}
}

func transposeLoop[T tensor.DType](dst, src []T, rows, cols int) {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst[j*rows+i] = src[i*cols+j]
		}
	}
}
