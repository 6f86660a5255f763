package ops

import (
	"github.com/affine-ml/affine/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to match the target shape.
// This is necessary when broadcasting was used in the forward pass.
//
// Example:
//
//	Forward: a[3,4] + b[1,4] -> c[3,4]  (b was broadcast along dim 0)
//	Backward: grad_c[3,4] -> grad_b[1,4] (sum along dim 0)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Shapes already match: clone so later in-place accumulation cannot
	// corrupt a gradient shared with another operation.
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	// Broadcasting aligns shapes from the right, so extra leading dimensions
	// are summed away first.
	for len(gradShape) > len(targetShape) {
		grad = backend.SumDim(grad, 0, false)
		gradShape = grad.Shape()
	}

	// Sum along dimensions where the target held size 1.
	for i := range targetShape {
		if targetShape[i] == 1 && gradShape[i] > 1 {
			grad = backend.SumDim(grad, i, true)
			gradShape = grad.Shape()
		}
	}

	if !gradShape.Equal(targetShape) {
		grad = backend.Reshape(grad, targetShape)
	}

	return grad
}

// negate returns -grad.
func negate(grad *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	return backend.MulScalar(grad, -1.0)
}

// unsqueeze inserts a dimension of size 1 at the given position.
func unsqueeze(t *tensor.RawTensor, dim int) *tensor.RawTensor {
	src := t.Shape()
	newShape := make(tensor.Shape, 0, len(src)+1)
	newShape = append(newShape, src[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, src[dim:]...)

	result, err := tensor.NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic("unsqueeze: " + err.Error())
	}
	copy(result.Data(), t.Data())
	return result
}

// broadcastTo expands a tensor to the target shape, repeating size-1 dims.
func broadcastTo(t *tensor.RawTensor, targetShape tensor.Shape) *tensor.RawTensor {
	if t.Shape().Equal(targetShape) {
		return t.Clone()
	}

	result, err := tensor.NewRaw(targetShape, t.DType(), t.Device())
	if err != nil {
		panic("broadcastTo: " + err.Error())
	}

	switch t.DType() {
	case tensor.Float32:
		broadcastData(t.AsFloat32(), result.AsFloat32(), t.Shape(), targetShape)
	case tensor.Float64:
		broadcastData(t.AsFloat64(), result.AsFloat64(), t.Shape(), targetShape)
	default:
		panic("broadcastTo: unsupported dtype " + t.DType().String())
	}

	return result
}

func broadcastData[T tensor.DType](src, dst []T, srcShape, dstShape tensor.Shape) {
	srcStrides := srcShape.ComputeStrides()
	dstStrides := dstShape.ComputeStrides()
	dimDiff := len(dstShape) - len(srcShape)

	for i := range dst {
		srcIdx := 0
		temp := i
		for d := 0; d < len(dstShape); d++ {
			coord := temp / dstStrides[d]
			temp %= dstStrides[d]

			srcDim := d - dimDiff
			if srcDim < 0 {
				continue
			}
			if srcShape[srcDim] == 1 {
				coord = 0
			}
			srcIdx += coord * srcStrides[srcDim]
		}
		dst[i] = src[srcIdx]
	}
}
