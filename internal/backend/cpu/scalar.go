package cpu

import (
	"fmt"

	"github.com/affine-ml/affine/internal/tensor"
)

// Scalar operations: element-wise arithmetic against a single value. The
// scalar may be any Go numeric type; it is converted to the tensor's dtype.

// AddScalar adds a scalar to each element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("addScalar", x, scalar, addKernel)
}

// SubScalar subtracts a scalar from each element.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("subScalar", x, scalar, subKernel)
}

// MulScalar multiplies each element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp("mulScalar", x, scalar, mulKernel)
}

// DivScalar divides each element by a scalar.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	if toFloat64(scalar) == 0 {
		panic("divScalar: division by zero")
	}
	return cpu.scalarOp("divScalar", x, scalar, divKernel)
}

func (cpu *CPUBackend) scalarOp(name string, x *tensor.RawTensor, scalar any, kernel binaryKernel) *tensor.RawTensor {
	result := newResult(name, x.Shape(), x.DType(), cpu.device)
	s := toFloat64(scalar)

	switch x.DType() {
	case tensor.Float32:
		scalarLoop(kernel, result.AsFloat32(), x.AsFloat32(), float32(s))
	case tensor.Float64:
		scalarLoop(kernel, result.AsFloat64(), x.AsFloat64(), s)
	case tensor.Int32:
		scalarLoop(kernel, result.AsInt32(), x.AsInt32(), int32(s))
	case tensor.Int64:
		scalarLoop(kernel, result.AsInt64(), x.AsInt64(), int64(s))
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %v", name, x.DType()))
	}

	return result
}

func scalarLoop[T tensor.DType](kernel binaryKernel, dst, src []T, s T) {
	switch kernel {
	case addKernel:
		for i := range src {
			dst[i] = src[i] + s
		}
	case subKernel:
		for i := range src {
			dst[i] = src[i] - s
		}
	case mulKernel:
		for i := range src {
			dst[i] = src[i] * s
		}
	case divKernel:
		for i := range src {
			dst[i] = src[i] / s
		}
	}
}

// toFloat64 widens any supported scalar type.
func toFloat64(v any) float64 {
	switch val := v.(type) {
	case float32:
		return float64(val)
	case float64:
		return val
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	default:
		panic(fmt.Sprintf("unsupported scalar type %T", v))
	}
}
