package autodiff

import (
	"fmt"

	"github.com/affine-ml/affine/internal/tensor"
)

// BackwardCapable is a backend that can drive a backward pass. AutodiffBackend
// satisfies it; plain compute backends do not.
type BackwardCapable interface {
	tensor.Backend
	GetTape() *GradientTape
}

// GetTape returns the gradient tape, satisfying BackwardCapable.
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward runs backpropagation from t, seeding its gradient with ones.
// t is typically a one-element loss tensor. Panics if the tape is empty or
// if t holds an integer dtype, which has no meaningful gradient.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("autodiff: Backward called with no recorded operations")
	}

	seed := onesLike(t.Raw())

	return tape.Backward(seed, backend)
}

func onesLike(t *tensor.RawTensor) *tensor.RawTensor {
	ones, err := tensor.NewRaw(t.Shape().Clone(), t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("autodiff: allocating gradient seed: %v", err))
	}

	switch t.DType() {
	case tensor.Float32:
		data := ones.AsFloat32()
		for i := range data {
			data[i] = 1
		}
	case tensor.Float64:
		data := ones.AsFloat64()
		for i := range data {
			data[i] = 1
		}
	default:
		panic(fmt.Sprintf("autodiff: cannot differentiate %s tensor", t.DType()))
	}

	return ones
}
