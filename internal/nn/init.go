package nn

import (
	"math"
	"math/rand"

	"github.com/affine-ml/affine/internal/tensor"
)

// Xavier initializes a weight tensor with the Glorot uniform distribution
// U(-sqrt(6/(fanIn+fanOut)), +sqrt(6/(fanIn+fanOut))), which keeps the
// variance of activations roughly constant across layers.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	//nolint:gosec // math/rand is fine for weight initialization
	return xavier(fanIn, fanOut, shape, backend, rand.Float64)
}

// XavierFrom is Xavier drawing from the given source, for reproducible
// initialization.
func XavierFrom[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return xavier(fanIn, fanOut, shape, backend, rng.Float64)
}

func xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B, uniform func() float64) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	raw, err := tensor.NewRaw(shape, tensor.Float32, backend.Device())
	if err != nil {
		panic(err)
	}

	data := raw.AsFloat32()
	for i := range data {
		data[i] = float32((uniform()*2.0 - 1.0) * bound)
	}

	return tensor.New[float32, B](raw, backend)
}

// Zeros creates a zero-filled tensor, commonly used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Full creates a tensor filled with a constant value.
func Full[B tensor.Backend](shape tensor.Shape, value float32, backend B) *tensor.Tensor[float32, B] {
	return tensor.Full(shape, value, backend)
}
