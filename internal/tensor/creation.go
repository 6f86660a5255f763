package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err) // shape validated by callers constructing shapes from literals
	}
	// make() already zero-initialized the buffer.
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, T(1), b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a float tensor with standard normal values drawn from the
// shared math/rand source. Panics for integer dtypes.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return randn[T, B](shape, b, rand.Float64)
}

// RandnFrom is Randn with an injected random source, for reproducible
// initialization and data generation.
func RandnFrom[T DType, B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[T, B] {
	return randn[T, B](shape, b, rng.Float64)
}

// randn fills via the Box-Muller transform, two values per draw pair.
func randn[T DType, B Backend](shape Shape, b B, uniform func() float64) *Tensor[T, B] {
	var dummy T
	if dt := inferDataType(dummy); dt != Float32 && dt != Float64 {
		panic("Randn only supports float32 and float64 types")
	}

	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := 0; i < len(data); i += 2 {
		u1 := uniform()
		u2 := uniform()
		r := math.Sqrt(-2.0 * math.Log(u1))
		data[i] = T(r * math.Cos(2.0*math.Pi*u2))
		if i+1 < len(data) {
			data[i+1] = T(r * math.Sin(2.0*math.Pi*u2))
		}
	}
	return t
}

// Rand creates a float tensor with values uniform in [0, 1) from the shared
// math/rand source. Panics for integer dtypes.
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return uniformFill[T, B](shape, b, rand.Float64)
}

// RandFrom is Rand with an injected random source.
func RandFrom[T DType, B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[T, B] {
	return uniformFill[T, B](shape, b, rng.Float64)
}

func uniformFill[T DType, B Backend](shape Shape, b B, uniform func() float64) *Tensor[T, B] {
	var dummy T
	if dt := inferDataType(dummy); dt != Float32 && dt != Float64 {
		panic("Rand only supports float32 and float64 types")
	}

	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = T(uniform())
	}
	return t
}

// Arange creates a 1-D tensor with values start, start+1, ..., end-1.
// Panics unless end > start.
func Arange[T DType, B Backend](start, end T, b B) *Tensor[T, B] {
	n := int(end - start)
	if n <= 0 {
		panic("end must be greater than start")
	}

	t := Zeros[T, B](Shape{n}, b)
	data := t.Data()
	for i := range data {
		data[i] = start + T(i)
	}
	return t
}
