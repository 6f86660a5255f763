// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations in affine.
//
// The package defines core interfaces and types for type-safe tensor math:
//   - Tensor[T, B]: high-level generic tensor
//   - RawTensor: low-level dtype-erased tensor for backend code
//   - Backend: interface for device-specific compute implementations
//   - Shape, DataType, Device: core type definitions
package tensor

import (
	"math/rand"

	"github.com/affine-ml/affine/internal/tensor"
)

// DType is the constraint for tensor element types.
// Supported types: float32, float64, int32, int64.
type DType = tensor.DType

// DataType identifies the runtime element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// Device identifies where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3} is a matrix with 2 rows and 3 columns.
type Shape = tensor.Shape

// Tensor is a generic type-safe tensor.
//
// T is the element type and B the backend implementation. Operations
// dispatch through B, so wrapping a backend in autodiff.New adds gradient
// recording without changing any call site.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Randn creates a tensor of samples from the standard normal distribution,
// drawn from the global random source.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Randn[T, B](shape, b)
}

// RandnFrom is Randn drawing from an explicit source, for reproducible
// runs.
func RandnFrom[T DType, B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[T, B] {
	return tensor.RandnFrom[T, B](shape, rng, b)
}

// Rand creates a tensor of samples from the uniform distribution on
// [0, 1), drawn from the global random source.
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Rand[T, B](shape, b)
}

// RandFrom is Rand drawing from an explicit source, for reproducible runs.
func RandFrom[T DType, B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[T, B] {
	return tensor.RandFrom[T, B](shape, rng, b)
}

// Arange creates a 1-D tensor with values from start to end (exclusive) in
// steps of one.
func Arange[T DType, B Backend](start, end T, b B) *Tensor[T, B] {
	return tensor.Arange[T, B](start, end, b)
}

// FromSlice creates a tensor from a Go slice.
//
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, backend)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// New wraps a raw tensor in the typed API. Most callers want the creation
// functions above instead.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// BroadcastShapes computes the broadcast result shape for two shapes under
// NumPy rules, reporting whether either operand actually needs expanding.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
