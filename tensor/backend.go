// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/affine-ml/affine/internal/tensor"

// Backend defines the interface every compute backend implements. Backends
// own the arithmetic; tensors only carry data and dispatch to whichever
// backend they were created with.
//
// Implementations:
//   - backend/cpu: pure Go, all dtypes
//   - backend/webgpu: WGSL compute shaders, float32
//
// Decorator backends add behavior without changing call sites:
//   - autodiff: gradient recording (wraps any backend)
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y) // dispatches to backend.Add
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul multiplies two 2-D matrices: [M, K] @ [K, N] → [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor) *RawTensor // 2-D only

	// Element-wise operations against a scalar.
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	MulScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Reductions.
	Sum(x *RawTensor) *RawTensor                            // total sum, single-element result
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // sum along dimension
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // mean along dimension

	// Metadata.
	Name() string
	Device() Device
}

// Compile-time check that the internal Backend satisfies the public one.
var _ Backend = tensor.Backend(nil)
