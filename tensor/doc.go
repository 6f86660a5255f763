// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the affine
// training toolkit.
//
// # Overview
//
// Tensors are the fundamental data structure in affine. This package
// provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting for element-wise arithmetic
//   - Reference-counted buffers with copy-on-write reuse
//   - Device abstraction (CPU, WebGPU)
//
// # Basic Usage
//
//	import (
//	    "github.com/affine-ml/affine/backend/cpu"
//	    "github.com/affine-ml/affine/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//
//	    z := x.Add(y)
//	    result := x.MatMul(y.Transpose())
//	    _ = z
//	    _ = result
//	}
//
// # Supported Data Types
//
// The DType constraint covers float32 and float64 for model math, plus
// int32 and int64 for index data such as token ids.
//
// # Broadcasting
//
// Element-wise operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros[float32](tensor.Shape{3, 1}, backend) // (3, 1)
//	b := tensor.Ones[float32](tensor.Shape{3, 4}, backend)  // (3, 4)
//	c := a.Add(b)                                           // (3, 4)
//
// # Gradient Tracking
//
// Wrapping a backend in autodiff.New records every operation onto a
// gradient tape; the tensor API is unchanged. See the autodiff package.
package tensor
