// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32, float64, int32 and int64 support
//   - Broadcasting for element-wise operations
//   - Row-major 2D matrix multiplication
//
// # Basic Usage
//
//	import (
//	    "github.com/affine-ml/affine/backend/cpu"
//	    "github.com/affine-ml/affine/tensor"
//	    "github.com/affine-ml/affine/nn"
//	)
//
//	func main() {
//	    // Create CPU backend
//	    backend := cpu.New()
//
//	    // Use with tensors
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    z := x.Add(y)
//
//	    // Use with models
//	    model := nn.NewLinear(1, 1, backend)
//	}
//
// The CPU backend is the reference implementation: every other backend is
// expected to produce the same results it does. Wrap it in autodiff.New to
// record gradients for training.
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation is
// isolated and does not share mutable state.
package cpu
