// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation
// (backpropagation) using a gradient tape. It wraps any backend to add
// autodiff capabilities.
//
// Example:
//
//	import (
//	    "github.com/affine-ml/affine/autodiff"
//	    "github.com/affine-ml/affine/backend/cpu"
//	    "github.com/affine-ml/affine/tensor"
//	)
//
//	func main() {
//	    // Wrap CPU backend with autodiff
//	    backend := autodiff.New(cpu.New())
//	    backend.GetTape().StartRecording()
//
//	    x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
//	    y := x.Mul(x) // operations recorded on tape
//
//	    // Compute gradients: grads[x.Raw()] holds dy/dx = 2x = 4
//	    grads := autodiff.Backward(y, backend)
//	}
package autodiff

import (
	"github.com/affine-ml/affine/internal/autodiff"
	"github.com/affine-ml/affine/internal/tensor"
)

// Backend is the autodiff-enabled backend decorator. It implements
// tensor.Backend, so tensors created on it route every operation through the
// gradient tape.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable is the constraint for backends that support
// backpropagation: any tensor.Backend that exposes a gradient tape.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients for every tensor that contributed to t,
// walking the tape in reverse. The result maps raw input tensors to their
// gradients. Panics if the tape recorded no operations.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
