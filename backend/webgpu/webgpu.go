// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated tensor
// operations.
//
// WebGPU is a cross-platform graphics and compute API. The underlying
// wgpu_native library currently ships for Windows; on other platforms New
// returns an error and IsAvailable reports false, so callers can fall back
// to the CPU backend.
//
// Example:
//
//	import (
//	    "github.com/affine-ml/affine/autodiff"
//	    "github.com/affine-ml/affine/backend/webgpu"
//	    "github.com/affine-ml/affine/tensor"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//
//	    backend := autodiff.New(gpu)
//	    x := tensor.Randn[float32](tensor.Shape{1024, 1024}, backend)
//	}
package webgpu

import (
	internalwebgpu "github.com/affine-ml/affine/internal/backend/webgpu"
	"github.com/affine-ml/affine/tensor"
)

// Backend represents the WebGPU backend implementation for GPU-accelerated
// tensor operations.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// AdapterInfo describes a GPU adapter in platform-neutral form.
type AdapterInfo = internalwebgpu.AdapterInfo

// New creates a new WebGPU backend.
//
// This function initializes the WebGPU device and returns a backend ready
// for tensor operations. Call Release() when done to free GPU resources.
//
// Returns an error if WebGPU initialization fails (e.g., no compatible GPU
// or unsupported platform).
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// This function attempts to initialize a WebGPU adapter to verify that a
// compatible GPU and drivers are present. It's useful for graceful fallback
// to the CPU backend when no GPU is available.
//
// Example:
//
//	if webgpu.IsAvailable() {
//	    gpu, _ := webgpu.New()
//	    backend = autodiff.New(gpu)
//	} else {
//	    backend = autodiff.New(cpu.New())
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}

// ListAdapters returns information about available GPU adapters without
// creating a device. Used by the CLI to report what hardware a node offers.
func ListAdapters() ([]AdapterInfo, error) {
	return internalwebgpu.ListAdapters()
}
