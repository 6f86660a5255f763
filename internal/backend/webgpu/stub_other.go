//go:build !windows

// Package webgpu implements the GPU backend on top of WebGPU.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
//
// The native wgpu library ships for Windows only; on other platforms New
// reports the backend as unavailable and the operation set is stubbed out.
package webgpu

import (
	"errors"

	"github.com/affine-ml/affine/internal/tensor"
)

// ErrUnsupportedPlatform is returned by New on platforms without wgpu_native.
var ErrUnsupportedPlatform = errors.New("webgpu: not supported on this platform")

// Backend implements tensor operations on GPU using WebGPU.
type Backend struct{}

var _ tensor.Backend = (*Backend)(nil)

// AdapterInfo describes a GPU adapter in platform-neutral form.
type AdapterInfo struct {
	Name   string
	Vendor string
}

// New reports that WebGPU is unavailable on this platform.
func New() (*Backend, error) {
	return nil, ErrUnsupportedPlatform
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() bool { return false }

// ListAdapters returns information about available GPU adapters.
func ListAdapters() ([]AdapterInfo, error) {
	return nil, ErrUnsupportedPlatform
}

// Release releases all WebGPU resources.
func (b *Backend) Release() {}

// Name returns the backend name.
func (b *Backend) Name() string { return "WebGPU" }

// Device returns the compute device.
func (b *Backend) Device() tensor.Device { return tensor.WebGPU }

// Adapter returns information about the adapter backing this backend.
func (b *Backend) Adapter() AdapterInfo { return AdapterInfo{Name: "unavailable"} }

func (b *Backend) Add(_, _ *tensor.RawTensor) *tensor.RawTensor { panic(ErrUnsupportedPlatform) }
func (b *Backend) Sub(_, _ *tensor.RawTensor) *tensor.RawTensor { panic(ErrUnsupportedPlatform) }
func (b *Backend) Mul(_, _ *tensor.RawTensor) *tensor.RawTensor { panic(ErrUnsupportedPlatform) }
func (b *Backend) Div(_, _ *tensor.RawTensor) *tensor.RawTensor { panic(ErrUnsupportedPlatform) }
func (b *Backend) MatMul(_, _ *tensor.RawTensor) *tensor.RawTensor {
	panic(ErrUnsupportedPlatform)
}

func (b *Backend) Reshape(_ *tensor.RawTensor, _ tensor.Shape) *tensor.RawTensor {
	panic(ErrUnsupportedPlatform)
}

func (b *Backend) Transpose(_ *tensor.RawTensor) *tensor.RawTensor {
	panic(ErrUnsupportedPlatform)
}

func (b *Backend) AddScalar(_ *tensor.RawTensor, _ any) *tensor.RawTensor {
	panic(ErrUnsupportedPlatform)
}

func (b *Backend) SubScalar(_ *tensor.RawTensor, _ any) *tensor.RawTensor {
	panic(ErrUnsupportedPlatform)
}

func (b *Backend) MulScalar(_ *tensor.RawTensor, _ any) *tensor.RawTensor {
	panic(ErrUnsupportedPlatform)
}

func (b *Backend) DivScalar(_ *tensor.RawTensor, _ any) *tensor.RawTensor {
	panic(ErrUnsupportedPlatform)
}

func (b *Backend) Sum(_ *tensor.RawTensor) *tensor.RawTensor { panic(ErrUnsupportedPlatform) }

func (b *Backend) SumDim(_ *tensor.RawTensor, _ int, _ bool) *tensor.RawTensor {
	panic(ErrUnsupportedPlatform)
}

func (b *Backend) MeanDim(_ *tensor.RawTensor, _ int, _ bool) *tensor.RawTensor {
	panic(ErrUnsupportedPlatform)
}
