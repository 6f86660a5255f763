// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"math"
	"testing"

	"github.com/affine-ml/affine/internal/backend/cpu"
	"github.com/affine-ml/affine/tensor"
)

// TestBackendInterface verifies that cpu.CPUBackend implements the public
// Backend interface.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.CPUBackend)(nil)
}

func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", raw.Shape())
	}
	if raw.DType() != tensor.Float32 {
		t.Errorf("DType() = %v, want Float32", raw.DType())
	}
	if raw.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", raw.Device())
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", raw.NumElements())
	}
}

func TestCreationFunctions(t *testing.T) {
	backend := cpu.New()

	zeros := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)
	for _, v := range zeros.Data() {
		if v != 0 {
			t.Fatalf("Zeros produced %v", zeros.Data())
		}
	}

	full := tensor.Full[float32](tensor.Shape{3}, 2.5, backend)
	for _, v := range full.Data() {
		if v != 2.5 {
			t.Fatalf("Full produced %v", full.Data())
		}
	}

	ar := tensor.Arange[int32](0, 4, backend)
	want := []int32{0, 1, 2, 3}
	for i, v := range ar.Data() {
		if v != want[i] {
			t.Fatalf("Arange produced %v, want %v", ar.Data(), want)
		}
	}
}

func TestFacadeOpChain(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	y := tensor.Ones[float32](tensor.Shape{2, 2}, backend)

	total := x.Sum()
	if total.Item() != 10 {
		t.Errorf("Sum().Item() = %v, want 10", total.Item())
	}

	// Add may consume x in place (it uniquely owns its buffer), so nothing
	// reads x past this point.
	sum := x.Add(y).MulScalar(2)
	wantSum := []float32{4, 6, 8, 10}
	for i, v := range sum.Data() {
		if math.Abs(float64(v-wantSum[i])) > 1e-6 {
			t.Fatalf("op chain produced %v, want %v", sum.Data(), wantSum)
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	result, needsBroadcast, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{3, 4})
	if err != nil {
		t.Fatalf("BroadcastShapes failed: %v", err)
	}
	if !result.Equal(tensor.Shape{3, 4}) {
		t.Errorf("result = %v, want [3 4]", result)
	}
	if !needsBroadcast {
		t.Error("expected broadcasting to be required")
	}
}
