package cpu

import (
	"testing"

	"github.com/affine-ml/affine/internal/tensor"
)

// Helper to create a float32 tensor prefilled with data.
func newRawFloat32(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

// Helper to check float32 slices are equal within epsilon.
func float32SliceEqual(a, b []float32) bool {
	const epsilon = 1e-5
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > epsilon {
			return false
		}
	}
	return true
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("%s: expected panic, got none", name)
		}
	}()
	fn()
}

func TestCPUBackend_New(t *testing.T) {
	backend := New()
	if backend == nil {
		t.Fatal("New() returned nil")
	}
	if backend.Name() != "CPU" {
		t.Errorf("Expected name 'CPU', got '%s'", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Expected device CPU, got %v", backend.Device())
	}
}

func TestCPUBackend_Add(t *testing.T) {
	backend := New()

	t.Run("SameShape", func(t *testing.T) {
		a := newRawFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		b := newRawFloat32(t, tensor.Shape{2, 3}, []float32{10, 11, 12, 13, 14, 15})

		result := backend.Add(a, b)

		expected := []float32{11, 13, 15, 17, 19, 21}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("Add failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	})

	t.Run("InplaceWhenUnique", func(t *testing.T) {
		a := newRawFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
		b := newRawFloat32(t, tensor.Shape{3}, []float32{10, 20, 30})

		result := backend.Add(a, b)

		// Unique same-shape operand is reused as the destination.
		if result != a {
			t.Error("expected in-place result for unique operand")
		}
		if !float32SliceEqual(a.AsFloat32(), []float32{11, 22, 33}) {
			t.Errorf("in-place Add mutated wrong values: %v", a.AsFloat32())
		}
	})

	t.Run("NoInplaceWhenShared", func(t *testing.T) {
		a := newRawFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
		b := newRawFloat32(t, tensor.Shape{3}, []float32{10, 20, 30})
		shared := a.Clone()
		defer shared.Release()

		result := backend.Add(a, b)

		if result == a {
			t.Error("expected fresh result when operand buffer is shared")
		}
		if !float32SliceEqual(a.AsFloat32(), []float32{1, 2, 3}) {
			t.Errorf("shared operand was mutated: %v", a.AsFloat32())
		}
	})

	t.Run("Broadcast", func(t *testing.T) {
		a := newRawFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		b := newRawFloat32(t, tensor.Shape{1, 3}, []float32{10, 20, 30})

		result := backend.Add(a, b)

		if !result.Shape().Equal(tensor.Shape{2, 3}) {
			t.Fatalf("broadcast shape wrong: %v", result.Shape())
		}
		expected := []float32{11, 22, 33, 14, 25, 36}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("broadcast Add failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	})

	t.Run("BroadcastScalarShape", func(t *testing.T) {
		a := newRawFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
		b := newRawFloat32(t, tensor.Shape{1}, []float32{100})

		result := backend.Add(a, b)

		expected := []float32{101, 102, 103, 104}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("scalar-shape broadcast failed: got %v", result.AsFloat32())
		}
	})

	t.Run("IncompatibleShapes", func(t *testing.T) {
		a := newRawFloat32(t, tensor.Shape{2, 3}, make([]float32, 6))
		b := newRawFloat32(t, tensor.Shape{4}, make([]float32, 4))
		expectPanic(t, "Add incompatible shapes", func() { backend.Add(a, b) })
	})

	t.Run("DTypeMismatch", func(t *testing.T) {
		a := newRawFloat32(t, tensor.Shape{2}, []float32{1, 2})
		b, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float64, tensor.CPU)
		if err != nil {
			t.Fatal(err)
		}
		expectPanic(t, "Add dtype mismatch", func() { backend.Add(a, b) })
	})
}

func TestCPUBackend_SubMulDiv(t *testing.T) {
	backend := New()
	a := newRawFloat32(t, tensor.Shape{4}, []float32{10, 20, 30, 40})
	b := newRawFloat32(t, tensor.Shape{4}, []float32{2, 4, 5, 8})
	// Keep operands shared so results are fresh allocations.
	aRef := a.Clone()
	defer aRef.Release()

	sub := backend.Sub(a, b)
	if !float32SliceEqual(sub.AsFloat32(), []float32{8, 16, 25, 32}) {
		t.Errorf("Sub failed: %v", sub.AsFloat32())
	}

	mul := backend.Mul(a, b)
	if !float32SliceEqual(mul.AsFloat32(), []float32{20, 80, 150, 320}) {
		t.Errorf("Mul failed: %v", mul.AsFloat32())
	}

	div := backend.Div(a, b)
	if !float32SliceEqual(div.AsFloat32(), []float32{5, 5, 6, 5}) {
		t.Errorf("Div failed: %v", div.AsFloat32())
	}
}

func TestCPUBackend_IntegerOps(t *testing.T) {
	backend := New()

	a, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int64, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int64, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	copy(a.AsInt64(), []int64{1, 2, 3})
	copy(b.AsInt64(), []int64{10, 20, 30})

	result := backend.Add(a, b)
	got := result.AsInt64()
	want := []int64{11, 22, 33}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("int64 Add[%d]: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCPUBackend_MatMul(t *testing.T) {
	backend := New()

	t.Run("TwoByTwo", func(t *testing.T) {
		a := newRawFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
		b := newRawFloat32(t, tensor.Shape{2, 2}, []float32{5, 6, 7, 8})

		result := backend.MatMul(a, b)

		expected := []float32{19, 22, 43, 50}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("MatMul failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	})

	t.Run("Rectangular", func(t *testing.T) {
		// [2,3] x [3,2] -> [2,2]
		a := newRawFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		b := newRawFloat32(t, tensor.Shape{3, 2}, []float32{7, 8, 9, 10, 11, 12})

		result := backend.MatMul(a, b)

		if !result.Shape().Equal(tensor.Shape{2, 2}) {
			t.Fatalf("MatMul shape wrong: %v", result.Shape())
		}
		expected := []float32{58, 64, 139, 154}
		if !float32SliceEqual(result.AsFloat32(), expected) {
			t.Errorf("MatMul failed: got %v, expected %v", result.AsFloat32(), expected)
		}
	})

	t.Run("InnerDimMismatch", func(t *testing.T) {
		a := newRawFloat32(t, tensor.Shape{2, 3}, make([]float32, 6))
		b := newRawFloat32(t, tensor.Shape{2, 2}, make([]float32, 4))
		expectPanic(t, "MatMul inner dim", func() { backend.MatMul(a, b) })
	})

	t.Run("NonMatrix", func(t *testing.T) {
		a := newRawFloat32(t, tensor.Shape{6}, make([]float32, 6))
		b := newRawFloat32(t, tensor.Shape{6}, make([]float32, 6))
		expectPanic(t, "MatMul 1D input", func() { backend.MatMul(a, b) })
	})
}

func TestCPUBackend_Reshape(t *testing.T) {
	backend := New()
	x := newRawFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	result := backend.Reshape(x, tensor.Shape{3, 2})

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Reshape shape wrong: %v", result.Shape())
	}
	if !float32SliceEqual(result.AsFloat32(), x.AsFloat32()) {
		t.Error("Reshape must preserve element order")
	}

	expectPanic(t, "Reshape element count", func() {
		backend.Reshape(x, tensor.Shape{4, 2})
	})
}

func TestCPUBackend_Transpose(t *testing.T) {
	backend := New()

	x := newRawFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	result := backend.Transpose(x)

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Transpose shape wrong: %v", result.Shape())
	}
	expected := []float32{1, 4, 2, 5, 3, 6}
	if !float32SliceEqual(result.AsFloat32(), expected) {
		t.Errorf("Transpose failed: got %v, expected %v", result.AsFloat32(), expected)
	}

	vec := newRawFloat32(t, tensor.Shape{6}, make([]float32, 6))
	expectPanic(t, "Transpose 1D input", func() { backend.Transpose(vec) })
}

func TestCPUBackend_ScalarOps(t *testing.T) {
	backend := New()
	x := newRawFloat32(t, tensor.Shape{4}, []float32{2, 4, 6, 8})

	t.Run("AddScalar", func(t *testing.T) {
		result := backend.AddScalar(x, float32(1))
		if !float32SliceEqual(result.AsFloat32(), []float32{3, 5, 7, 9}) {
			t.Errorf("AddScalar failed: %v", result.AsFloat32())
		}
	})

	t.Run("SubScalar", func(t *testing.T) {
		result := backend.SubScalar(x, float32(2))
		if !float32SliceEqual(result.AsFloat32(), []float32{0, 2, 4, 6}) {
			t.Errorf("SubScalar failed: %v", result.AsFloat32())
		}
	})

	t.Run("MulScalar", func(t *testing.T) {
		result := backend.MulScalar(x, float32(3))
		if !float32SliceEqual(result.AsFloat32(), []float32{6, 12, 18, 24}) {
			t.Errorf("MulScalar failed: %v", result.AsFloat32())
		}
	})

	t.Run("DivScalar", func(t *testing.T) {
		result := backend.DivScalar(x, float32(2))
		if !float32SliceEqual(result.AsFloat32(), []float32{1, 2, 3, 4}) {
			t.Errorf("DivScalar failed: %v", result.AsFloat32())
		}
	})

	// Scalars of a different Go type are converted to the tensor dtype.
	t.Run("WidensScalarType", func(t *testing.T) {
		result := backend.DivScalar(x, float64(2))
		if !float32SliceEqual(result.AsFloat32(), []float32{1, 2, 3, 4}) {
			t.Errorf("DivScalar(float64) failed: %v", result.AsFloat32())
		}

		result = backend.AddScalar(x, 10)
		if !float32SliceEqual(result.AsFloat32(), []float32{12, 14, 16, 18}) {
			t.Errorf("AddScalar(int) failed: %v", result.AsFloat32())
		}
	})

	t.Run("DivByZero", func(t *testing.T) {
		expectPanic(t, "DivScalar zero", func() { backend.DivScalar(x, float32(0)) })
	})

	t.Run("UnsupportedScalarType", func(t *testing.T) {
		expectPanic(t, "AddScalar string", func() { backend.AddScalar(x, "nope") })
	})
}

func TestCPUBackend_Sum(t *testing.T) {
	backend := New()

	x := newRawFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	result := backend.Sum(x)

	if !result.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("Sum shape wrong: %v", result.Shape())
	}
	if result.AsFloat32()[0] != 21 {
		t.Errorf("Sum failed: got %v, expected 21", result.AsFloat32()[0])
	}

	i64, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int64, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	copy(i64.AsInt64(), []int64{5, 10, 15})
	if got := backend.Sum(i64).AsInt64()[0]; got != 30 {
		t.Errorf("int64 Sum failed: got %d, expected 30", got)
	}
}

func TestCPUBackend_SumDim(t *testing.T) {
	backend := New()
	x := newRawFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	t.Run("Dim0", func(t *testing.T) {
		result := backend.SumDim(x, 0, false)
		if !result.Shape().Equal(tensor.Shape{3}) {
			t.Fatalf("SumDim(0) shape wrong: %v", result.Shape())
		}
		if !float32SliceEqual(result.AsFloat32(), []float32{5, 7, 9}) {
			t.Errorf("SumDim(0) failed: %v", result.AsFloat32())
		}
	})

	t.Run("Dim1", func(t *testing.T) {
		result := backend.SumDim(x, 1, false)
		if !result.Shape().Equal(tensor.Shape{2}) {
			t.Fatalf("SumDim(1) shape wrong: %v", result.Shape())
		}
		if !float32SliceEqual(result.AsFloat32(), []float32{6, 15}) {
			t.Errorf("SumDim(1) failed: %v", result.AsFloat32())
		}
	})

	t.Run("NegativeDim", func(t *testing.T) {
		result := backend.SumDim(x, -1, false)
		if !float32SliceEqual(result.AsFloat32(), []float32{6, 15}) {
			t.Errorf("SumDim(-1) failed: %v", result.AsFloat32())
		}
	})

	t.Run("KeepDim", func(t *testing.T) {
		result := backend.SumDim(x, 1, true)
		if !result.Shape().Equal(tensor.Shape{2, 1}) {
			t.Fatalf("SumDim keepDim shape wrong: %v", result.Shape())
		}
		if !float32SliceEqual(result.AsFloat32(), []float32{6, 15}) {
			t.Errorf("SumDim keepDim failed: %v", result.AsFloat32())
		}
	})

	t.Run("CollapseToScalar", func(t *testing.T) {
		vec := newRawFloat32(t, tensor.Shape{4}, []float32{1, 2, 3, 4})
		result := backend.SumDim(vec, 0, false)
		if !result.Shape().Equal(tensor.Shape{1}) {
			t.Fatalf("SumDim collapse shape wrong: %v", result.Shape())
		}
		if result.AsFloat32()[0] != 10 {
			t.Errorf("SumDim collapse failed: %v", result.AsFloat32()[0])
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		expectPanic(t, "SumDim out of range", func() { backend.SumDim(x, 2, false) })
	})
}

func TestCPUBackend_MeanDim(t *testing.T) {
	backend := New()
	x := newRawFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	result := backend.MeanDim(x, 1, false)
	if !float32SliceEqual(result.AsFloat32(), []float32{2, 5}) {
		t.Errorf("MeanDim(1) failed: %v", result.AsFloat32())
	}

	keep := backend.MeanDim(x, 0, true)
	if !keep.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("MeanDim keepDim shape wrong: %v", keep.Shape())
	}
	if !float32SliceEqual(keep.AsFloat32(), []float32{2.5, 3.5, 4.5}) {
		t.Errorf("MeanDim(0) failed: %v", keep.AsFloat32())
	}

	i32, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int32, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	expectPanic(t, "MeanDim int dtype", func() { backend.MeanDim(i32, 0, false) })
}
