package tensor

import (
	"fmt"
	"testing"
)

func TestTensorAdd(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	b, _ := FromSlice([]float32{10, 20, 30, 40}, Shape{2, 2}, backend)

	c := a.Add(b)

	expected := []float32{11, 22, 33, 44}
	for i, want := range expected {
		assertEqualFloat32(t, want, c.Data()[i], fmt.Sprintf("Add[%d]", i))
	}
}

func TestTensorAddBroadcast(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	row, _ := FromSlice([]float32{10, 20, 30}, Shape{1, 3}, backend)

	c := a.Add(row)

	assertEqualShape(t, Shape{2, 3}, c.Shape(), "broadcast Add shape")
	expected := []float32{11, 22, 33, 14, 25, 36}
	for i, want := range expected {
		assertEqualFloat32(t, want, c.Data()[i], fmt.Sprintf("broadcast Add[%d]", i))
	}
}

func TestTensorSub(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{10, 20, 30, 40}, Shape{2, 2}, backend)
	b, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)

	c := a.Sub(b)

	expected := []float32{9, 18, 27, 36}
	for i, want := range expected {
		assertEqualFloat32(t, want, c.Data()[i], fmt.Sprintf("Sub[%d]", i))
	}
}

func TestTensorMul(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	b, _ := FromSlice([]float32{2, 2, 2, 2}, Shape{2, 2}, backend)

	c := a.Mul(b)

	expected := []float32{2, 4, 6, 8}
	for i, want := range expected {
		assertEqualFloat32(t, want, c.Data()[i], fmt.Sprintf("Mul[%d]", i))
	}
}

func TestTensorDiv(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{10, 20, 30, 40}, Shape{2, 2}, backend)
	b, _ := FromSlice([]float32{2, 4, 5, 8}, Shape{2, 2}, backend)

	c := a.Div(b)

	expected := []float32{5, 5, 6, 5}
	for i, want := range expected {
		assertEqualFloat32(t, want, c.Data()[i], fmt.Sprintf("Div[%d]", i))
	}
}

func TestTensorMatMul(t *testing.T) {
	backend := NewMockBackend()
	// [[1,2],[3,4]] @ [[5,6],[7,8]] = [[19,22],[43,50]]
	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	b, _ := FromSlice([]float32{5, 6, 7, 8}, Shape{2, 2}, backend)

	c := a.MatMul(b)

	assertEqualShape(t, Shape{2, 2}, c.Shape(), "MatMul shape")
	expected := []float32{19, 22, 43, 50}
	for i, want := range expected {
		assertEqualFloat32(t, want, c.Data()[i], fmt.Sprintf("MatMul[%d]", i))
	}
}

func TestTensorMatMulShapeMismatch(t *testing.T) {
	backend := NewMockBackend()
	a := Zeros[float32](Shape{2, 3}, backend)
	b := Zeros[float32](Shape{2, 3}, backend)

	defer func() {
		if r := recover(); r == nil {
			t.Error("MatMul with incompatible inner dimensions should panic")
		}
	}()
	a.MatMul(b)
}

func TestTensorScalarOps(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{4}, backend)

	add := a.AddScalar(10)
	for i, want := range []float32{11, 12, 13, 14} {
		assertEqualFloat32(t, want, add.Data()[i], fmt.Sprintf("AddScalar[%d]", i))
	}

	sub := a.SubScalar(1)
	for i, want := range []float32{0, 1, 2, 3} {
		assertEqualFloat32(t, want, sub.Data()[i], fmt.Sprintf("SubScalar[%d]", i))
	}

	mul := a.MulScalar(3)
	for i, want := range []float32{3, 6, 9, 12} {
		assertEqualFloat32(t, want, mul.Data()[i], fmt.Sprintf("MulScalar[%d]", i))
	}

	div := a.DivScalar(2)
	for i, want := range []float32{0.5, 1, 1.5, 2} {
		assertEqualFloat32(t, want, div.Data()[i], fmt.Sprintf("DivScalar[%d]", i))
	}
}

func TestTensorReshape(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{6}, backend)

	b := a.Reshape(2, 3)

	assertEqualShape(t, Shape{2, 3}, b.Shape(), "Reshape shape")
	assertEqualFloat32(t, 1, b.At(0, 0), "Reshape At(0,0)")
	assertEqualFloat32(t, 6, b.At(1, 2), "Reshape At(1,2)")
}

func TestTensorTranspose(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)

	b := a.T()

	assertEqualShape(t, Shape{3, 2}, b.Shape(), "Transpose shape")
	assertEqualFloat32(t, 1, b.At(0, 0), "T At(0,0)")
	assertEqualFloat32(t, 4, b.At(0, 1), "T At(0,1)")
	assertEqualFloat32(t, 2, b.At(1, 0), "T At(1,0)")
	assertEqualFloat32(t, 6, b.At(2, 1), "T At(2,1)")
}

func TestTensorSum(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)

	s := a.Sum()

	assertEqualShape(t, Shape{1}, s.Shape(), "Sum shape")
	assertEqualFloat32(t, 10, s.Item(), "Sum value")
}

func TestTensorSumDim(t *testing.T) {
	backend := NewMockBackend()
	// [[1, 2, 3],
	//  [4, 5, 6]]
	a, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)

	sum0 := a.SumDim(0, false)
	assertEqualShape(t, Shape{3}, sum0.Shape(), "SumDim(0) shape")
	for i, want := range []float32{5, 7, 9} {
		assertEqualFloat32(t, want, sum0.Data()[i], fmt.Sprintf("SumDim(0)[%d]", i))
	}

	sum1 := a.SumDim(1, true)
	assertEqualShape(t, Shape{2, 1}, sum1.Shape(), "SumDim(1, keepDim) shape")
	for i, want := range []float32{6, 15} {
		assertEqualFloat32(t, want, sum1.Data()[i], fmt.Sprintf("SumDim(1)[%d]", i))
	}
}

func TestTensorMeanDim(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)

	mean1 := a.MeanDim(1, false)
	assertEqualShape(t, Shape{2}, mean1.Shape(), "MeanDim(1) shape")
	assertEqualFloat32(t, 2, mean1.Data()[0], "MeanDim(1)[0]")
	assertEqualFloat32(t, 5, mean1.Data()[1], "MeanDim(1)[1]")
}

func TestTensorMean(t *testing.T) {
	backend := NewMockBackend()
	a, _ := FromSlice([]float32{2, 4, 6, 8}, Shape{4}, backend)

	m := a.Mean()

	assertEqualShape(t, Shape{1}, m.Shape(), "Mean shape")
	assertEqualFloat32(t, 5, m.Item(), "Mean value")
}
