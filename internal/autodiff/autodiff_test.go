package autodiff_test

import (
	"math"
	"testing"

	"github.com/affine-ml/affine/internal/autodiff"
	"github.com/affine-ml/affine/internal/backend/cpu"
	"github.com/affine-ml/affine/internal/tensor"
)

type cpuAutodiff = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() cpuAutodiff {
	return autodiff.New(cpu.New())
}

func fromSlice(t *testing.T, backend cpuAutodiff, data []float32, shape tensor.Shape) *tensor.Tensor[float32, cpuAutodiff] {
	t.Helper()
	ten, err := tensor.FromSlice(data, shape, backend)
	if err != nil {
		t.Fatalf("FromSlice(%v, %v) failed: %v", data, shape, err)
	}
	return ten
}

func gradOf(t *testing.T, grads map[*tensor.RawTensor]*tensor.RawTensor, raw *tensor.RawTensor) []float32 {
	t.Helper()
	grad, ok := grads[raw]
	if !ok {
		t.Fatalf("no gradient recorded for tensor with shape %v", raw.Shape())
	}
	return grad.AsFloat32()
}

func float32Near(a, b []float32, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(float64(a[i])-float64(b[i])) > tol {
			return false
		}
	}
	return true
}

func TestAutodiffBackend_Name(t *testing.T) {
	backend := newBackend()
	if backend.Name() != "Autodiff(CPU)" {
		t.Errorf("expected name 'Autodiff(CPU)', got %q", backend.Name())
	}
}

func TestAutodiffBackend_Device(t *testing.T) {
	backend := newBackend()
	if backend.Device() != backend.Inner().Device() {
		t.Errorf("expected device to match wrapped backend")
	}
}

func TestTape_Recording(t *testing.T) {
	backend := newBackend()
	tape := backend.Tape()

	if tape.IsRecording() {
		t.Error("new tape should not be recording")
	}

	x := fromSlice(t, backend, []float32{1, 2, 3}, tensor.Shape{3})
	y := fromSlice(t, backend, []float32{4, 5, 6}, tensor.Shape{3})

	x.Add(y)
	if tape.NumOps() != 0 {
		t.Errorf("operation recorded while tape was off: %d ops", tape.NumOps())
	}

	tape.StartRecording()
	x.Add(y)
	if tape.NumOps() != 1 {
		t.Errorf("expected 1 recorded op, got %d", tape.NumOps())
	}

	tape.StopRecording()
	x.Add(y)
	if tape.NumOps() != 1 {
		t.Errorf("op recorded after StopRecording: %d ops", tape.NumOps())
	}
}

func TestTape_ClearKeepsRecordingFlag(t *testing.T) {
	backend := newBackend()
	tape := backend.Tape()
	tape.StartRecording()

	x := fromSlice(t, backend, []float32{1, 2}, tensor.Shape{2})
	x.Add(x)

	tape.Clear()
	if tape.NumOps() != 0 {
		t.Errorf("expected empty tape after Clear, got %d ops", tape.NumOps())
	}
	if !tape.IsRecording() {
		t.Error("Clear should preserve the recording flag")
	}

	x.Add(x)
	if tape.NumOps() != 1 {
		t.Errorf("expected recording to continue after Clear, got %d ops", tape.NumOps())
	}
}

func TestBackward_Square(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	// y = x² so dy/dx = 2x.
	x := fromSlice(t, backend, []float32{2, 3, -1}, tensor.Shape{3})
	y := x.Mul(x)

	grads := autodiff.Backward(y, backend)

	got := gradOf(t, grads, x.Raw())
	want := []float32{4, 6, -2}
	if !float32Near(got, want, 1e-5) {
		t.Errorf("dy/dx = %v, want %v", got, want)
	}
}

func TestBackward_AffineChain(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	// y = x·w + b per row, summed by the ones seed.
	x := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	w := fromSlice(t, backend, []float32{0.5, -0.5, 1, 2}, tensor.Shape{2, 2})
	b := fromSlice(t, backend, []float32{0.1, 0.2}, tensor.Shape{1, 2})

	y := x.MatMul(w).Add(b)

	grads := autodiff.Backward(y, backend)

	// d(sum y)/dx = ones @ wᵀ: column k holds the sum of w's row k.
	gotX := gradOf(t, grads, x.Raw())
	wantX := []float32{0, 3, 0, 3}
	if !float32Near(gotX, wantX, 1e-5) {
		t.Errorf("d/dx = %v, want %v", gotX, wantX)
	}

	// d(sum y)/dw = xᵀ @ ones: row k holds the sum of x's column k.
	gotW := gradOf(t, grads, w.Raw())
	wantW := []float32{4, 4, 6, 6}
	if !float32Near(gotW, wantW, 1e-5) {
		t.Errorf("d/dw = %v, want %v", gotW, wantW)
	}

	// The bias broadcasts over 2 rows, so its gradient sums them.
	gotB := gradOf(t, grads, b.Raw())
	wantB := []float32{2, 2}
	if !float32Near(gotB, wantB, 1e-5) {
		t.Errorf("d/db = %v, want %v", gotB, wantB)
	}
}

func TestBackward_GradientAccumulation(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	// x feeds two operations, so its gradients must sum:
	// y = x·x + x ⇒ dy/dx = 2x + 1.
	x := fromSlice(t, backend, []float32{3}, tensor.Shape{1})
	y := x.Mul(x).Add(x)

	grads := autodiff.Backward(y, backend)

	got := gradOf(t, grads, x.Raw())
	want := []float32{7}
	if !float32Near(got, want, 1e-5) {
		t.Errorf("dy/dx = %v, want %v", got, want)
	}
}

func TestBackward_MeanSquaredErrorChain(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	// loss = sum((pred-target)²)/n ⇒ dloss/dpred = 2(pred-target)/n.
	pred := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{4})
	target := fromSlice(t, backend, []float32{0, 2, 5, 3}, tensor.Shape{4})

	diff := pred.Sub(target)
	loss := diff.Mul(diff).Sum().DivScalar(4)

	if loss.Shape().NumElements() != 1 {
		t.Fatalf("loss should be a single element, got shape %v", loss.Shape())
	}

	grads := autodiff.Backward(loss, backend)

	got := gradOf(t, grads, pred.Raw())
	want := []float32{0.5, 0, -1, 0.5}
	if !float32Near(got, want, 1e-5) {
		t.Errorf("dloss/dpred = %v, want %v", got, want)
	}

	gotTarget := gradOf(t, grads, target.Raw())
	want = []float32{-0.5, 0, 1, -0.5}
	if !float32Near(gotTarget, want, 1e-5) {
		t.Errorf("dloss/dtarget = %v, want %v", gotTarget, want)
	}
}

func TestBackward_PreservesRecordingState(t *testing.T) {
	backend := newBackend()
	tape := backend.Tape()
	tape.StartRecording()

	x := fromSlice(t, backend, []float32{2}, tensor.Shape{1})
	y := x.Mul(x)

	before := tape.NumOps()
	autodiff.Backward(y, backend)

	if tape.NumOps() != before {
		t.Errorf("backward pass recorded %d extra ops", tape.NumOps()-before)
	}
	if !tape.IsRecording() {
		t.Error("backward pass should restore the recording flag")
	}
}

func TestBackward_PanicsOnEmptyTape(t *testing.T) {
	backend := newBackend()

	x := fromSlice(t, backend, []float32{1}, tensor.Shape{1})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for Backward with empty tape")
		}
	}()
	autodiff.Backward(x, backend)
}

func TestBackward_DoesNotMutateInputs(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	// The CPU backend reuses operand buffers when it can. Through the
	// autodiff decorator that reuse must never happen, or stored graph
	// inputs would change under the tape.
	x := fromSlice(t, backend, []float32{1, 2}, tensor.Shape{2})
	y := fromSlice(t, backend, []float32{10, 20}, tensor.Shape{2})

	z := x.Add(y)

	if z.Raw() == x.Raw() || z.Raw() == y.Raw() {
		t.Fatal("result aliases an operand")
	}
	if got := x.Data(); got[0] != 1 || got[1] != 2 {
		t.Errorf("operand mutated: %v", got)
	}
}

func TestBackward_SumDimNegativeDim(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	x := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := x.SumDim(-1, false)

	if !y.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("expected shape [2], got %v", y.Shape())
	}

	grads := autodiff.Backward(y, backend)

	got := gradOf(t, grads, x.Raw())
	want := []float32{1, 1, 1, 1, 1, 1}
	if !float32Near(got, want, 1e-5) {
		t.Errorf("d/dx = %v, want %v", got, want)
	}
}

func TestBackward_DetachedBranchGetsNoGradient(t *testing.T) {
	backend := newBackend()
	tape := backend.Tape()

	x := fromSlice(t, backend, []float32{2}, tensor.Shape{1})

	// Computed off-tape: not part of the graph.
	offTape := x.Mul(x)

	tape.StartRecording()
	y := x.AddScalar(1)
	grads := autodiff.Backward(y, backend)

	if _, ok := grads[offTape.Raw()]; ok {
		t.Error("tensor computed while not recording should have no gradient")
	}
	got := gradOf(t, grads, x.Raw())
	if !float32Near(got, []float32{1}, 1e-5) {
		t.Errorf("d/dx = %v, want [1]", got)
	}
}
