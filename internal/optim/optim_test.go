package optim_test

import (
	"math"
	"testing"

	"github.com/affine-ml/affine/internal/autodiff"
	"github.com/affine-ml/affine/internal/backend/cpu"
	"github.com/affine-ml/affine/internal/nn"
	"github.com/affine-ml/affine/internal/optim"
	"github.com/affine-ml/affine/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

var (
	_ optim.Optimizer = (*optim.SGD[testBackend])(nil)
	_ optim.Optimizer = (*optim.Adam[testBackend])(nil)
)

func floatEqual(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

func newParam(t *testing.T, backend testBackend, values []float32) *nn.Parameter[testBackend] {
	t.Helper()
	ten, err := tensor.FromSlice(values, tensor.Shape{len(values)}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return nn.NewParameter("x", ten)
}

func gradFor(t *testing.T, backend testBackend, param *nn.Parameter[testBackend], values []float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	grad, err := tensor.NewRaw(tensor.Shape{len(values)}, tensor.Float32, backend.Device())
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(grad.AsFloat32(), values)
	return map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor().Raw(): grad}
}

func TestSGD_SimpleUpdate(t *testing.T) {
	backend := autodiff.New(cpu.New())

	param := newParam(t, backend, []float32{2.0})
	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param}, optim.SGDConfig{LR: 0.1}, backend)

	optimizer.Step(gradFor(t, backend, param, []float32{1.0}))

	// x_new = 2.0 - 0.1*1.0 = 1.9
	if got := param.Tensor().Raw().AsFloat32()[0]; !floatEqual(got, 1.9, 1e-6) {
		t.Errorf("SGD update: got %f, want 1.9", got)
	}
}

func TestSGD_WithMomentum(t *testing.T) {
	backend := autodiff.New(cpu.New())

	param := newParam(t, backend, []float32{1.0})
	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)

	// Step 1: v = 0.9*0 + 1 = 1; x = 1 - 0.1*1 = 0.9
	optimizer.Step(gradFor(t, backend, param, []float32{1.0}))
	if got := param.Tensor().Raw().AsFloat32()[0]; !floatEqual(got, 0.9, 1e-6) {
		t.Errorf("SGD momentum step 1: got %f, want 0.9", got)
	}

	// Step 2: v = 0.9*1 + 1 = 1.9; x = 0.9 - 0.1*1.9 = 0.71
	optimizer.Step(gradFor(t, backend, param, []float32{1.0}))
	if got := param.Tensor().Raw().AsFloat32()[0]; !floatEqual(got, 0.71, 1e-5) {
		t.Errorf("SGD momentum step 2: got %f, want 0.71", got)
	}
}

func TestSGD_SkipsParameterWithoutGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())

	trained := newParam(t, backend, []float32{1.0})
	frozen := newParam(t, backend, []float32{5.0})

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{trained, frozen},
		optim.SGDConfig{LR: 0.1}, backend)

	// Only the trained parameter appears in the gradient map.
	optimizer.Step(gradFor(t, backend, trained, []float32{1.0}))

	if got := trained.Tensor().Raw().AsFloat32()[0]; !floatEqual(got, 0.9, 1e-6) {
		t.Errorf("trained param: got %f, want 0.9", got)
	}
	if got := frozen.Tensor().Raw().AsFloat32()[0]; got != 5.0 {
		t.Errorf("frozen param moved: got %f, want 5.0", got)
	}
}

func TestSGD_ZeroGrad(t *testing.T) {
	backend := autodiff.New(cpu.New())

	param := newParam(t, backend, []float32{1.0})
	grad, _ := tensor.FromSlice([]float32{5.0}, tensor.Shape{1}, backend)
	param.SetGrad(grad)

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param}, optim.SGDConfig{LR: 0.1}, backend)
	optimizer.ZeroGrad()

	if param.Grad() != nil {
		t.Error("Grad should be nil after ZeroGrad")
	}
}

func TestSGD_GetSetLR(t *testing.T) {
	backend := autodiff.New(cpu.New())

	param := newParam(t, backend, []float32{1.0})
	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param}, optim.SGDConfig{LR: 0.01}, backend)

	if optimizer.GetLR() != 0.01 {
		t.Errorf("GetLR: got %f, want 0.01", optimizer.GetLR())
	}

	optimizer.SetLR(0.001)
	if optimizer.GetLR() != 0.001 {
		t.Errorf("GetLR after SetLR: got %f, want 0.001", optimizer.GetLR())
	}
}

func TestSGD_StateDictRoundTrip(t *testing.T) {
	backend := autodiff.New(cpu.New())

	param := newParam(t, backend, []float32{1.0})
	src := optim.NewSGD([]*nn.Parameter[testBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)

	// Build up velocity, then transplant it into a fresh optimizer.
	src.Step(gradFor(t, backend, param, []float32{1.0}))

	state := src.StateDict()
	if len(state) != 1 {
		t.Fatalf("StateDict size = %d, want 1", len(state))
	}

	dst := optim.NewSGD([]*nn.Parameter[testBackend]{param},
		optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)
	if err := dst.LoadStateDict(state); err != nil {
		t.Fatalf("LoadStateDict failed: %v", err)
	}

	// With restored velocity v=1: v' = 0.9*1 + 1 = 1.9 rather than 1.0.
	before := param.Tensor().Raw().AsFloat32()[0]
	dst.Step(gradFor(t, backend, param, []float32{1.0}))
	after := param.Tensor().Raw().AsFloat32()[0]

	if !floatEqual(before-after, 0.19, 1e-5) {
		t.Errorf("step with restored velocity moved %f, want 0.19", before-after)
	}
}

func TestAdam_SimpleUpdate(t *testing.T) {
	backend := autodiff.New(cpu.New())

	param := newParam(t, backend, []float32{1.0})
	optimizer := optim.NewAdam([]*nn.Parameter[testBackend]{param}, optim.AdamConfig{
		LR:    0.001,
		Betas: [2]float32{0.9, 0.999},
		Eps:   1e-8,
	}, backend)

	optimizer.Step(gradFor(t, backend, param, []float32{1.0}))

	// m=0.1, v=0.001; with bias correction m_hat=v_hat=1, so
	// x = 1 - 0.001*1/(1+eps) ≈ 0.999
	if got := param.Tensor().Raw().AsFloat32()[0]; !floatEqual(got, 0.999, 1e-5) {
		t.Errorf("Adam first step: got %f, want 0.999", got)
	}
}

func TestAdam_TimestepAdvances(t *testing.T) {
	backend := autodiff.New(cpu.New())

	param := newParam(t, backend, []float32{1.0})
	optimizer := optim.NewAdam([]*nn.Parameter[testBackend]{param}, optim.AdamConfig{LR: 0.01}, backend)

	if optimizer.GetTimestep() != 0 {
		t.Errorf("initial timestep: got %d, want 0", optimizer.GetTimestep())
	}

	for i := 1; i <= 3; i++ {
		optimizer.Step(gradFor(t, backend, param, []float32{1.0}))
		if optimizer.GetTimestep() != i {
			t.Errorf("after step %d, timestep: got %d, want %d", i, optimizer.GetTimestep(), i)
		}
	}

	if final := param.Tensor().Raw().AsFloat32()[0]; final >= 1.0 {
		t.Errorf("after 3 Adam steps with positive gradient, parameter should decrease: got %f", final)
	}
}

func TestAdam_ZeroGrad(t *testing.T) {
	backend := autodiff.New(cpu.New())

	param := newParam(t, backend, []float32{1.0})
	grad, _ := tensor.FromSlice([]float32{5.0}, tensor.Shape{1}, backend)
	param.SetGrad(grad)

	optimizer := optim.NewAdam([]*nn.Parameter[testBackend]{param}, optim.AdamConfig{LR: 0.001}, backend)
	optimizer.ZeroGrad()

	if param.Grad() != nil {
		t.Error("Adam ZeroGrad should clear gradients")
	}
}

// TestConvergence_SimpleQuadratic verifies both optimizers can minimize
// f(x) = x², whose minimum is x = 0, using the hand-computed gradient 2x.
func TestConvergence_SimpleQuadratic(t *testing.T) {
	run := func(t *testing.T, makeOpt func(param *nn.Parameter[testBackend], backend testBackend) optim.Optimizer) {
		t.Helper()
		backend := autodiff.New(cpu.New())
		param := newParam(t, backend, []float32{3.0})
		optimizer := makeOpt(param, backend)

		for i := 0; i < 100; i++ {
			x := param.Tensor().Raw().AsFloat32()[0]
			optimizer.Step(gradFor(t, backend, param, []float32{2.0 * x}))
		}

		if final := param.Tensor().Raw().AsFloat32()[0]; math.Abs(float64(final)) > 0.1 {
			t.Errorf("x = %f after 100 steps, expected close to 0", final)
		}
	}

	t.Run("SGD", func(t *testing.T) {
		run(t, func(param *nn.Parameter[testBackend], backend testBackend) optim.Optimizer {
			return optim.NewSGD([]*nn.Parameter[testBackend]{param},
				optim.SGDConfig{LR: 0.1, Momentum: 0.9}, backend)
		})
	})

	t.Run("Adam", func(t *testing.T) {
		run(t, func(param *nn.Parameter[testBackend], backend testBackend) optim.Optimizer {
			return optim.NewAdam([]*nn.Parameter[testBackend]{param},
				optim.AdamConfig{LR: 0.1}, backend)
		})
	})
}

func TestMultipleParameters(t *testing.T) {
	backend := autodiff.New(cpu.New())

	param1 := newParam(t, backend, []float32{1.0, 2.0})
	param2 := newParam(t, backend, []float32{3.0})

	optimizer := optim.NewSGD([]*nn.Parameter[testBackend]{param1, param2},
		optim.SGDConfig{LR: 0.1}, backend)

	grads := gradFor(t, backend, param1, []float32{1.0, 2.0})
	for k, v := range gradFor(t, backend, param2, []float32{0.5}) {
		grads[k] = v
	}

	optimizer.Step(grads)

	p1 := param1.Tensor().Raw().AsFloat32()
	if !floatEqual(p1[0], 0.9, 1e-6) || !floatEqual(p1[1], 1.8, 1e-6) {
		t.Errorf("param1: got [%f, %f], want [0.9, 1.8]", p1[0], p1[1])
	}
	if p2 := param2.Tensor().Raw().AsFloat32(); !floatEqual(p2[0], 2.95, 1e-6) {
		t.Errorf("param2: got %f, want 2.95", p2[0])
	}
}
