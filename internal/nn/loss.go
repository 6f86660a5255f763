package nn

import (
	"fmt"

	"github.com/affine-ml/affine/internal/tensor"
)

// Loss reduces predictions and targets to a single-element tensor. Training
// loops pick the loss at construction time, so swapping MSE for L1 is a
// configuration change rather than a code change.
//
// Implementations must run every arithmetic step through the backend:
// gradients only flow to the model parameters if the whole reduction is on
// the gradient tape.
type Loss[B tensor.Backend] interface {
	// Forward computes the scalar loss. Predictions and targets must have
	// identical shapes; a mismatch panics, matching the rest of the
	// compute path.
	Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Name identifies the loss in logs and reports.
	Name() string
}

// MSELoss computes mean squared error: mean((predictions - targets)²).
// The standard regression loss.
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return &MSELoss[B]{}
}

// Forward computes mean((predictions - targets)²) as a one-element tensor.
// The mean is computed as sum/n through the backend, keeping the full chain
// differentiable.
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	mustMatchShapes("MSELoss", predictions, targets)

	diff := predictions.Sub(targets)
	return diff.Mul(diff).Sum().DivScalar(float32(predictions.NumElements()))
}

// Name returns "mse".
func (m *MSELoss[B]) Name() string {
	return "mse"
}

// Parameters returns nil: loss functions have no trainable parameters.
func (m *MSELoss[B]) Parameters() []*Parameter[B] {
	return nil
}

// L1Loss computes mean absolute error: mean(|predictions - targets|).
// Less sensitive to outliers than MSE.
type L1Loss[B tensor.Backend] struct{}

// NewL1Loss creates a new L1 loss function.
func NewL1Loss[B tensor.Backend]() *L1Loss[B] {
	return &L1Loss[B]{}
}

// Forward computes mean(|predictions - targets|) as a one-element tensor.
func (l *L1Loss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	mustMatchShapes("L1Loss", predictions, targets)

	diff := predictions.Sub(targets)

	// |d| = d · sign(d). The sign factor is a constant built outside the
	// graph, so the backward pass sees exactly the L1 subgradient
	// sign(d)/n without needing an absolute-value kernel.
	return diff.Mul(signOf(diff)).Sum().DivScalar(float32(predictions.NumElements()))
}

// Name returns "l1".
func (l *L1Loss[B]) Name() string {
	return "l1"
}

// Parameters returns nil: loss functions have no trainable parameters.
func (l *L1Loss[B]) Parameters() []*Parameter[B] {
	return nil
}

func mustMatchShapes[B tensor.Backend](loss string, predictions, targets *tensor.Tensor[float32, B]) {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("nn: %s: shape mismatch: predictions %v, targets %v",
			loss, predictions.Shape(), targets.Shape()))
	}
}

func signOf[B tensor.Backend](t *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	data := t.Raw().AsFloat32()
	signs := make([]float32, len(data))
	for i, v := range data {
		switch {
		case v > 0:
			signs[i] = 1
		case v < 0:
			signs[i] = -1
		}
	}

	sign, err := tensor.FromSlice(signs, t.Shape().Clone(), t.Backend())
	if err != nil {
		panic(fmt.Sprintf("nn: building sign tensor: %v", err))
	}
	return sign
}
