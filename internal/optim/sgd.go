package optim

import (
	"fmt"

	"github.com/affine-ml/affine/internal/nn"
	"github.com/affine-ml/affine/internal/tensor"
)

// SGD implements stochastic gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Momentum accelerates descent along consistent gradient directions and
// dampens oscillations.
type SGD[B tensor.Backend] struct {
	params     []*nn.Parameter[B]
	lr         float32
	momentum   float32
	velocities map[*nn.Parameter[B]]*tensor.Tensor[float32, B]
	backend    B
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float32 // learning rate (default: 0.01)
	Momentum float32 // momentum factor (default: 0, range [0, 1))
}

// NewSGD creates a new SGD optimizer over the given parameters. Velocity
// buffers are allocated lazily on the first step that needs them.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig, backend B) *SGD[B] {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD[B]{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter[B]]*tensor.Tensor[float32, B]),
		backend:    backend,
	}
}

// Step applies one gradient descent update to every parameter that has a
// gradient. Parameters missing from the map did not participate in the
// forward pass and are skipped.
func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range s.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}

		gradData := grad.AsFloat32()
		paramData := param.Tensor().Raw().AsFloat32()

		if s.momentum == 0 {
			for i := range paramData {
				paramData[i] -= s.lr * gradData[i]
			}
			continue
		}

		velocity := s.velocityFor(param)
		velocityData := velocity.Raw().AsFloat32()
		for i := range paramData {
			velocityData[i] = s.momentum*velocityData[i] + gradData[i]
			paramData[i] -= s.lr * velocityData[i]
		}
	}
}

func (s *SGD[B]) velocityFor(param *nn.Parameter[B]) *tensor.Tensor[float32, B] {
	velocity, ok := s.velocities[param]
	if !ok {
		velocity = tensor.Zeros[float32](param.Tensor().Shape(), s.backend)
		s.velocities[param] = velocity
	}
	return velocity
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD[B]) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (s *SGD[B]) GetLR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD[B]) SetLR(lr float32) {
	s.lr = lr
}

// StateDict returns the optimizer state for serialization. With momentum
// enabled this exports the velocity buffer of each parameter under
// "velocity.{param_index}"; without momentum the map is empty.
func (s *SGD[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	if s.momentum == 0 {
		return stateDict
	}

	for i, param := range s.params {
		velocity, ok := s.velocities[param]
		if !ok {
			continue
		}
		stateDict[fmt.Sprintf("velocity.%d", i)] = velocity.Raw()
	}

	return stateDict
}

// LoadStateDict restores velocity buffers saved by StateDict. Entries for
// parameters that have no saved velocity stay lazily initialized. Errors
// when a velocity shape does not match its parameter.
func (s *SGD[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if s.momentum == 0 {
		return nil
	}

	s.velocities = make(map[*nn.Parameter[B]]*tensor.Tensor[float32, B])

	for i, param := range s.params {
		raw, ok := stateDict[fmt.Sprintf("velocity.%d", i)]
		if !ok {
			continue
		}
		if !raw.Shape().Equal(param.Tensor().Shape()) {
			return fmt.Errorf("velocity shape mismatch for parameter %d: expected %v, got %v",
				i, param.Tensor().Shape(), raw.Shape())
		}
		s.velocities[param] = tensor.New[float32, B](raw, s.backend)
	}

	return nil
}
