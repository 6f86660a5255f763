package nn

import (
	"fmt"

	"github.com/affine-ml/affine/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the affine transformation y = x @ Wᵀ + b where:
//   - x is the input with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output with shape [batch_size, out_features]
//
// Weights are initialized with Xavier/Glorot initialization, biases to
// zeros. With in_features = out_features = 1 this is the scalar regression
// model y = w·x + b.
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B] // [out_features, in_features]
	bias        *Parameter[B] // [out_features]
	fixedBias   bool
	backend     B
}

// NewLinear creates a Linear layer with Xavier-initialized weights and a
// zero, trainable bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	weight := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, backend)
	bias := Zeros(tensor.Shape{outFeatures}, backend)
	return newLinear(inFeatures, outFeatures, weight, bias, false, backend)
}

// NewLinearFixedBias creates a Linear layer whose bias is pinned to a
// constant. The bias still participates in the forward pass but is excluded
// from Parameters(), so optimizers never update it. Useful for exercises
// where the intercept is part of the problem statement rather than learned.
func NewLinearFixedBias[B tensor.Backend](inFeatures, outFeatures int, bias float32, backend B) *Linear[B] {
	weight := Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, backend)
	biasTensor := Full(tensor.Shape{outFeatures}, bias, backend)
	return newLinear(inFeatures, outFeatures, weight, biasTensor, true, backend)
}

func newLinear[B tensor.Backend](inFeatures, outFeatures int, weight, bias *tensor.Tensor[float32, B], fixedBias bool, backend B) *Linear[B] {
	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
		fixedBias:   fixedBias,
		backend:     backend,
	}
}

// Forward computes y = x @ Wᵀ + b.
//
// Input shape: [batch_size, in_features]. Output shape:
// [batch_size, out_features]. Panics on a shape mismatch: feeding a model
// data of the wrong width is a configuration error, not a runtime condition
// to recover from.
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("nn: Linear.Forward expects 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("nn: Linear.Forward expects input with %d features, got %d", l.inFeatures, inputShape[1]))
	}

	// [batch, in] @ [in, out] = [batch, out]
	output := input.MatMul(l.weight.Tensor().Transpose())

	// Bias [out] reshaped to [1, out] broadcasts over the batch. The
	// reshape goes through the backend so gradients reach the stored bias.
	return output.Add(l.bias.Tensor().Reshape(1, l.outFeatures))
}

// Parameters returns the trainable parameters: [weight, bias], or just
// [weight] when the bias is fixed.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	if l.fixedBias {
		return []*Parameter[B]{l.weight}
	}
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter. For fixed-bias layers this is the pinned
// constant, readable but not trained.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}

// SetWeight copies values into the weight tensor. Errors when the length
// does not match out_features × in_features.
func (l *Linear[B]) SetWeight(values []float32) error {
	dst := l.weight.Tensor().Data()
	if len(values) != len(dst) {
		return fmt.Errorf("weight expects %d values, got %d", len(dst), len(values))
	}
	copy(dst, values)
	return nil
}

// SetBias copies values into the bias tensor. Errors when the length does
// not match out_features.
func (l *Linear[B]) SetBias(values []float32) error {
	dst := l.bias.Tensor().Data()
	if len(values) != len(dst) {
		return fmt.Errorf("bias expects %d values, got %d", len(dst), len(values))
	}
	copy(dst, values)
	return nil
}

// StateDict returns a map of parameter names to raw tensors.
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": l.weight.Tensor().Raw(),
		"bias":   l.bias.Tensor().Raw(),
	}
}

// LoadStateDict copies parameters in from a state dictionary, validating
// shape and dtype.
func (l *Linear[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if err := l.loadEntry(stateDict, "weight", tensor.Shape{l.outFeatures, l.inFeatures}, l.weight); err != nil {
		return err
	}
	return l.loadEntry(stateDict, "bias", tensor.Shape{l.outFeatures}, l.bias)
}

func (l *Linear[B]) loadEntry(stateDict map[string]*tensor.RawTensor, name string, want tensor.Shape, param *Parameter[B]) error {
	raw, ok := stateDict[name]
	if !ok {
		return fmt.Errorf("missing %s in state dict", name)
	}
	if !raw.Shape().Equal(want) {
		return fmt.Errorf("%s shape mismatch: expected %v, got %v", name, want, raw.Shape())
	}
	if raw.DType() != tensor.Float32 {
		return fmt.Errorf("%s dtype mismatch: expected float32, got %v", name, raw.DType())
	}
	copy(param.Tensor().Data(), raw.AsFloat32())
	return nil
}
