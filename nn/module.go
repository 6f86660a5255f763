// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/affine-ml/affine/internal/checkpoint"
	"github.com/affine-ml/affine/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: compute output from input
//   - Parameters: return all trainable parameters
//   - StateDict: export parameters for serialization
//   - LoadStateDict: import parameters from serialization
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this module.
	// For example, Linear expects [batch_size, in_features].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module.
	//
	// Fixed (non-trainable) parameters such as a pinned bias are excluded,
	// so optimizers can iterate the result directly.
	Parameters() []*Parameter[B]

	// StateDict returns a map of parameter names to raw tensors.
	//
	// Unlike Parameters, the state dictionary includes fixed parameters:
	// it describes the full model state, not just what an optimizer
	// updates.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict loads parameters from a state dictionary.
	//
	// Returns an error if a required parameter is missing or has the
	// wrong shape or dtype.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}

// Note: internal implementations of Module automatically satisfy this
// interface because they have the same method signatures.

// Save writes a module's state dictionary to an .affine file.
//
// Example:
//
//	backend := cpu.New()
//	model := nn.NewLinear(1, 1, backend)
//	err := nn.Save(model, "model.affine", "Linear", nil)
func Save[B tensor.Backend](module Module[B], path, modelType string, metadata map[string]string) error {
	writer, err := checkpoint.NewWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = writer.Close()
	}()

	return writer.WriteStateDict(module.StateDict(), modelType, metadata)
}

// Load reads a state dictionary from an .affine file into the provided
// module. The module must already have the right architecture; Load only
// fills in parameter values.
//
// Returns the file header, which carries the model type, creation time and
// any training metadata recorded at save time.
//
// Example:
//
//	backend := cpu.New()
//	model := nn.NewLinear(1, 1, backend)
//	header, err := nn.Load("model.affine", backend, model)
func Load[B tensor.Backend](path string, backend B, module Module[B]) (checkpoint.Header, error) {
	reader, err := checkpoint.NewReader(path)
	if err != nil {
		return checkpoint.Header{}, err
	}
	defer func() {
		_ = reader.Close()
	}()

	stateDict, err := reader.ReadStateDict(backend)
	if err != nil {
		return checkpoint.Header{}, err
	}

	if err := module.LoadStateDict(stateDict); err != nil {
		return checkpoint.Header{}, err
	}

	return reader.Header(), nil
}
