package autodiff

import (
	"github.com/affine-ml/affine/internal/autodiff/ops"
	"github.com/affine-ml/affine/internal/tensor"
)

// GradientTape records operations during the forward pass for later
// backpropagation. Operations are recorded in execution order and replayed
// in reverse during Backward.
//
// The tape is not safe for concurrent use.
type GradientTape struct {
	operations []ops.Operation
	recording  bool
}

// NewGradientTape creates a new gradient tape. Recording is off until
// StartRecording is called.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording. Already recorded operations
// are kept; use Clear to drop them.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording reports whether the tape currently records operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record appends an operation to the tape. Callers should check IsRecording
// first; Record itself does not.
func (t *GradientTape) Record(op ops.Operation) {
	t.operations = append(t.operations, op)
}

// Clear removes all recorded operations. The recording flag is preserved, so
// a training loop can clear between iterations without re-arming the tape.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward walks the tape in reverse and computes gradients for every tensor
// that participated in a recorded operation. outputGrad seeds the gradient of
// the final operation's output (usually a tensor of ones matching the loss).
//
// The returned map is keyed by the raw tensors that appeared as operation
// inputs; look up a parameter's gradient with grads[param.Raw()].
func (t *GradientTape) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)

	if len(t.operations) == 0 {
		return grads
	}

	// Gradient math must not append to the tape it is replaying.
	wasRecording := t.recording
	t.recording = false
	defer func() { t.recording = wasRecording }()

	lastOp := t.operations[len(t.operations)-1]
	grads[lastOp.Output()] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]

		outGrad, ok := grads[op.Output()]
		if !ok {
			// Output not on any path to the seed tensor.
			continue
		}

		inputGrads := op.Backward(outGrad, backend)
		inputs := op.Inputs()

		for j, input := range inputs {
			if inputGrads[j] == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				// Tensor used by several operations: gradients sum.
				grads[input] = backend.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}

	return grads
}
