package train

import (
	"errors"

	"github.com/affine-ml/affine/internal/autodiff"
	"github.com/affine-ml/affine/internal/dataset"
	"github.com/affine-ml/affine/internal/nn"
)

// Evaluate computes the loss over a held-out batch without touching model
// parameters or the gradient tape. Tape recording is switched off for the
// duration and restored before returning, so evaluating mid-training leaves
// the tape exactly as it was.
//
// The computation is a plain forward pass with no random inputs: identical
// model and batch give an identical result.
func Evaluate[B autodiff.BackwardCapable](model nn.Module[B], batch *dataset.Batch[B], loss nn.Loss[B], backend B) (float64, error) {
	if model == nil {
		return 0, errors.New("train: model is nil")
	}
	if batch == nil {
		return 0, errors.New("train: batch is nil")
	}
	if loss == nil {
		return 0, errors.New("train: loss is nil")
	}

	tape := backend.GetTape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	predictions := model.Forward(batch.Inputs)
	metric := loss.Forward(predictions, batch.Targets)

	return float64(metric.Item()), nil
}
