// Package dataset generates synthetic training data for regression and
// throughput exercises.
//
// All generators take an explicit *rand.Rand so runs are reproducible from a
// seed; nothing here reads global random state. Generated batches are plain
// value holders owned by the caller.
package dataset

import (
	"errors"
	"fmt"

	"github.com/affine-ml/affine/internal/tensor"
)

// ErrInvalidArgument marks configuration errors detected before any data is
// generated. Test with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Batch pairs inputs with their targets. Inputs have shape
// [samples, in_features] and targets [samples, out_features]; row i of one
// corresponds to row i of the other.
type Batch[B tensor.Backend] struct {
	Inputs  *tensor.Tensor[float32, B]
	Targets *tensor.Tensor[float32, B]
}

// Len returns the number of samples in the batch.
func (b *Batch[B]) Len() int {
	return b.Inputs.Shape()[0]
}

// Split partitions the batch by rows into a head holding the given fraction
// of samples and a tail holding the rest, e.g. Split(0.8) for an 80/20
// train/held-out split. Both parts are copies; mutating one never affects
// the other or the original. Errors unless 0 < fraction < 1 leaves at least
// one sample on each side.
func (b *Batch[B]) Split(fraction float64) (head, tail *Batch[B], err error) {
	n := b.Len()
	headLen := int(float64(n) * fraction)
	if headLen < 1 || headLen >= n {
		return nil, nil, fmt.Errorf("%w: fraction %v of %d samples leaves an empty side", ErrInvalidArgument, fraction, n)
	}

	headInputs, tailInputs, err := splitRows(b.Inputs, headLen)
	if err != nil {
		return nil, nil, err
	}
	headTargets, tailTargets, err := splitRows(b.Targets, headLen)
	if err != nil {
		return nil, nil, err
	}

	return &Batch[B]{Inputs: headInputs, Targets: headTargets},
		&Batch[B]{Inputs: tailInputs, Targets: tailTargets}, nil
}

func splitRows[B tensor.Backend](t *tensor.Tensor[float32, B], headLen int) (head, tail *tensor.Tensor[float32, B], err error) {
	shape := t.Shape()
	rowSize := shape.NumElements() / shape[0]
	data := t.Data()

	headShape := shape.Clone()
	headShape[0] = headLen
	head, err = tensor.FromSlice(data[:headLen*rowSize], headShape, t.Backend())
	if err != nil {
		return nil, nil, err
	}

	tailShape := shape.Clone()
	tailShape[0] = shape[0] - headLen
	tail, err = tensor.FromSlice(data[headLen*rowSize:], tailShape, t.Backend())
	if err != nil {
		return nil, nil, err
	}

	return head, tail, nil
}
