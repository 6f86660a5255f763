package train_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affine-ml/affine/internal/dataset"
	"github.com/affine-ml/affine/internal/nn"
	"github.com/affine-ml/affine/internal/tensor"
	"github.com/affine-ml/affine/internal/train"
)

func TestEvaluate_KnownLoss(t *testing.T) {
	backend := newBackend()
	model := nn.NewLinear(1, 1, backend)
	require.NoError(t, model.SetWeight([]float32{2}))
	require.NoError(t, model.SetBias([]float32{1}))

	batch := affineBatch(t, backend, []float32{1, 2}, []float32{4, 6})

	// Predictions are [3, 5], so each residual is -1 and the MSE is 1.
	loss, err := train.Evaluate(model, batch, nn.NewMSELoss[testBackend](), backend)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, loss, 1e-6)
}

func TestEvaluate_Deterministic(t *testing.T) {
	backend := newBackend()
	model := nn.NewLinear(1, 1, backend)
	batch := linearBatch(t, backend, dataset.LinearConfig{
		SampleCount: 64,
		NoiseLevel:  0.1,
		Slope:       0.5,
		Bias:        0.3,
	}, 9)

	first, err := train.Evaluate(model, batch, nn.NewMSELoss[testBackend](), backend)
	require.NoError(t, err)
	second, err := train.Evaluate(model, batch, nn.NewMSELoss[testBackend](), backend)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEvaluate_DoesNotMutateParameters(t *testing.T) {
	backend := newBackend()
	model := nn.NewLinear(1, 1, backend)
	batch := linearBatch(t, backend, dataset.LinearConfig{SampleCount: 32, Slope: 2, Bias: 1}, 4)

	weightBefore := append([]float32(nil), model.Weight().Tensor().Data()...)
	biasBefore := append([]float32(nil), model.Bias().Tensor().Data()...)

	_, err := train.Evaluate(model, batch, nn.NewMSELoss[testBackend](), backend)
	require.NoError(t, err)

	assert.Equal(t, weightBefore, model.Weight().Tensor().Data())
	assert.Equal(t, biasBefore, model.Bias().Tensor().Data())
}

func TestEvaluate_RestoresRecordingState(t *testing.T) {
	t.Run("recording stays on", func(t *testing.T) {
		backend := newBackend()
		model := nn.NewLinear(1, 1, backend)
		batch := linearBatch(t, backend, dataset.LinearConfig{SampleCount: 8, Slope: 1, Bias: 0}, 2)

		tape := backend.GetTape()
		tape.StartRecording()
		batch.Inputs.AddScalar(1) // leave something on the tape
		opsBefore := tape.NumOps()

		_, err := train.Evaluate(model, batch, nn.NewMSELoss[testBackend](), backend)
		require.NoError(t, err)

		assert.True(t, tape.IsRecording())
		assert.Equal(t, opsBefore, tape.NumOps(), "evaluation must not record operations")
	})

	t.Run("recording stays off", func(t *testing.T) {
		backend := newBackend()
		model := nn.NewLinear(1, 1, backend)
		batch := linearBatch(t, backend, dataset.LinearConfig{SampleCount: 8, Slope: 1, Bias: 0}, 2)

		_, err := train.Evaluate(model, batch, nn.NewMSELoss[testBackend](), backend)
		require.NoError(t, err)

		assert.False(t, backend.GetTape().IsRecording())
		assert.Equal(t, 0, backend.GetTape().NumOps())
	})
}

func TestEvaluate_NilArguments(t *testing.T) {
	backend := newBackend()
	model := nn.NewLinear(1, 1, backend)
	loss := nn.NewMSELoss[testBackend]()
	batch := linearBatch(t, backend, dataset.LinearConfig{SampleCount: 8, Slope: 1, Bias: 0}, 2)

	_, err := train.Evaluate[testBackend](nil, batch, loss, backend)
	assert.Error(t, err)

	_, err = train.Evaluate(model, nil, loss, backend)
	assert.Error(t, err)

	_, err = train.Evaluate[testBackend](model, batch, nil, backend)
	assert.Error(t, err)
}

// affineBatch builds a batch directly from explicit column vectors.
func affineBatch(t *testing.T, backend testBackend, inputs, targets []float32) *dataset.Batch[testBackend] {
	t.Helper()
	require.Equal(t, len(inputs), len(targets))

	in, err := tensor.FromSlice(inputs, tensor.Shape{len(inputs), 1}, backend)
	require.NoError(t, err)
	out, err := tensor.FromSlice(targets, tensor.Shape{len(targets), 1}, backend)
	require.NoError(t, err)

	return &dataset.Batch[testBackend]{Inputs: in, Targets: out}
}
