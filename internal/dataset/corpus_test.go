package dataset_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affine-ml/affine/internal/backend/cpu"
	"github.com/affine-ml/affine/internal/dataset"
	"github.com/affine-ml/affine/internal/tensor"
)

// requireEncoding skips when the tiktoken BPE data is unavailable (the
// library fetches it on first use).
func requireEncoding(t *testing.T, name string) int {
	t.Helper()
	size, err := dataset.VocabSize(name)
	if err != nil && !errors.Is(err, dataset.ErrInvalidArgument) {
		t.Skipf("tiktoken encoding %q unavailable: %v", name, err)
	}
	require.NoError(t, err)
	return size
}

func TestVocabSize(t *testing.T) {
	size := requireEncoding(t, "cl100k_base")
	assert.Equal(t, 100256, size)
}

func TestVocabSize_UnknownEncoding(t *testing.T) {
	_, err := dataset.VocabSize("not_a_real_encoding")
	assert.Error(t, err)
}

func TestCorpus(t *testing.T) {
	vocabSize := requireEncoding(t, "cl100k_base")

	backend := cpu.New()
	rng := rand.New(rand.NewSource(21))

	corpus, err := dataset.Corpus(dataset.CorpusConfig{
		Sentences:   8,
		ContextSize: 16,
		Encoding:    "cl100k_base",
	}, rng, backend)
	require.NoError(t, err)

	assert.True(t, corpus.Shape().Equal(tensor.Shape{8, 16}))
	assert.Equal(t, tensor.Int64, corpus.DType())

	for i, id := range corpus.Data() {
		if id < 0 || id >= int64(vocabSize) {
			t.Fatalf("token %d = %d outside [0, %d)", i, id, vocabSize)
		}
	}
}

func TestCorpus_RejectsInvalidConfig(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(22))

	_, err := dataset.Corpus(dataset.CorpusConfig{Sentences: 0, ContextSize: 4, Encoding: "cl100k_base"}, rng, backend)
	assert.True(t, errors.Is(err, dataset.ErrInvalidArgument))

	_, err = dataset.Corpus(dataset.CorpusConfig{Sentences: 4, ContextSize: 0, Encoding: "cl100k_base"}, rng, backend)
	assert.True(t, errors.Is(err, dataset.ErrInvalidArgument))

	_, err = dataset.Corpus(dataset.CorpusConfig{Sentences: 4, ContextSize: 4}, rng, backend)
	assert.True(t, errors.Is(err, dataset.ErrInvalidArgument), "missing encoding name")
}
