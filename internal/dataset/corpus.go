package dataset

import (
	"fmt"
	"math/rand"

	"github.com/pkoukk/tiktoken-go"

	"github.com/affine-ml/affine/internal/tensor"
)

// CorpusConfig describes a random token-ID corpus shaped like tokenized
// text, for exercising data pipelines without shipping an actual dataset.
type CorpusConfig struct {
	// Sentences is the number of rows.
	Sentences int
	// ContextSize is the number of token IDs per row.
	ContextSize int
	// Encoding names the tiktoken encoding whose vocabulary bounds the
	// token IDs, e.g. "cl100k_base".
	Encoding string
}

// Validate reports whether the configuration can generate a corpus.
func (c CorpusConfig) Validate() error {
	if c.Sentences <= 0 {
		return fmt.Errorf("%w: sentences must be positive, got %d", ErrInvalidArgument, c.Sentences)
	}
	if c.ContextSize <= 0 {
		return fmt.Errorf("%w: context size must be positive, got %d", ErrInvalidArgument, c.ContextSize)
	}
	if c.Encoding == "" {
		return fmt.Errorf("%w: encoding name is required", ErrInvalidArgument)
	}
	return nil
}

// Corpus generates a [sentences, contextSize] int64 tensor of uniformly
// random token IDs below the vocabulary size of the configured encoding.
func Corpus[B tensor.Backend](cfg CorpusConfig, rng *rand.Rand, backend B) (*tensor.Tensor[int64, B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	vocabSize, err := VocabSize(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	tokens := make([]int64, cfg.Sentences*cfg.ContextSize)
	for i := range tokens {
		tokens[i] = rng.Int63n(int64(vocabSize))
	}

	corpus, err := tensor.FromSlice(tokens, tensor.Shape{cfg.Sentences, cfg.ContextSize}, backend)
	if err != nil {
		return nil, fmt.Errorf("building corpus: %w", err)
	}
	return corpus, nil
}

// VocabSize resolves the vocabulary size of a tiktoken encoding. The name is
// validated against the library; the size itself is tabulated because
// tiktoken-go does not expose it.
func VocabSize(encodingName string) (int, error) {
	if _, err := tiktoken.GetEncoding(encodingName); err != nil {
		return 0, fmt.Errorf("loading tiktoken encoding %q: %w", encodingName, err)
	}

	switch encodingName {
	case "cl100k_base":
		return 100256, nil
	case "o200k_base":
		return 199998, nil
	case "p50k_base", "p50k_edit", "r50k_base":
		return 50257, nil
	default:
		return 0, fmt.Errorf("%w: no vocabulary size known for encoding %q", ErrInvalidArgument, encodingName)
	}
}
