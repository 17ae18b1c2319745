package embedding

import "errors"

// ErrBatchMismatch is returned when a batch call yields a different number of
// vectors than the number of input texts. A misaligned batch must never be
// zipped silently.
var ErrBatchMismatch = errors.New("embedding batch cardinality mismatch")

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)

	// GenerateBatch embeds multiple texts in one logical call, preserving input
	// order. The whole batch fails if the upstream result count does not match
	// the input count.
	GenerateBatch(texts []string, taskType string) ([][]float32, error)
}
