package embedding

import "context"

// Embedder turns text into vectors. GetEmbedding serves single search
// queries, BatchEmbedding serves document chunks and the sentence windows
// the semantic splitter compares.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string, isHugeDataSet bool) ([][]float32, error)
}
