package vectorDB

import (
	"context"

	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
)

// DataProcessor is the vector-database boundary. Collections map one-to-one
// onto the registry's semantic collections; every write carries the chunk
// metadata that deletion-by-filename depends on.
type DataProcessor interface {
	Connect(ctx context.Context) bool
	IsConnected(ctx context.Context) bool

	EnsureCollection(ctx context.Context, collectionName string, description string) error
	DeleteCollection(ctx context.Context, collectionName string) error
	Describe(ctx context.Context, collectionName string) docModel.CollectionInfo
	Count(ctx context.Context, collectionName string) (uint64, error)

	UpsertBatch(ctx context.Context, collectionName string, chunks []docModel.VectorChunk, vectors [][]float32) error
	Query(ctx context.Context, collectionName string, vector []float32, limit uint64) ([]docModel.ScoredChunk, error)

	FindIDsByFileName(ctx context.Context, collectionName string, fileName string) ([]string, error)
	DeleteByIDs(ctx context.Context, collectionName string, ids []string) error
}
