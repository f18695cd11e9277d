package index

import (
	"context"
	"fmt"
	"sync"

	"github.com/akolanti/DocStoreAPI/internal/adapter/utils"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
	"github.com/akolanti/DocStoreAPI/internal/rag/embedding"
	"github.com/akolanti/DocStoreAPI/internal/rag/vectorDB"
	"github.com/akolanti/DocStoreAPI/internal/registry"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

const upsertBatchSize = 100

// Manager owns the per-collection retrievers. A retriever only exists for a
// collection that holds data; retrieval against a collection without one
// yields no matches rather than an error.
type Manager interface {
	EnsureRetriever(ctx context.Context, collectionType string, force bool) error
	HasRetriever(collectionType string) bool
	ActiveRetrievers() []string
	Insert(ctx context.Context, doc docModel.IndexDocument) error
	Retrieve(ctx context.Context, collectionType string, query string, topK int) ([]docModel.ScoredChunk, error)
	RemoveDocument(ctx context.Context, collectionType string, fileName string) (int, error)
	Reset(ctx context.Context, collectionType string) error
	Drop(collectionType string)
	DropAll()
}

type retriever struct {
	collectionName string
	topK           int
}

type manager struct {
	vector   vectorDB.DataProcessor
	embedder embedding.Embedder
	logger   *logger_i.Logger

	mu         sync.RWMutex
	retrievers map[string]*retriever

	// one mutex per collection type serializes structural changes:
	// first insert, document removal, reset
	lockMu    sync.Mutex
	typeLocks map[string]*sync.Mutex
}

func NewManager(vector vectorDB.DataProcessor, embedder embedding.Embedder) Manager {
	return &manager{
		vector:     vector,
		embedder:   embedder,
		logger:     logger_i.NewLogger("index_manager"),
		retrievers: make(map[string]*retriever),
		typeLocks:  make(map[string]*sync.Mutex),
	}
}

func (m *manager) typeLock(collectionType string) *sync.Mutex {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()
	lock, ok := m.typeLocks[collectionType]
	if !ok {
		lock = &sync.Mutex{}
		m.typeLocks[collectionType] = lock
	}
	return lock
}

func (m *manager) EnsureRetriever(ctx context.Context, collectionType string, force bool) error {
	def, ok := registry.Get(collectionType)
	if !ok {
		return fmt.Errorf("unknown collection type: %s", collectionType)
	}

	lock := m.typeLock(collectionType)
	lock.Lock()
	defer lock.Unlock()

	return m.rebuildRetriever(ctx, def, force)
}

// rebuildRetriever expects the caller to hold the type lock.
func (m *manager) rebuildRetriever(ctx context.Context, def registry.CollectionDefinition, force bool) error {
	if !force && m.HasRetriever(def.Type) {
		m.logger.Debug("Retriever already exists", "collectionType", def.Type)
		return nil
	}

	count, err := m.vector.Count(ctx, def.Name)
	if err != nil {
		// collection may not exist yet; that simply means no retriever
		m.logger.Debug("Collection not countable, skipping retriever", "collectionType", def.Type, "error", err)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if count == 0 {
		delete(m.retrievers, def.Type)
		m.logger.Debug("Collection is empty, no retriever created", "collectionType", def.Type)
		return nil
	}

	m.retrievers[def.Type] = &retriever{collectionName: def.Name, topK: def.SimilarityTopK}
	m.logger.Info("Retriever ready", "collectionType", def.Type, "documents", count)
	return nil
}

func (m *manager) HasRetriever(collectionType string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.retrievers[collectionType]
	return ok
}

func (m *manager) ActiveRetrievers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var active []string
	for _, collectionType := range registry.AllTypes() {
		if _, ok := m.retrievers[collectionType]; ok {
			active = append(active, collectionType)
		}
	}
	return active
}

func (m *manager) Insert(ctx context.Context, doc docModel.IndexDocument) error {
	def, ok := registry.Get(doc.CollectionType)
	if !ok {
		return fmt.Errorf("unknown collection type: %s", doc.CollectionType)
	}

	lock := m.typeLock(doc.CollectionType)
	lock.Lock()
	defer lock.Unlock()

	if err := m.vector.EnsureCollection(ctx, def.Name, def.Description); err != nil {
		return fmt.Errorf("ensuring collection %s: %w", def.Name, err)
	}

	texts, err := semanticSplit(ctx, m.embedder, doc.Content, def.ChunkSize, def.ChunkOverlap)
	if err != nil {
		return err
	}

	chunks := make([]docModel.VectorChunk, 0, len(texts))
	for _, text := range texts {
		if text == "" {
			continue
		}
		metadata := map[string]string{
			"document_id":     doc.DocumentID,
			"file_name":       doc.FileName,
			"description":     doc.Description,
			"collection_type": doc.CollectionType,
		}
		for k, v := range doc.Extra {
			metadata[k] = v
		}
		chunks = append(chunks, docModel.VectorChunk{
			ChunkID:  utils.GetNewUUID(),
			Content:  text,
			Metadata: metadata,
		})
	}

	if err := m.batchUpsert(ctx, def.Name, chunks); err != nil {
		return err
	}

	m.mu.Lock()
	if _, ok := m.retrievers[doc.CollectionType]; !ok {
		m.retrievers[doc.CollectionType] = &retriever{collectionName: def.Name, topK: def.SimilarityTopK}
		m.logger.Info("Retriever created on first insert", "collectionType", doc.CollectionType)
	}
	m.mu.Unlock()

	m.logger.Info("Document indexed", "collectionType", doc.CollectionType, "fileName", doc.FileName, "chunks", len(chunks))
	return nil
}

func (m *manager) batchUpsert(ctx context.Context, collectionName string, chunks []docModel.VectorChunk) error {
	isHugeDataSet := len(chunks) > 1000000

	for i := 0; i < len(chunks); i += upsertBatchSize {
		end := i + upsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		currentBatch := chunks[i:end]

		texts := make([]string, len(currentBatch))
		for j, c := range currentBatch {
			texts[j] = c.Content
		}

		vectors, err := m.embedder.BatchEmbedding(ctx, texts, isHugeDataSet)
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}

		if err := m.vector.UpsertBatch(ctx, collectionName, currentBatch, vectors); err != nil {
			return fmt.Errorf("upserting batch failed: %w", err)
		}
	}
	return nil
}

func (m *manager) Retrieve(ctx context.Context, collectionType string, query string, topK int) ([]docModel.ScoredChunk, error) {
	m.mu.RLock()
	retr := m.retrievers[collectionType]
	m.mu.RUnlock()

	if retr == nil {
		return nil, nil
	}

	effectiveK := topK
	if retr.topK > effectiveK {
		effectiveK = retr.topK
	}

	queryVector, err := m.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query failed: %w", err)
	}

	return m.vector.Query(ctx, retr.collectionName, queryVector, uint64(effectiveK))
}

// RemoveDocument deletes every point carrying the file name and reports how
// many were removed. When the point deletion fails the retriever is force
// rebuilt so it cannot serve a stale view.
func (m *manager) RemoveDocument(ctx context.Context, collectionType string, fileName string) (int, error) {
	def, ok := registry.Get(collectionType)
	if !ok {
		return 0, fmt.Errorf("unknown collection type: %s", collectionType)
	}

	lock := m.typeLock(collectionType)
	lock.Lock()
	defer lock.Unlock()

	ids, err := m.vector.FindIDsByFileName(ctx, def.Name, fileName)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		m.logger.Warn("No vector points found for file", "collectionType", collectionType, "fileName", fileName)
		return 0, nil
	}

	if err := m.vector.DeleteByIDs(ctx, def.Name, ids); err != nil {
		m.logger.Error("Point deletion failed, force rebuilding retriever", "collectionType", collectionType, "error", err)
		if rebuildErr := m.rebuildRetriever(ctx, def, true); rebuildErr != nil {
			m.logger.Error("Retriever rebuild failed", "collectionType", collectionType, "error", rebuildErr)
		}
		return 0, err
	}

	m.logger.Info("Deleted vector points for file", "collectionType", collectionType, "fileName", fileName, "points", len(ids))
	return len(ids), nil
}

// Reset drops the backing collection, forgets the retriever and recreates the
// collection empty. Recreation problems are logged, not returned: the next
// insert ensures the collection again.
func (m *manager) Reset(ctx context.Context, collectionType string) error {
	def, ok := registry.Get(collectionType)
	if !ok {
		return fmt.Errorf("unknown collection type: %s", collectionType)
	}

	lock := m.typeLock(collectionType)
	lock.Lock()
	defer lock.Unlock()

	err := m.vector.DeleteCollection(ctx, def.Name)

	m.mu.Lock()
	delete(m.retrievers, collectionType)
	m.mu.Unlock()

	if err != nil {
		return err
	}

	if createErr := m.vector.EnsureCollection(ctx, def.Name, def.Description); createErr != nil {
		m.logger.Error("Failed to recreate collection after reset", "collectionType", collectionType, "error", createErr)
	}

	m.logger.Info("Collection reset", "collectionType", collectionType)
	return nil
}

func (m *manager) Drop(collectionType string) {
	m.mu.Lock()
	delete(m.retrievers, collectionType)
	m.mu.Unlock()
}

func (m *manager) DropAll() {
	m.mu.Lock()
	m.retrievers = make(map[string]*retriever)
	m.mu.Unlock()
}
