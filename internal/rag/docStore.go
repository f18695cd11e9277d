package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/DocStoreAPI/internal/adapter/utils"
	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
	"github.com/akolanti/DocStoreAPI/internal/metrics"
	"github.com/akolanti/DocStoreAPI/internal/rag/classify"
	"github.com/akolanti/DocStoreAPI/internal/rag/index"
	"github.com/akolanti/DocStoreAPI/internal/rag/ingest"
	"github.com/akolanti/DocStoreAPI/internal/rag/vectorDB"
	"github.com/akolanti/DocStoreAPI/internal/registry"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Store (Interface):
  - This is the PUBLIC contract.
  - It defines the "behavior" (what handlers and workers can do).
  - We expose this to keep callers decoupled from our specific logic.

2. store (Private Struct):
  - This is the PRIVATE implementation.
  - It holds the "state" (vector backend, classifier, record store).
  - It is lowercase to prevent external packages from accessing our
    internal dependencies directly.

3. Dependency Injection (NewStore):
  - This constructor links the private struct to the public interface.
  - It allows us to swap real backends for mocks during testing without
    changing caller code.
*/

// Store is the document store facade: classification-driven ingestion,
// fan-out similarity search and lifecycle operations over the fixed set of
// collections.
type Store interface {
	Bootstrap(ctx context.Context) error
	Ingest(ctx context.Context, input docModel.IngestInput) docModel.IngestResult
	Search(ctx context.Context, queryText string, collectionTypes []string, topK int, minScore float32) ([]docModel.SearchResult, error)
	DeleteDocument(ctx context.Context, documentID string) (bool, error)
	ResetCollection(ctx context.Context, collectionType string) bool
	ResetAll(ctx context.Context) bool
	Status(ctx context.Context) docModel.StoreStatus
	Connected(ctx context.Context) bool
	IsReady(ctx context.Context) bool
	ActiveRetrievers() []string
}

type store struct {
	vectorDB   vectorDB.DataProcessor
	classifier classify.Classifier
	indexes    index.Manager
	records    docModel.RecordStore
	logger     *logger_i.Logger
}

// NewStore constructor
func NewStore(vector vectorDB.DataProcessor, classifier classify.Classifier, indexes index.Manager, records docModel.RecordStore) Store {
	return &store{
		vectorDB:   vector,
		classifier: classifier,
		indexes:    indexes,
		records:    records,
		logger:     logger_i.NewLogger("Document Store :"),
	}
}

// Bootstrap connects the backend, ensures every collection exists and builds
// retrievers for the collections that already hold data. Per-collection
// problems are logged and skipped so one bad collection cannot block startup.
func (s *store) Bootstrap(ctx context.Context) error {
	if !s.vectorDB.Connect(ctx) {
		return errors.New("vector backend is unreachable")
	}

	for _, def := range registry.All() {
		if err := s.vectorDB.EnsureCollection(ctx, def.Name, def.Description); err != nil {
			s.logger.Warn("Failed to initialize collection", "collectionType", def.Type, "error", err)
		}
	}

	for _, def := range registry.All() {
		if err := s.indexes.EnsureRetriever(ctx, def.Type, false); err != nil {
			s.logger.Warn("Failed to rebuild retriever", "collectionType", def.Type, "error", err)
		}
	}

	s.logger.Info("Document store initialized", "activeRetrievers", s.indexes.ActiveRetrievers())
	return nil
}

// Ingest runs the full pipeline: stage, extract, classify, persist the
// cleaned file, index the chunks, then record metadata. The metadata write is
// deliberately best-effort: the vector store is the source of truth and a
// failed record write must not undo a completed index insert.
func (s *store) Ingest(ctx context.Context, input docModel.IngestInput) docModel.IngestResult {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	result := docModel.IngestResult{DocumentID: utils.GetNewUUID()}

	stagedPath, cleanup, err := ingest.Stage(input)
	if err != nil {
		return s.failIngest(log, result, err)
	}
	defer cleanup()

	content, err := s.executeExtractionStep(log, stagedPath)
	if err != nil {
		return s.failIngest(log, result, err)
	}

	originalFilename := filepath.Base(stagedPath)
	if input.Path != "" {
		originalFilename = filepath.Base(input.Path)
	}

	classification := s.executeClassifyStep(ctx, log, content, originalFilename)

	baseFilename := classification.RenamedFilename
	if !strings.HasSuffix(baseFilename, ".txt") {
		baseFilename += ".txt"
	}

	if err := os.MkdirAll(config.DocumentsDir, 0750); err != nil {
		return s.failIngest(log, result, err)
	}
	finalFilename := uniqueFilename(baseFilename, config.DocumentsDir)
	permanentPath := filepath.Join(config.DocumentsDir, finalFilename)

	if err := os.WriteFile(permanentPath, []byte(classification.CleanedContent), 0640); err != nil {
		return s.failIngest(log, result, err)
	}
	log.Info("Saved processed document", "path", permanentPath)

	indexDoc := docModel.IndexDocument{
		DocumentID:     result.DocumentID,
		FileName:       finalFilename,
		Description:    classification.Description,
		CollectionType: classification.CollectionType,
		Content:        classification.CleanedContent,
		Extra:          classification.Metadata,
	}
	if err := s.executeIndexStep(ctx, log, indexDoc); err != nil {
		return s.failIngest(log, result, err)
	}
	metrics.IncrementDocumentsIngested(classification.CollectionType)

	fileSize := int64(len(classification.CleanedContent))
	record := docModel.DocumentRecord{
		ID:              result.DocumentID,
		Filename:        finalFilename,
		FilePath:        permanentPath,
		CollectionType:  classification.CollectionType,
		FileSize:        fileSize,
		FileDescription: classification.Description,
		FileAbstract:    classification.Abstract,
	}
	if err := s.records.Create(ctx, record); err != nil {
		// vector insert already succeeded, keep going without the record
		log.Error("Failed to save document record", "documentId", result.DocumentID, "error", err)
	} else {
		log.Info("Saved document record", "documentId", result.DocumentID)
	}

	result.Success = true
	result.CollectionType = classification.CollectionType
	result.Description = classification.Description
	result.Abstract = classification.Abstract
	result.FilePath = permanentPath
	result.Filename = finalFilename
	result.FileSize = fileSize
	return result
}

// DeleteDocument cascades a delete across the vector store, the metadata
// records and the filesystem. Vector and file cleanup are best-effort; the
// record deletion decides the overall outcome.
func (s *store) DeleteDocument(ctx context.Context, documentID string) (bool, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", documentID)

	record, err := s.records.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, docModel.ErrNotFound) {
			log.Warn("Document not found")
			return false, nil
		}
		return false, err
	}

	points, err := s.indexes.RemoveDocument(ctx, record.CollectionType, record.Filename)
	if err != nil {
		log.Error("Failed to delete vector points", "error", err)
	} else if points > 0 {
		log.Info("Deleted vector points", "points", points)
	}

	if record.FilePath != "" {
		if err := os.Remove(record.FilePath); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to delete local file", "path", record.FilePath, "error", err)
		} else {
			log.Info("Deleted local file", "path", record.FilePath)
		}
	}

	if err := s.records.DeleteByID(ctx, documentID); err != nil {
		log.Error("Failed to delete document record", "error", err)
		return false, err
	}

	log.Info("Document deleted")
	return true, nil
}

// ResetCollection wipes one collection: backend data, cached retriever,
// metadata records and stored files. The backend reset decides the outcome;
// record and file cleanup are best-effort.
func (s *store) ResetCollection(ctx context.Context, collectionType string) bool {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "collectionType", collectionType)

	if err := s.indexes.Reset(ctx, collectionType); err != nil {
		log.Error("Failed to reset collection", "error", err)
		s.cleanupCollectionRecords(ctx, log, collectionType)
		return false
	}

	s.cleanupCollectionRecords(ctx, log, collectionType)
	log.Info("Collection reset")
	return true
}

// ResetAll resets every registered collection and reports success when at
// least one backend reset went through.
func (s *store) ResetAll(ctx context.Context) bool {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	successCount := 0
	for _, def := range registry.All() {
		if err := s.indexes.Reset(ctx, def.Type); err != nil {
			log.Error("Failed to reset collection", "collectionType", def.Type, "error", err)
			continue
		}
		successCount++
	}

	s.indexes.DropAll()

	for _, def := range registry.All() {
		s.cleanupCollectionRecords(ctx, log, def.Type)
	}

	log.Info("Reset finished", "resetCollections", successCount, "totalCollections", len(registry.All()))
	return successCount > 0
}

func (s *store) Status(ctx context.Context) docModel.StoreStatus {
	status := docModel.StoreStatus{Connected: s.vectorDB.IsConnected(ctx)}

	for _, def := range registry.All() {
		info := s.vectorDB.Describe(ctx, def.Name)
		info.Type = def.Type
		info.Description = def.Description
		info.HasRetriever = s.indexes.HasRetriever(def.Type)
		status.Collections = append(status.Collections, info)
	}

	stats, err := s.records.Statistics(ctx)
	if err != nil {
		s.logger.Warn("Failed to load record statistics", "error", err)
	} else {
		status.Statistics = stats
	}
	return status
}

func (s *store) Connected(ctx context.Context) bool {
	return s.vectorDB.IsConnected(ctx)
}

// IsReady means the store can serve searches: backend reachable and at least
// one retriever built.
func (s *store) IsReady(ctx context.Context) bool {
	return s.vectorDB.IsConnected(ctx) && len(s.indexes.ActiveRetrievers()) > 0
}

func (s *store) ActiveRetrievers() []string {
	return s.indexes.ActiveRetrievers()
}
