package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
	"github.com/akolanti/DocStoreAPI/internal/metrics"
	"github.com/akolanti/DocStoreAPI/internal/rag/ingest"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

func (s *store) failIngest(log *logger_i.Logger, result docModel.IngestResult, err error) docModel.IngestResult {
	log.Error("Ingestion failed", "documentId", result.DocumentID, "error", err)
	result.Success = false
	result.Error = err.Error()
	return result
}

func (s *store) executeExtractionStep(log *logger_i.Logger, stagedPath string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("extraction", time.Since(start)) }()

	content, err := ingest.Extract(stagedPath)
	if err != nil {
		return "", err
	}
	log.Info("Extracted document text", "characters", len(content))
	return content, nil
}

func (s *store) executeClassifyStep(ctx context.Context, log *logger_i.Logger, content string, originalFilename string) docModel.ClassificationResult {
	classification := s.classifier.Classify(ctx, content, originalFilename)
	if classification.Fallback {
		log.Warn("Classification degraded to fallback", "collectionType", classification.CollectionType)
	} else {
		log.Info("Document classified", "collectionType", classification.CollectionType)
	}
	return classification
}

func (s *store) executeIndexStep(ctx context.Context, log *logger_i.Logger, doc docModel.IndexDocument) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("index_insert", time.Since(start)) }()

	if err := s.indexes.Insert(ctx, doc); err != nil {
		return err
	}
	log.Info("Ingested document into collection", "collectionType", doc.CollectionType, "fileName", doc.FileName)
	return nil
}

func (s *store) executeRetrieveStep(ctx context.Context, log *logger_i.Logger, collectionType string, queryText string, topK int) ([]docModel.ScoredChunk, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.indexes.Retrieve(ctx, collectionType, queryText, topK)
}

// cleanupCollectionRecords removes the stored files and metadata records of a
// collection. Failures are logged, never propagated.
func (s *store) cleanupCollectionRecords(ctx context.Context, log *logger_i.Logger, collectionType string) {
	records, err := s.records.GetByCollectionType(ctx, collectionType)
	if err != nil {
		log.Error("Failed to load records for cleanup", "collectionType", collectionType, "error", err)
		return
	}

	deletedFiles := 0
	for _, record := range records {
		if record.FilePath == "" {
			continue
		}
		if err := os.Remove(record.FilePath); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to delete local file", "path", record.FilePath, "error", err)
			continue
		}
		deletedFiles++
	}

	deletedRecords, err := s.records.DeleteByCollectionType(ctx, collectionType)
	if err != nil {
		log.Error("Failed to delete records", "collectionType", collectionType, "error", err)
		return
	}
	log.Info("Cleaned up collection records", "collectionType", collectionType, "records", deletedRecords, "files", deletedFiles)
}

// uniqueFilename appends _1, _2, ... before the extension until the name is
// free in the target directory.
func uniqueFilename(baseFilename string, targetDir string) string {
	extension := filepath.Ext(baseFilename)
	stem := strings.TrimSuffix(baseFilename, extension)

	finalFilename := baseFilename
	counter := 0
	for {
		if _, err := os.Stat(filepath.Join(targetDir, finalFilename)); os.IsNotExist(err) {
			return finalFilename
		}
		counter++
		finalFilename = fmt.Sprintf("%s_%d%s", stem, counter, extension)
	}
}
