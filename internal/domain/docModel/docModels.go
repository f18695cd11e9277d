package docModel

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by record lookups for unknown ids or filenames.
var ErrNotFound = errors.New("record not found")

// ClassificationResult is the normalized output of the document classifier.
// Metadata is the bounded open map left after truncation, string values only.
type ClassificationResult struct {
	RenamedFilename string            `json:"renamed_filename"`
	Description     string            `json:"description"`
	Abstract        string            `json:"abstract"`
	CleanedContent  string            `json:"cleaned_content"`
	CollectionType  string            `json:"collection_type"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Fallback        bool              `json:"fallback,omitempty"`
}

type DocumentRecord struct {
	ID              string    `json:"id"`
	Filename        string    `json:"filename"`
	FilePath        string    `json:"file_path"`
	CollectionType  string    `json:"collection_type"`
	FileSize        int64     `json:"file_size,omitempty"`
	FileDescription string    `json:"file_description,omitempty"`
	FileAbstract    string    `json:"file_abstract,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RecordUpdate carries the partial-update fields; nil means leave unchanged.
type RecordUpdate struct {
	Filename        *string
	FilePath        *string
	CollectionType  *string
	FileSize        *int64
	FileDescription *string
	FileAbstract    *string
}

type RecordQuery struct {
	FilenamePattern string
	CollectionType  string
	Limit           int
	Offset          int
}

type CollectionStats struct {
	DocumentCount int64 `json:"document_count"`
	TotalSize     int64 `json:"total_size"`
}

type StoreStatistics struct {
	TotalDocuments int64                      `json:"total_documents"`
	Collections    map[string]CollectionStats `json:"collections"`
}

// RecordStore persists DocumentRecords. The vector store stays the retrieval
// source of truth; this store serves listing, display and delete bookkeeping.
type RecordStore interface {
	Create(ctx context.Context, rec DocumentRecord) error
	GetByID(ctx context.Context, id string) (DocumentRecord, error)
	GetByFilename(ctx context.Context, filename string) (DocumentRecord, error)
	GetByCollectionType(ctx context.Context, collectionType string) ([]DocumentRecord, error)
	Update(ctx context.Context, id string, fields RecordUpdate) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByCollectionType(ctx context.Context, collectionType string) (int64, error)
	Search(ctx context.Context, q RecordQuery) ([]DocumentRecord, error)
	Count(ctx context.Context, q RecordQuery) (int64, error)
	Statistics(ctx context.Context) (StoreStatistics, error)
	Close() error
}

// VectorChunk is one vector-database row: a chunk of cleaned text plus the
// metadata that lets deletion find its way back (document_id, file_name,
// description, collection_type and the classifier extras).
type VectorChunk struct {
	ChunkID  string            `json:"chunk_id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

type ScoredChunk struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}

type SearchResult struct {
	Content        string            `json:"content"`
	Score          float32           `json:"score"`
	CollectionType string            `json:"collection_type"`
	Source         string            `json:"source"`
	DocumentID     string            `json:"document_id"`
	Rank           int               `json:"rank"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// IndexDocument is what IndexManager inserts: one cleaned document with the
// metadata every derived chunk inherits.
type IndexDocument struct {
	DocumentID     string
	FileName       string
	Description    string
	CollectionType string
	Content        string
	Extra          map[string]string
}

type IngestInput struct {
	Path      string
	Content   string
	RequestID string
}

type IngestResult struct {
	Success        bool   `json:"success"`
	DocumentID     string `json:"document_id"`
	CollectionType string `json:"collection_type,omitempty"`
	Description    string `json:"description,omitempty"`
	Abstract       string `json:"abstract,omitempty"`
	FilePath       string `json:"file_path,omitempty"`
	Filename       string `json:"filename,omitempty"`
	FileSize       int64  `json:"file_size,omitempty"`
	Error          string `json:"error,omitempty"`
}

type CollectionInfo struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	PointCount   uint64 `json:"point_count"`
	Description  string `json:"description,omitempty"`
	HasRetriever bool   `json:"has_retriever"`
}

type StoreStatus struct {
	Connected   bool             `json:"connected"`
	Collections []CollectionInfo `json:"collections"`
	Statistics  StoreStatistics  `json:"statistics"`
}
