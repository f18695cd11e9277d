package rag_test

import (
	"context"

	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnConnect          func(ctx context.Context) bool
	OnIsConnected      func(ctx context.Context) bool
	OnEnsureCollection func(ctx context.Context, name string, description string) error
	OnDeleteCollection func(ctx context.Context, name string) error
	OnDescribe         func(ctx context.Context, name string) docModel.CollectionInfo
	OnCount            func(ctx context.Context, name string) (uint64, error)
	OnUpsertBatch      func(ctx context.Context, name string, chunks []docModel.VectorChunk, vectors [][]float32) error
	OnQuery            func(ctx context.Context, name string, vector []float32, limit uint64) ([]docModel.ScoredChunk, error)
	OnFindIDs          func(ctx context.Context, name string, fileName string) ([]string, error)
	OnDeleteByIDs      func(ctx context.Context, name string, ids []string) error
}

func (m *MockVectorDB) Connect(ctx context.Context) bool {
	if m.OnConnect != nil {
		return m.OnConnect(ctx)
	}
	return true
}

func (m *MockVectorDB) IsConnected(ctx context.Context) bool {
	if m.OnIsConnected != nil {
		return m.OnIsConnected(ctx)
	}
	return true
}

func (m *MockVectorDB) EnsureCollection(ctx context.Context, name string, description string) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx, name, description)
	}
	return nil
}

func (m *MockVectorDB) DeleteCollection(ctx context.Context, name string) error {
	if m.OnDeleteCollection != nil {
		return m.OnDeleteCollection(ctx, name)
	}
	return nil
}

func (m *MockVectorDB) Describe(ctx context.Context, name string) docModel.CollectionInfo {
	if m.OnDescribe != nil {
		return m.OnDescribe(ctx, name)
	}
	return docModel.CollectionInfo{Name: name}
}

func (m *MockVectorDB) Count(ctx context.Context, name string) (uint64, error) {
	if m.OnCount != nil {
		return m.OnCount(ctx, name)
	}
	return 0, nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, name string, chunks []docModel.VectorChunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, name, chunks, vectors)
	}
	return nil
}

func (m *MockVectorDB) Query(ctx context.Context, name string, vector []float32, limit uint64) ([]docModel.ScoredChunk, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, name, vector, limit)
	}
	return nil, nil
}

func (m *MockVectorDB) FindIDsByFileName(ctx context.Context, name string, fileName string) ([]string, error) {
	if m.OnFindIDs != nil {
		return m.OnFindIDs(ctx, name, fileName)
	}
	return nil, nil
}

func (m *MockVectorDB) DeleteByIDs(ctx context.Context, name string, ids []string) error {
	if m.OnDeleteByIDs != nil {
		return m.OnDeleteByIDs(ctx, name, ids)
	}
	return nil
}

// MockClassifier implements classify.Classifier
type MockClassifier struct {
	OnClassify func(ctx context.Context, content string, filename string) docModel.ClassificationResult
}

func (m *MockClassifier) Classify(ctx context.Context, content string, filename string) docModel.ClassificationResult {
	if m.OnClassify != nil {
		return m.OnClassify(ctx, content, filename)
	}
	return docModel.ClassificationResult{
		RenamedFilename: "classified_doc",
		Description:     "a mock description",
		Abstract:        "a mock abstract",
		CleanedContent:  content,
		CollectionType:  "resumes",
		Metadata:        map[string]string{"target_job": "backend"},
	}
}

// MockIndexManager implements index.Manager
type MockIndexManager struct {
	OnEnsureRetriever func(ctx context.Context, collectionType string, force bool) error
	OnHasRetriever    func(collectionType string) bool
	OnActive          func() []string
	OnInsert          func(ctx context.Context, doc docModel.IndexDocument) error
	OnRetrieve        func(ctx context.Context, collectionType string, query string, topK int) ([]docModel.ScoredChunk, error)
	OnRemoveDocument  func(ctx context.Context, collectionType string, fileName string) (int, error)
	OnReset           func(ctx context.Context, collectionType string) error
	DroppedAll        bool
}

func (m *MockIndexManager) EnsureRetriever(ctx context.Context, collectionType string, force bool) error {
	if m.OnEnsureRetriever != nil {
		return m.OnEnsureRetriever(ctx, collectionType, force)
	}
	return nil
}

func (m *MockIndexManager) HasRetriever(collectionType string) bool {
	if m.OnHasRetriever != nil {
		return m.OnHasRetriever(collectionType)
	}
	return true
}

func (m *MockIndexManager) ActiveRetrievers() []string {
	if m.OnActive != nil {
		return m.OnActive()
	}
	return []string{"resumes", "projects_experience", "job_postings"}
}

func (m *MockIndexManager) Insert(ctx context.Context, doc docModel.IndexDocument) error {
	if m.OnInsert != nil {
		return m.OnInsert(ctx, doc)
	}
	return nil
}

func (m *MockIndexManager) Retrieve(ctx context.Context, collectionType string, query string, topK int) ([]docModel.ScoredChunk, error) {
	if m.OnRetrieve != nil {
		return m.OnRetrieve(ctx, collectionType, query, topK)
	}
	return nil, nil
}

func (m *MockIndexManager) RemoveDocument(ctx context.Context, collectionType string, fileName string) (int, error) {
	if m.OnRemoveDocument != nil {
		return m.OnRemoveDocument(ctx, collectionType, fileName)
	}
	return 0, nil
}

func (m *MockIndexManager) Reset(ctx context.Context, collectionType string) error {
	if m.OnReset != nil {
		return m.OnReset(ctx, collectionType)
	}
	return nil
}

func (m *MockIndexManager) Drop(collectionType string) {}

func (m *MockIndexManager) DropAll() { m.DroppedAll = true }

// MockRecordStore implements docModel.RecordStore
type MockRecordStore struct {
	OnCreate           func(ctx context.Context, rec docModel.DocumentRecord) error
	OnGetByID          func(ctx context.Context, id string) (docModel.DocumentRecord, error)
	OnGetByFilename    func(ctx context.Context, filename string) (docModel.DocumentRecord, error)
	OnGetByCollection  func(ctx context.Context, collectionType string) ([]docModel.DocumentRecord, error)
	OnUpdate           func(ctx context.Context, id string, fields docModel.RecordUpdate) error
	OnDeleteByID       func(ctx context.Context, id string) error
	OnDeleteByCollType func(ctx context.Context, collectionType string) (int64, error)
	OnSearch           func(ctx context.Context, q docModel.RecordQuery) ([]docModel.DocumentRecord, error)
	OnCount            func(ctx context.Context, q docModel.RecordQuery) (int64, error)
	OnStatistics       func(ctx context.Context) (docModel.StoreStatistics, error)
}

func (m *MockRecordStore) Create(ctx context.Context, rec docModel.DocumentRecord) error {
	if m.OnCreate != nil {
		return m.OnCreate(ctx, rec)
	}
	return nil
}

func (m *MockRecordStore) GetByID(ctx context.Context, id string) (docModel.DocumentRecord, error) {
	if m.OnGetByID != nil {
		return m.OnGetByID(ctx, id)
	}
	return docModel.DocumentRecord{}, docModel.ErrNotFound
}

func (m *MockRecordStore) GetByFilename(ctx context.Context, filename string) (docModel.DocumentRecord, error) {
	if m.OnGetByFilename != nil {
		return m.OnGetByFilename(ctx, filename)
	}
	return docModel.DocumentRecord{}, docModel.ErrNotFound
}

func (m *MockRecordStore) GetByCollectionType(ctx context.Context, collectionType string) ([]docModel.DocumentRecord, error) {
	if m.OnGetByCollection != nil {
		return m.OnGetByCollection(ctx, collectionType)
	}
	return nil, nil
}

func (m *MockRecordStore) Update(ctx context.Context, id string, fields docModel.RecordUpdate) error {
	if m.OnUpdate != nil {
		return m.OnUpdate(ctx, id, fields)
	}
	return nil
}

func (m *MockRecordStore) DeleteByID(ctx context.Context, id string) error {
	if m.OnDeleteByID != nil {
		return m.OnDeleteByID(ctx, id)
	}
	return nil
}

func (m *MockRecordStore) DeleteByCollectionType(ctx context.Context, collectionType string) (int64, error) {
	if m.OnDeleteByCollType != nil {
		return m.OnDeleteByCollType(ctx, collectionType)
	}
	return 0, nil
}

func (m *MockRecordStore) Search(ctx context.Context, q docModel.RecordQuery) ([]docModel.DocumentRecord, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, q)
	}
	return nil, nil
}

func (m *MockRecordStore) Count(ctx context.Context, q docModel.RecordQuery) (int64, error) {
	if m.OnCount != nil {
		return m.OnCount(ctx, q)
	}
	return 0, nil
}

func (m *MockRecordStore) Statistics(ctx context.Context) (docModel.StoreStatistics, error) {
	if m.OnStatistics != nil {
		return m.OnStatistics(ctx)
	}
	return docModel.StoreStatistics{}, nil
}

func (m *MockRecordStore) Close() error { return nil }
