package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/DocStoreAPI/internal/api"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
)

// MockStore implements rag.Store
type MockStore struct {
	OnIngest    func(ctx context.Context, input docModel.IngestInput) docModel.IngestResult
	OnSearch    func(ctx context.Context, queryText string, collectionTypes []string, topK int, minScore float32) ([]docModel.SearchResult, error)
	OnDelete    func(ctx context.Context, documentID string) (bool, error)
	OnConnected func(ctx context.Context) bool
	OnIsReady   func(ctx context.Context) bool
}

func (m *MockStore) Bootstrap(ctx context.Context) error { return nil }

func (m *MockStore) Ingest(ctx context.Context, input docModel.IngestInput) docModel.IngestResult {
	if m.OnIngest != nil {
		return m.OnIngest(ctx, input)
	}
	return docModel.IngestResult{Success: true, DocumentID: "doc-1"}
}

func (m *MockStore) Search(ctx context.Context, queryText string, collectionTypes []string, topK int, minScore float32) ([]docModel.SearchResult, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, queryText, collectionTypes, topK, minScore)
	}
	return nil, nil
}

func (m *MockStore) DeleteDocument(ctx context.Context, documentID string) (bool, error) {
	if m.OnDelete != nil {
		return m.OnDelete(ctx, documentID)
	}
	return true, nil
}

func (m *MockStore) ResetCollection(ctx context.Context, collectionType string) bool { return true }

func (m *MockStore) ResetAll(ctx context.Context) bool { return true }

func (m *MockStore) Status(ctx context.Context) docModel.StoreStatus {
	return docModel.StoreStatus{Connected: true}
}

func (m *MockStore) Connected(ctx context.Context) bool {
	if m.OnConnected != nil {
		return m.OnConnected(ctx)
	}
	return true
}

func (m *MockStore) IsReady(ctx context.Context) bool {
	if m.OnIsReady != nil {
		return m.OnIsReady(ctx)
	}
	return true
}

func (m *MockStore) ActiveRetrievers() []string { return []string{"projects_experience"} }

// MockRecords implements docModel.RecordStore
type MockRecords struct {
	OnGetByID func(ctx context.Context, id string) (docModel.DocumentRecord, error)
}

func (m *MockRecords) Create(ctx context.Context, rec docModel.DocumentRecord) error { return nil }

func (m *MockRecords) GetByID(ctx context.Context, id string) (docModel.DocumentRecord, error) {
	if m.OnGetByID != nil {
		return m.OnGetByID(ctx, id)
	}
	return docModel.DocumentRecord{}, docModel.ErrNotFound
}

func (m *MockRecords) GetByFilename(ctx context.Context, filename string) (docModel.DocumentRecord, error) {
	return docModel.DocumentRecord{}, docModel.ErrNotFound
}

func (m *MockRecords) GetByCollectionType(ctx context.Context, collectionType string) ([]docModel.DocumentRecord, error) {
	return nil, nil
}

func (m *MockRecords) Update(ctx context.Context, id string, fields docModel.RecordUpdate) error {
	return nil
}

func (m *MockRecords) DeleteByID(ctx context.Context, id string) error { return nil }

func (m *MockRecords) DeleteByCollectionType(ctx context.Context, collectionType string) (int64, error) {
	return 0, nil
}

func (m *MockRecords) Search(ctx context.Context, q docModel.RecordQuery) ([]docModel.DocumentRecord, error) {
	return nil, nil
}

func (m *MockRecords) Count(ctx context.Context, q docModel.RecordQuery) (int64, error) {
	return 0, nil
}

func (m *MockRecords) Statistics(ctx context.Context) (docModel.StoreStatistics, error) {
	return docModel.StoreStatistics{}, nil
}

func (m *MockRecords) Close() error { return nil }

// the handler singleton initializes once per process, so every test shares
// these mocks and resets the function fields it cares about
var (
	sharedStore   = &MockStore{}
	sharedRecords = &MockRecords{}
)

func setupHandlers(t *testing.T) {
	t.Helper()
	InitDocStoreHandler(sharedStore, sharedRecords)
	t.Cleanup(func() {
		sharedStore.OnIngest = nil
		sharedStore.OnSearch = nil
		sharedStore.OnDelete = nil
		sharedStore.OnConnected = nil
		sharedStore.OnIsReady = nil
		sharedRecords.OnGetByID = nil
	})
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestQueryHandler_BackendDownReturns503(t *testing.T) {
	setupHandlers(t)
	sharedStore.OnConnected = func(ctx context.Context) bool { return false }

	rec := postJSON(t, QueryDocumentsHandler, `{"queryText":"golang"}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d; want 503", rec.Code)
	}
	var resp api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Success {
		t.Error("error response should have success=false")
	}
}

func TestQueryHandler_NoResultsIsStill200(t *testing.T) {
	setupHandlers(t)
	sharedStore.OnSearch = func(ctx context.Context, queryText string, collectionTypes []string, topK int, minScore float32) ([]docModel.SearchResult, error) {
		return []docModel.SearchResult{}, nil
	}
	sharedStore.OnIsReady = func(ctx context.Context) bool { return false }

	rec := postJSON(t, QueryDocumentsHandler, `{"queryText":"golang"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var resp api.QueryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success || resp.TotalResults != 0 {
		t.Errorf("response = %+v; want success with zero results", resp)
	}
	if resp.Message == "" {
		t.Error("empty store should explain itself in the message")
	}
}

func TestQueryHandler_MissingQueryText(t *testing.T) {
	setupHandlers(t)

	rec := postJSON(t, QueryDocumentsHandler, `{"topK":5}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestQueryHandler_PassesThresholds(t *testing.T) {
	setupHandlers(t)
	var gotTopK int
	var gotMinScore float32
	sharedStore.OnSearch = func(ctx context.Context, queryText string, collectionTypes []string, topK int, minScore float32) ([]docModel.SearchResult, error) {
		gotTopK = topK
		gotMinScore = minScore
		return []docModel.SearchResult{{Content: "match", Score: 0.9, Rank: 1}}, nil
	}

	rec := postJSON(t, QueryDocumentsHandler, `{"queryText":"golang","topK":3,"minScore":0.7}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if gotTopK != 3 || gotMinScore != 0.7 {
		t.Errorf("store saw topK=%d minScore=%v; want 3 and 0.7", gotTopK, gotMinScore)
	}
}

func TestIngestHandler_MissingInput(t *testing.T) {
	setupHandlers(t)

	rec := postJSON(t, IngestDocumentHandler, `{"requestId":"r1"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestIngestHandler_Success(t *testing.T) {
	setupHandlers(t)
	sharedStore.OnIngest = func(ctx context.Context, input docModel.IngestInput) docModel.IngestResult {
		if input.Content != "resume body" {
			t.Errorf("store saw content %q", input.Content)
		}
		return docModel.IngestResult{
			Success:        true,
			DocumentID:     "doc-42",
			CollectionType: "resumes",
			Filename:       "jane_doe_resume.txt",
		}
	}

	rec := postJSON(t, IngestDocumentHandler, `{"documentContent":"resume body"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var resp api.IngestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.DocumentId != "doc-42" || resp.CollectionType != "resumes" {
		t.Errorf("response = %+v", resp)
	}
}

func TestIngestHandler_FailureReturns500(t *testing.T) {
	setupHandlers(t)
	sharedStore.OnIngest = func(ctx context.Context, input docModel.IngestInput) docModel.IngestResult {
		return docModel.IngestResult{Success: false, Error: "extraction failed"}
	}

	rec := postJSON(t, IngestDocumentHandler, `{"documentContent":"x"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500", rec.Code)
	}
}

func TestDeleteHandler_UnknownDocumentReturns404(t *testing.T) {
	setupHandlers(t)
	sharedStore.OnDelete = func(ctx context.Context, documentID string) (bool, error) {
		return false, nil
	}

	rec := postJSON(t, DeleteDocumentHandler, `{"documentId":"ghost"}`)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}
}

func TestContentHandler_NotFound(t *testing.T) {
	setupHandlers(t)
	sharedRecords.OnGetByID = func(ctx context.Context, id string) (docModel.DocumentRecord, error) {
		return docModel.DocumentRecord{}, docModel.ErrNotFound
	}

	rec := postJSON(t, DocumentContentHandler, `{"documentId":"ghost"}`)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}
}

func TestContentHandler_FallsBackToAbstract(t *testing.T) {
	setupHandlers(t)
	sharedRecords.OnGetByID = func(ctx context.Context, id string) (docModel.DocumentRecord, error) {
		return docModel.DocumentRecord{
			ID:           "doc-1",
			Filename:     "gone.txt",
			FilePath:     "/nonexistent/path/gone.txt",
			FileAbstract: "the abstract survives",
		}, nil
	}

	rec := postJSON(t, DocumentContentHandler, `{"documentId":"doc-1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var resp api.DocumentContentResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Content != "the abstract survives" {
		t.Errorf("content = %q; want the abstract fallback", resp.Content)
	}
}

func TestResetHandler_UnknownCollection(t *testing.T) {
	setupHandlers(t)

	rec := postJSON(t, ResetCollectionsHandler, `{"collectionType":"meeting_notes"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestContentHandler_RecordStoreError(t *testing.T) {
	setupHandlers(t)
	sharedRecords.OnGetByID = func(ctx context.Context, id string) (docModel.DocumentRecord, error) {
		return docModel.DocumentRecord{}, errors.New("disk on fire")
	}

	rec := postJSON(t, DocumentContentHandler, `{"documentId":"doc-1"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500", rec.Code)
	}
}
