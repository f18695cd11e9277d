package index

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
	"github.com/akolanti/DocStoreAPI/internal/registry"
)

// --- Mocks ---

type mockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, query string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks, isHuge)
	}
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

type mockVectorDB struct {
	OnEnsureCollection func(ctx context.Context, name string, description string) error
	OnDeleteCollection func(ctx context.Context, name string) error
	OnCount            func(ctx context.Context, name string) (uint64, error)
	OnUpsertBatch      func(ctx context.Context, name string, chunks []docModel.VectorChunk, vectors [][]float32) error
	OnQuery            func(ctx context.Context, name string, vector []float32, limit uint64) ([]docModel.ScoredChunk, error)
	OnFindIDs          func(ctx context.Context, name string, fileName string) ([]string, error)
	OnDeleteByIDs      func(ctx context.Context, name string, ids []string) error
}

func (m *mockVectorDB) Connect(ctx context.Context) bool     { return true }
func (m *mockVectorDB) IsConnected(ctx context.Context) bool { return true }
func (m *mockVectorDB) EnsureCollection(ctx context.Context, name string, description string) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx, name, description)
	}
	return nil
}
func (m *mockVectorDB) DeleteCollection(ctx context.Context, name string) error {
	if m.OnDeleteCollection != nil {
		return m.OnDeleteCollection(ctx, name)
	}
	return nil
}
func (m *mockVectorDB) Describe(ctx context.Context, name string) docModel.CollectionInfo {
	return docModel.CollectionInfo{Name: name}
}
func (m *mockVectorDB) Count(ctx context.Context, name string) (uint64, error) {
	if m.OnCount != nil {
		return m.OnCount(ctx, name)
	}
	return 0, nil
}
func (m *mockVectorDB) UpsertBatch(ctx context.Context, name string, chunks []docModel.VectorChunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, name, chunks, vectors)
	}
	return nil
}
func (m *mockVectorDB) Query(ctx context.Context, name string, vector []float32, limit uint64) ([]docModel.ScoredChunk, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, name, vector, limit)
	}
	return nil, nil
}
func (m *mockVectorDB) FindIDsByFileName(ctx context.Context, name string, fileName string) ([]string, error) {
	if m.OnFindIDs != nil {
		return m.OnFindIDs(ctx, name, fileName)
	}
	return nil, nil
}
func (m *mockVectorDB) DeleteByIDs(ctx context.Context, name string, ids []string) error {
	if m.OnDeleteByIDs != nil {
		return m.OnDeleteByIDs(ctx, name, ids)
	}
	return nil
}

// --- Splitter tests ---

func TestSemanticSplit_BreaksOnDistanceSpike(t *testing.T) {
	// first three sentences identical, fourth orthogonal
	embedder := &mockEmbedder{
		OnBatchEmbedding: func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
			vectors := [][]float32{{1, 0}, {1, 0}, {1, 0}, {0, 1}}
			return vectors[:len(chunks)], nil
		},
	}

	chunks, err := semanticSplit(context.Background(), embedder, "one\ntwo\nthree\nfour", 512, 50)
	if err != nil {
		t.Fatalf("semanticSplit failed: %v", err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "one\ntwo\nthree" || chunks[1] != "four" {
		t.Errorf("unexpected grouping: %v", chunks)
	}
}

func TestSemanticSplit_SingleSentenceSkipsEmbedding(t *testing.T) {
	embedder := &mockEmbedder{
		OnBatchEmbedding: func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
			t.Fatal("embedder should not be called for a single sentence")
			return nil, nil
		},
	}

	chunks, err := semanticSplit(context.Background(), embedder, "just one line", 512, 50)
	if err != nil {
		t.Fatalf("semanticSplit failed: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "just one line" {
		t.Errorf("unexpected chunks: %v", chunks)
	}
}

func TestSemanticSplit_OversizeGroupResplit(t *testing.T) {
	long := strings.Repeat("word ", 100)
	embedder := &mockEmbedder{}

	chunks, err := semanticSplit(context.Background(), embedder, long+"\n"+long, 120, 20)
	if err != nil {
		t.Fatalf("semanticSplit failed: %v", err)
	}

	if len(chunks) < 2 {
		t.Fatalf("oversize group should be re-split, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 120+20 {
			t.Errorf("chunk %d is %d chars, exceeds limit", i, len(c))
		}
	}
}

func TestSemanticSplit_EmbeddingError(t *testing.T) {
	embedder := &mockEmbedder{
		OnBatchEmbedding: func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
			return nil, errors.New("quota exceeded")
		},
	}

	if _, err := semanticSplit(context.Background(), embedder, "a\nb\nc", 512, 50); err == nil {
		t.Error("expected error when sentence embedding fails")
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		values   []float64
		p        float64
		expected float64
	}{
		{[]float64{0, 0, 1}, 70, 0.4},
		{[]float64{1, 2, 3, 4}, 50, 2.5},
		{[]float64{5}, 70, 5},
		{nil, 70, 0},
	}

	for _, tt := range tests {
		if got := percentile(tt.values, tt.p); got != tt.expected {
			t.Errorf("percentile(%v, %v) = %v; want %v", tt.values, tt.p, got, tt.expected)
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors similarity = %v, want 0", got)
	}
	if got := cosineSimilarity([]float32{1, 2}, []float32{1, 2}); got < 0.999 {
		t.Errorf("identical vectors similarity = %v, want ~1", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Errorf("zero vector similarity = %v, want 0", got)
	}
}

// --- Manager tests ---

func TestInsert_UnknownCollectionType(t *testing.T) {
	m := NewManager(&mockVectorDB{}, &mockEmbedder{})

	err := m.Insert(context.Background(), docModel.IndexDocument{CollectionType: "recipes", Content: "text"})
	if err == nil {
		t.Error("expected error for unknown collection type")
	}
}

func TestInsert_CreatesRetrieverAndUpserts(t *testing.T) {
	var upsertedCollection string
	var upserted []docModel.VectorChunk

	vector := &mockVectorDB{
		OnUpsertBatch: func(ctx context.Context, name string, chunks []docModel.VectorChunk, vectors [][]float32) error {
			upsertedCollection = name
			upserted = append(upserted, chunks...)
			if len(chunks) != len(vectors) {
				t.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
			}
			return nil
		},
	}
	m := NewManager(vector, &mockEmbedder{})

	doc := docModel.IndexDocument{
		DocumentID:     "doc-1",
		FileName:       "resume.txt",
		Description:    "a resume",
		CollectionType: registry.TypeResumes,
		Content:        "experienced engineer",
		Extra:          map[string]string{"target_job": "backend"},
	}
	if err := m.Insert(context.Background(), doc); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if upsertedCollection != "resumes" {
		t.Errorf("upserted into %q, want resumes", upsertedCollection)
	}
	if len(upserted) == 0 {
		t.Fatal("no chunks upserted")
	}
	meta := upserted[0].Metadata
	if meta["file_name"] != "resume.txt" || meta["document_id"] != "doc-1" || meta["collection_type"] != registry.TypeResumes {
		t.Errorf("chunk metadata incomplete: %v", meta)
	}
	if meta["target_job"] != "backend" {
		t.Errorf("extra metadata missing: %v", meta)
	}
	if upserted[0].ChunkID == "" {
		t.Error("chunk id should be set")
	}

	if !m.HasRetriever(registry.TypeResumes) {
		t.Error("retriever should exist after first insert")
	}
}

func TestInsert_BatchesLargeDocuments(t *testing.T) {
	callCount := 0
	vector := &mockVectorDB{
		OnUpsertBatch: func(ctx context.Context, name string, chunks []docModel.VectorChunk, vectors [][]float32) error {
			callCount++
			return nil
		},
	}

	// 150 distinct sentences with identical embeddings form one group, which
	// the size splitter then cuts apart again
	lines := make([]string, 150)
	for i := range lines {
		lines[i] = strings.Repeat("sentence ", 20)
	}
	m := NewManager(vector, &mockEmbedder{})

	doc := docModel.IndexDocument{
		DocumentID:     "doc-2",
		FileName:       "big.txt",
		CollectionType: registry.TypeProjectsExperience,
		Content:        strings.Join(lines, "\n"),
	}
	if err := m.Insert(context.Background(), doc); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if callCount == 0 {
		t.Error("expected at least one upsert batch")
	}
}

func TestRetrieve_NoRetrieverMeansNoMatches(t *testing.T) {
	embedder := &mockEmbedder{
		OnGetEmbedding: func(ctx context.Context, query string) ([]float32, error) {
			t.Fatal("query should not be embedded without a retriever")
			return nil, nil
		},
	}
	m := NewManager(&mockVectorDB{}, embedder)

	matches, err := m.Retrieve(context.Background(), registry.TypeResumes, "golang", 5)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if matches != nil {
		t.Errorf("expected no matches, got %v", matches)
	}
}

func TestRetrieve_EffectiveTopK(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		expected  uint64
	}{
		{"requested below configured", 3, 10},
		{"requested above configured", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit uint64
			vector := &mockVectorDB{
				OnCount: func(ctx context.Context, name string) (uint64, error) { return 4, nil },
				OnQuery: func(ctx context.Context, name string, v []float32, limit uint64) ([]docModel.ScoredChunk, error) {
					gotLimit = limit
					return nil, nil
				},
			}
			m := NewManager(vector, &mockEmbedder{})
			if err := m.EnsureRetriever(context.Background(), registry.TypeResumes, false); err != nil {
				t.Fatalf("EnsureRetriever failed: %v", err)
			}

			if _, err := m.Retrieve(context.Background(), registry.TypeResumes, "golang", tt.requested); err != nil {
				t.Fatalf("Retrieve failed: %v", err)
			}
			if gotLimit != tt.expected {
				t.Errorf("query limit = %d, want %d", gotLimit, tt.expected)
			}
		})
	}
}

func TestEnsureRetriever(t *testing.T) {
	tests := []struct {
		name         string
		count        uint64
		countErr     error
		wantPresence bool
	}{
		{"collection with data", 7, nil, true},
		{"empty collection", 0, nil, false},
		{"collection missing", 0, errors.New("not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vector := &mockVectorDB{
				OnCount: func(ctx context.Context, name string) (uint64, error) {
					return tt.count, tt.countErr
				},
			}
			m := NewManager(vector, &mockEmbedder{})

			if err := m.EnsureRetriever(context.Background(), registry.TypeJobPostings, false); err != nil {
				t.Fatalf("EnsureRetriever failed: %v", err)
			}
			if m.HasRetriever(registry.TypeJobPostings) != tt.wantPresence {
				t.Errorf("retriever presence = %v, want %v", !tt.wantPresence, tt.wantPresence)
			}
		})
	}
}

func TestEnsureRetriever_UnknownType(t *testing.T) {
	m := NewManager(&mockVectorDB{}, &mockEmbedder{})
	if err := m.EnsureRetriever(context.Background(), "recipes", false); err == nil {
		t.Error("expected error for unknown collection type")
	}
}

func TestRemoveDocument(t *testing.T) {
	t.Run("deletes matching points", func(t *testing.T) {
		var deletedIDs []string
		vector := &mockVectorDB{
			OnFindIDs: func(ctx context.Context, name string, fileName string) ([]string, error) {
				return []string{"id-1", "id-2"}, nil
			},
			OnDeleteByIDs: func(ctx context.Context, name string, ids []string) error {
				deletedIDs = ids
				return nil
			},
		}
		m := NewManager(vector, &mockEmbedder{})

		n, err := m.RemoveDocument(context.Background(), registry.TypeResumes, "resume.txt")
		if err != nil {
			t.Fatalf("RemoveDocument failed: %v", err)
		}
		if n != 2 || len(deletedIDs) != 2 {
			t.Errorf("deleted %d points, want 2", n)
		}
	})

	t.Run("no matching points", func(t *testing.T) {
		vector := &mockVectorDB{
			OnDeleteByIDs: func(ctx context.Context, name string, ids []string) error {
				t.Error("delete should not be called without ids")
				return nil
			},
		}
		m := NewManager(vector, &mockEmbedder{})

		n, err := m.RemoveDocument(context.Background(), registry.TypeResumes, "ghost.txt")
		if err != nil || n != 0 {
			t.Errorf("got (%d, %v), want (0, nil)", n, err)
		}
	})

	t.Run("delete failure forces rebuild", func(t *testing.T) {
		countCalled := false
		vector := &mockVectorDB{
			OnFindIDs: func(ctx context.Context, name string, fileName string) ([]string, error) {
				return []string{"id-1"}, nil
			},
			OnDeleteByIDs: func(ctx context.Context, name string, ids []string) error {
				return errors.New("backend unavailable")
			},
			OnCount: func(ctx context.Context, name string) (uint64, error) {
				countCalled = true
				return 3, nil
			},
		}
		m := NewManager(vector, &mockEmbedder{})

		if _, err := m.RemoveDocument(context.Background(), registry.TypeResumes, "resume.txt"); err == nil {
			t.Error("expected error from failing delete")
		}
		if !countCalled {
			t.Error("failed delete should trigger a forced retriever rebuild")
		}
	})
}

func TestReset(t *testing.T) {
	t.Run("drops and recreates", func(t *testing.T) {
		deleted, recreated := false, false
		vector := &mockVectorDB{
			OnCount: func(ctx context.Context, name string) (uint64, error) { return 2, nil },
			OnDeleteCollection: func(ctx context.Context, name string) error {
				deleted = true
				return nil
			},
			OnEnsureCollection: func(ctx context.Context, name string, description string) error {
				recreated = true
				return nil
			},
		}
		m := NewManager(vector, &mockEmbedder{})
		if err := m.EnsureRetriever(context.Background(), registry.TypeResumes, false); err != nil {
			t.Fatal(err)
		}

		if err := m.Reset(context.Background(), registry.TypeResumes); err != nil {
			t.Fatalf("Reset failed: %v", err)
		}
		if !deleted || !recreated {
			t.Errorf("deleted=%v recreated=%v, want both", deleted, recreated)
		}
		if m.HasRetriever(registry.TypeResumes) {
			t.Error("retriever should be dropped on reset")
		}
	})

	t.Run("delete failure still drops retriever", func(t *testing.T) {
		vector := &mockVectorDB{
			OnCount: func(ctx context.Context, name string) (uint64, error) { return 2, nil },
			OnDeleteCollection: func(ctx context.Context, name string) error {
				return errors.New("backend unavailable")
			},
		}
		m := NewManager(vector, &mockEmbedder{})
		if err := m.EnsureRetriever(context.Background(), registry.TypeResumes, false); err != nil {
			t.Fatal(err)
		}

		if err := m.Reset(context.Background(), registry.TypeResumes); err == nil {
			t.Error("expected error from failing collection delete")
		}
		if m.HasRetriever(registry.TypeResumes) {
			t.Error("retriever should be dropped even when the backend delete fails")
		}
	})
}
