package registry

import "testing"

func TestGet_KnownTypes(t *testing.T) {
	tests := []struct {
		collectionType string
		chunkSize      int
		chunkOverlap   int
	}{
		{TypeResumes, 196, 30},
		{TypeProjectsExperience, 512, 50},
		{TypeJobPostings, 384, 30},
	}

	for _, tt := range tests {
		def, ok := Get(tt.collectionType)
		if !ok {
			t.Fatalf("Get(%s) not found", tt.collectionType)
		}
		if def.ChunkSize != tt.chunkSize || def.ChunkOverlap != tt.chunkOverlap {
			t.Errorf("%s chunk config = (%d,%d); want (%d,%d)",
				tt.collectionType, def.ChunkSize, def.ChunkOverlap, tt.chunkSize, tt.chunkOverlap)
		}
		if def.SimilarityTopK != 10 {
			t.Errorf("%s topK = %d; want 10", tt.collectionType, def.SimilarityTopK)
		}
	}
}

func TestGet_UnknownType(t *testing.T) {
	if _, ok := Get("meeting_notes"); ok {
		t.Error("Get should report unknown types")
	}
}

func TestChunkConfig_DefaultsForUnknown(t *testing.T) {
	size, overlap := ChunkConfig("meeting_notes")
	if size != DefaultChunkSize || overlap != DefaultChunkOverlap {
		t.Errorf("unknown type chunk config = (%d,%d); want (%d,%d)", size, overlap, DefaultChunkSize, DefaultChunkOverlap)
	}

	if topK := RetrievalConfig("meeting_notes"); topK != DefaultSimilarityTopK {
		t.Errorf("unknown type topK = %d; want %d", topK, DefaultSimilarityTopK)
	}
}

func TestAllTypes_Order(t *testing.T) {
	types := AllTypes()
	want := []string{TypeResumes, TypeProjectsExperience, TypeJobPostings}
	if len(types) != len(want) {
		t.Fatalf("AllTypes length = %d; want %d", len(types), len(want))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("AllTypes[%d] = %s; want %s", i, types[i], want[i])
		}
	}
}

func TestDefault_IsRegistered(t *testing.T) {
	def := Default()
	if def.Type != TypeProjectsExperience {
		t.Errorf("Default type = %s; want %s", def.Type, TypeProjectsExperience)
	}
	if !IsKnown(def.Type) {
		t.Error("default collection must be a registered type")
	}
}
