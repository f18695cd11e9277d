package registry

// CollectionDefinition is the static tuning for one semantic collection:
// how its documents are chunked and how many candidates its retriever pulls.
type CollectionDefinition struct {
	Type               string
	Name               string
	Description        string
	ChunkSize          int
	ChunkOverlap       int
	SimilarityTopK     int
	RequiredMetaFields []string
	OptionalMetaFields []string
}

const (
	TypeResumes            = "resumes"
	TypeProjectsExperience = "projects_experience"
	TypeJobPostings        = "job_postings"

	// DefaultType is the bucket the classifier falls back to.
	DefaultType = TypeProjectsExperience

	DefaultChunkSize      = 512
	DefaultChunkOverlap   = 50
	DefaultSimilarityTopK = 10
)

// definitions is the closed set of collections; order is the public
// enumeration order.
var definitions = []CollectionDefinition{
	{
		Type:               TypeResumes,
		Name:               "resumes",
		Description:        "All versions of the user's resume, for career analysis, job matching, recommendations and interview preparation",
		ChunkSize:          196,
		ChunkOverlap:       30,
		SimilarityTopK:     10,
		RequiredMetaFields: []string{"target_job", "language", "last_updated"},
		OptionalMetaFields: []string{"version", "company_focus"},
	},
	{
		Type:               TypeProjectsExperience,
		Name:               "projects_experience",
		Description:        "Detailed project and work experience material, the knowledge base for analysing experience, learning paths and skill gaps",
		ChunkSize:          512,
		ChunkOverlap:       50,
		SimilarityTopK:     10,
		RequiredMetaFields: []string{"project_name", "document_type", "is_technical"},
		OptionalMetaFields: []string{"related_resume_version", "tech_stack", "duration"},
	},
	{
		Type:               TypeJobPostings,
		Name:               "job_postings",
		Description:        "Collected target job postings, for market demand analysis, skill gap identification and resume matching",
		ChunkSize:          384,
		ChunkOverlap:       30,
		SimilarityTopK:     10,
		RequiredMetaFields: []string{"company_name", "job_title", "source_url"},
		OptionalMetaFields: []string{"salary_range", "location", "experience_level"},
	},
}

var byType = func() map[string]CollectionDefinition {
	m := make(map[string]CollectionDefinition, len(definitions))
	for _, d := range definitions {
		m[d.Type] = d
	}
	return m
}()

func Get(collectionType string) (CollectionDefinition, bool) {
	d, ok := byType[collectionType]
	return d, ok
}

func IsKnown(collectionType string) bool {
	_, ok := byType[collectionType]
	return ok
}

func Default() CollectionDefinition {
	return byType[DefaultType]
}

// ChunkConfig fails soft: unknown types get the general-purpose tuning so a
// misrouted document still chunks sanely.
func ChunkConfig(collectionType string) (size int, overlap int) {
	if d, ok := byType[collectionType]; ok {
		return d.ChunkSize, d.ChunkOverlap
	}
	return DefaultChunkSize, DefaultChunkOverlap
}

func RetrievalConfig(collectionType string) (topK int) {
	if d, ok := byType[collectionType]; ok {
		return d.SimilarityTopK
	}
	return DefaultSimilarityTopK
}

// AllTypes returns the type keys in declaration order.
func AllTypes() []string {
	types := make([]string, 0, len(definitions))
	for _, d := range definitions {
		types = append(types, d.Type)
	}
	return types
}

// All returns the definitions in declaration order.
func All() []CollectionDefinition {
	out := make([]CollectionDefinition, len(definitions))
	copy(out, definitions)
	return out
}
