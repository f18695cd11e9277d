package mcptool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
)

// VectorSearchInput is the input schema for the vector_search tool.
type VectorSearchInput struct {
	QueryText       string   `json:"query_text" jsonschema:"the natural language query describing what to find"`
	CollectionTypes []string `json:"collection_types,omitempty" jsonschema:"collection types to search (resumes, projects_experience, job_postings); empty searches every active collection"`
	TopK            int      `json:"top_k,omitempty" jsonschema:"results per collection (default 15)"`
	MinScore        float32  `json:"min_score,omitempty" jsonschema:"minimum similarity score between 0 and 1 (default 0.4)"`
}

// VectorSearchOutput is the output schema for the vector_search tool.
type VectorSearchOutput struct {
	Results      []VectorSearchResult `json:"results"`
	TotalResults int                  `json:"total_results"`
	Message      string               `json:"message,omitempty"`
}

// VectorSearchResult is a single ranked match.
type VectorSearchResult struct {
	Content        string  `json:"content"`
	Score          float32 `json:"score"`
	CollectionType string  `json:"collection_type"`
	Source         string  `json:"source"`
	DocumentID     string  `json:"document_id,omitempty"`
	Rank           int     `json:"rank"`
}

// IngestDocumentInput is the input schema for the ingest_document tool.
type IngestDocumentInput struct {
	Content  string `json:"content" jsonschema:"the document text to classify and index"`
	Filename string `json:"filename,omitempty" jsonschema:"optional source filename, helps classification"`
}

// IngestDocumentOutput is the output schema for the ingest_document tool.
type IngestDocumentOutput struct {
	Success        bool   `json:"success"`
	DocumentID     string `json:"document_id,omitempty"`
	Filename       string `json:"filename,omitempty"`
	CollectionType string `json:"collection_type,omitempty"`
	Description    string `json:"description,omitempty"`
	Error          string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "vector_search",
		Description: "Semantic similarity search across the document collections",
	}, s.handleVectorSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Classify a document with the LLM and index it into the matching collection",
	}, s.handleIngestDocument)
}

// handleVectorSearch handles the vector_search tool invocation.
func (s *Server) handleVectorSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input VectorSearchInput,
) (*mcp.CallToolResult, VectorSearchOutput, error) {
	minScore := input.MinScore
	if minScore <= 0 {
		minScore = float32(config.DefaultSearchMinScore)
	}

	results, err := s.store.Search(ctx, input.QueryText, input.CollectionTypes, input.TopK, minScore)
	if err != nil {
		s.logger.Error("Vector search failed", "err", err)
		return nil, VectorSearchOutput{}, err
	}

	output := VectorSearchOutput{
		Results:      make([]VectorSearchResult, len(results)),
		TotalResults: len(results),
	}
	for i := range results {
		output.Results[i] = VectorSearchResult{
			Content:        results[i].Content,
			Score:          results[i].Score,
			CollectionType: results[i].CollectionType,
			Source:         results[i].Source,
			DocumentID:     results[i].DocumentID,
			Rank:           results[i].Rank,
		}
	}
	if len(results) == 0 && !s.store.IsReady(ctx) {
		output.Message = "No documents available for search. Please ingest documents first."
	}

	return nil, output, nil
}

// handleIngestDocument handles the ingest_document tool invocation.
func (s *Server) handleIngestDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestDocumentInput,
) (*mcp.CallToolResult, IngestDocumentOutput, error) {
	if input.Content == "" {
		return nil, IngestDocumentOutput{Success: false, Error: "content is required"}, nil
	}

	//the filename rides along as the staging path so extension detection works
	result := s.store.Ingest(ctx, docModel.IngestInput{
		Path:    input.Filename,
		Content: input.Content,
	})

	output := IngestDocumentOutput{
		Success:        result.Success,
		DocumentID:     result.DocumentID,
		Filename:       result.Filename,
		CollectionType: result.CollectionType,
		Description:    result.Description,
		Error:          result.Error,
	}
	if !result.Success {
		s.logger.Warn("Tool ingest failed", "err", result.Error)
	}

	return nil, output, nil
}
