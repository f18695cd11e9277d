package rag

import (
	"context"
	"sort"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
	"github.com/akolanti/DocStoreAPI/internal/metrics"
)

// Search fans the query out over the requested collections, filters matches
// by score and content length, then merge-ranks everything by score. No
// retrievers at all means an empty result, not an error. An unreachable
// backend or embedder does mean an error.
func (s *store) Search(ctx context.Context, queryText string, collectionTypes []string, topK int, minScore float32) ([]docModel.SearchResult, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	metrics.IncrementSearchRequests()

	if topK <= 0 {
		topK = config.DefaultSearchTopK
	}

	available := s.indexes.ActiveRetrievers()
	if len(available) == 0 {
		log.Error("No retrievers available, ingest documents first")
		return []docModel.SearchResult{}, nil
	}

	if len(collectionTypes) == 0 {
		collectionTypes = available
	}

	var allResults []docModel.SearchResult
	for _, collectionType := range collectionTypes {
		if !s.indexes.HasRetriever(collectionType) {
			log.Warn("Collection not available for search", "collectionType", collectionType)
			continue
		}

		matches, err := s.executeRetrieveStep(ctx, log, collectionType, queryText, topK)
		if err != nil {
			return nil, err
		}
		log.Info("Searched collection", "collectionType", collectionType, "matches", len(matches))

		for _, match := range matches {
			if match.Score < minScore {
				log.Debug("Filtering out low score match", "score", match.Score, "minScore", minScore)
				continue
			}
			if len(match.Content) < config.MinMatchContentLen {
				log.Debug("Filtering out near-empty match", "contentLength", len(match.Content))
				continue
			}

			allResults = append(allResults, docModel.SearchResult{
				Content:        match.Content,
				Score:          match.Score,
				CollectionType: collectionType,
				Source:         matchSource(match.Metadata),
				DocumentID:     match.Metadata["document_id"],
				Metadata:       match.Metadata,
			})
		}
	}

	// stable sort keeps the per-collection order for equal scores
	sort.SliceStable(allResults, func(i, j int) bool {
		return allResults[i].Score > allResults[j].Score
	})

	limit := topK * len(collectionTypes)
	if len(allResults) > limit {
		allResults = allResults[:limit]
	}
	for i := range allResults {
		allResults[i].Rank = i + 1
	}

	log.Info("Search finished", "results", len(allResults), "collectionsSearched", len(collectionTypes), "minScore", minScore)
	return allResults, nil
}

func matchSource(metadata map[string]string) string {
	if source := metadata["source"]; source != "" {
		return source
	}
	if fileName := metadata["file_name"]; fileName != "" {
		return fileName
	}
	return "unknown"
}
