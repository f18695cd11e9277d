package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/akolanti/DocStoreAPI/internal/rag/embedding"
	"github.com/akolanti/DocStoreAPI/internal/rag/ingest"
)

// Grouping a sentence with one neighbour on each side before embedding
// smooths out distance spikes from very short lines.
const sentenceBufferSize = 1

// Adjacent sentences whose embedding distance lands above this percentile
// start a new chunk.
const breakpointPercentile = 70.0

// semanticSplit groups newline-separated sentences into chunks at the points
// where adjacent sentence embeddings drift apart. Groups that still exceed
// chunkSize are re-split by plain size.
func semanticSplit(ctx context.Context, embedder embedding.Embedder, text string, chunkSize int, chunkOverlap int) ([]string, error) {
	sentences := splitSentences(text)

	if len(sentences) <= 1 {
		return resplitOversize(sentences, chunkSize, chunkOverlap), nil
	}

	vectors, err := embedder.BatchEmbedding(ctx, bufferedSentences(sentences), false)
	if err != nil {
		return nil, fmt.Errorf("embedding sentences for splitting failed: %w", err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d sentences", len(vectors), len(sentences))
	}

	distances := make([]float64, len(sentences)-1)
	for i := range distances {
		distances[i] = 1 - cosineSimilarity(vectors[i], vectors[i+1])
	}
	threshold := percentile(distances, breakpointPercentile)

	var groups []string
	start := 0
	for i, distance := range distances {
		if distance > threshold {
			groups = append(groups, strings.Join(sentences[start:i+1], "\n"))
			start = i + 1
		}
	}
	groups = append(groups, strings.Join(sentences[start:], "\n"))

	return resplitOversize(groups, chunkSize, chunkOverlap), nil
}

func splitSentences(text string) []string {
	var sentences []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			sentences = append(sentences, line)
		}
	}
	return sentences
}

// bufferedSentences builds the text actually embedded per sentence: the
// sentence plus up to sentenceBufferSize neighbours on each side.
func bufferedSentences(sentences []string) []string {
	combined := make([]string, len(sentences))
	for i := range sentences {
		lo := i - sentenceBufferSize
		if lo < 0 {
			lo = 0
		}
		hi := i + sentenceBufferSize + 1
		if hi > len(sentences) {
			hi = len(sentences)
		}
		combined[i] = strings.Join(sentences[lo:hi], " ")
	}
	return combined
}

func resplitOversize(groups []string, chunkSize int, chunkOverlap int) []string {
	var chunks []string
	for _, group := range groups {
		if len(group) <= chunkSize {
			chunks = append(chunks, group)
			continue
		}
		chunks = append(chunks, ingest.SplitText(group, chunkSize, chunkOverlap)...)
	}
	return chunks
}

func cosineSimilarity(a []float32, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// percentile matches linear interpolation between closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}
