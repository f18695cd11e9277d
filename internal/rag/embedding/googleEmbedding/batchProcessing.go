package googleEmbedding

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func embedContents(chunks []string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(chunks))

	for _, chunk := range chunks {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contents
}

func shouldRetry(err error, log *logger_i.Logger) bool {
	s, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch s.Code() {
	case codes.ResourceExhausted:
		log.Error("Embedding quota exhausted", "error", err)
		return true
	case codes.Unavailable:
		log.Error("Embedding backend unavailable", "error", err)
		return true
	}
	return false
}

func inlineBatch(chunks []string) *genai.EmbedContentBatch {
	conf := genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"}
	return &genai.EmbedContentBatch{
		Config:   &conf,
		Contents: embedContents(chunks),
	}
}

func (c *client) pollForAnswer(ctx context.Context, batchJobName string, log *logger_i.Logger) (*genai.BatchJob, error) {
	ticker := time.NewTicker(config.EmbeddingBatchPollInterval)
	defer ticker.Stop()
	log.Debug("pollForAnswer")
	for {
		select {
		case <-ctx.Done():
			log.Error("pollForAnswer cancelled", "error:", ctx.Err())
			return nil, ctx.Err()

		case <-ticker.C:

			bJob, err := c.genAi.Batches.Get(ctx, batchJobName, nil)
			if err != nil {
				log.Error("Error getting batch job:", "error", err)
				continue
			}

			//https://pkg.go.dev/google.golang.org/genai@v1.41.1#JobState
			switch bJob.State {
			case "JOB_STATE_SUCCEEDED":
				log.Debug("batch job succeeded")
				return bJob, nil

			case "JOB_STATE_FAILED", "JOB_STATE_CANCELLED", "JOB_STATE_EXPIRED", "JOB_STATE_PARTIALLY_SUCCEEDED":
				//partial results cannot be zipped back onto their chunks, so
				//every one of these ends the job
				log.Error("Batch embedding job did not complete", "state", bJob.State)
				return nil, fmt.Errorf("batch embedding job ended in state %s", bJob.State)
				//all other states keep waiting for the job or the context
			}
		}
	}

}

func collectBatchVectors(answer *genai.BatchJob, log *logger_i.Logger) ([][]float32, error) {
	res := answer.Dest.InlinedEmbedContentResponses
	if len(res) == 0 {
		return [][]float32{}, nil
	}

	results := make([][]float32, 0, len(res))
	failed := 0
	for _, r := range res {
		//https://pkg.go.dev/google.golang.org/genai@v1.41.1#ContentEmbedding
		if r == nil || r.Error != nil || r.Response == nil || r.Response.Embedding == nil {
			log.Error("Error with a particular result in batch embedding", "error", r)
			failed++
			results = append(results, nil)
			continue
		}
		results = append(results, r.Response.Embedding.Values)
	}

	//vectors land on chunks by position at upsert time, a hole poisons the
	//whole batch
	if failed > 0 {
		return nil, fmt.Errorf("%d of %d batch embedding items failed", failed, len(res))
	}
	return results, nil
}
