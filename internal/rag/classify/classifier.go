package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
	"github.com/akolanti/DocStoreAPI/internal/metrics"
	"github.com/akolanti/DocStoreAPI/internal/rag/llm"
	"github.com/akolanti/DocStoreAPI/internal/registry"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

// Classifier turns raw document text into a classification result. It never
// fails outright: any model, parse or validation problem degrades to the
// fallback result so ingestion can continue.
type Classifier interface {
	Classify(ctx context.Context, content string, filename string) docModel.ClassificationResult
}

type classifier struct {
	provider     llm.Provider
	logger       *logger_i.Logger
	systemPrompt string
}

func NewClassifier(provider llm.Provider) Classifier {
	return &classifier{
		provider:     provider,
		logger:       logger_i.NewLogger("classifier"),
		systemPrompt: buildSystemPrompt(),
	}
}

// rawResult is the closed shape we accept from the model. Unknown keys are
// dropped by the decoder rather than carried along.
type rawResult struct {
	RenamedFilename string         `json:"renamed_filename"`
	Description     string         `json:"description"`
	Abstract        string         `json:"abstract"`
	CleanedContent  string         `json:"cleaned_content"`
	CollectionType  string         `json:"collection_type"`
	Metadata        map[string]any `json:"metadata"`
}

func (c *classifier) Classify(ctx context.Context, content string, filename string) docModel.ClassificationResult {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	callCtx, cancel := context.WithTimeout(ctx, config.ClassifyTimeout)
	defer cancel()

	start := time.Now()
	raw, err := c.provider.Complete(callCtx, c.systemPrompt, buildUserPrompt(truncateRunes(content, config.ClassifyMaxInputLen), filename))
	metrics.CaptureExecutionMetrics("classify", time.Since(start))

	if err != nil {
		log.Error("Classification call failed, using fallback", "error", err.Error())
		return c.fallback(content, filename)
	}

	parsed, err := parseResult(raw)
	if err != nil {
		log.Error("Could not parse classification response, using fallback", "error", err.Error())
		return c.fallback(content, filename)
	}

	if reason, ok := validate(parsed); !ok {
		log.Warn("Invalid classification result, using fallback", "reason", reason)
		return c.fallback(content, filename)
	}

	result := docModel.ClassificationResult{
		RenamedFilename: parsed.RenamedFilename,
		Description:     parsed.Description,
		Abstract:        parsed.Abstract,
		CleanedContent:  parsed.CleanedContent,
		CollectionType:  parsed.CollectionType,
		Metadata:        normalizeMetadata(parsed.Metadata),
	}
	log.Info("Document classified", "collectionType", result.CollectionType, "renamedFilename", result.RenamedFilename)
	return result
}

// parseResult cuts the answer down to the outermost JSON object before
// decoding, which tolerates models that wrap the object in prose or fences.
func parseResult(raw string) (rawResult, error) {
	var parsed rawResult

	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first == -1 || last == -1 || last < first {
		return parsed, fmt.Errorf("no JSON object in response of %d chars", len(raw))
	}

	if err := json.Unmarshal([]byte(raw[first:last+1]), &parsed); err != nil {
		return parsed, err
	}
	return parsed, nil
}

func validate(r rawResult) (string, bool) {
	switch {
	case r.RenamedFilename == "":
		return "empty renamed_filename", false
	case r.Description == "":
		return "empty description", false
	case r.Abstract == "":
		return "empty abstract", false
	case r.CleanedContent == "":
		return "empty cleaned_content", false
	case r.CollectionType == "":
		return "empty collection_type", false
	case !registry.IsKnown(r.CollectionType):
		return "unknown collection_type " + r.CollectionType, false
	}
	return "", true
}

func (c *classifier) fallback(content string, filename string) docModel.ClassificationResult {
	metrics.IncrementClassifierFallback()

	if filename == "" {
		filename = "unknown"
	}

	abstract := content
	if len([]rune(content)) > 100 {
		abstract = truncateRunes(content, 100) + "..."
	}

	return docModel.ClassificationResult{
		RenamedFilename: filename,
		Description:     "Document processing failed, default description used",
		Abstract:        abstract,
		CleanedContent:  content,
		CollectionType:  registry.DefaultType,
		Metadata:        map[string]string{},
		Fallback:        true,
	}
}

// normalizeMetadata bounds whatever the model returned: strings are clipped,
// lists keep their first few items, everything else is stringified.
func normalizeMetadata(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		switch v := value.(type) {
		case string:
			out[key] = truncateRunes(v, config.MetadataMaxStringLen)
		case []any:
			if len(v) > config.MetadataMaxListLen {
				v = v[:config.MetadataMaxListLen]
			}
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, fmt.Sprint(item))
			}
			out[key] = strings.Join(items, ", ")
		default:
			out[key] = fmt.Sprint(v)
		}
	}
	return out
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
