package openaiChat

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/customHttpClient"
	"github.com/akolanti/DocStoreAPI/internal/rag/llm"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var chatClient *llmClient
var once sync.Once

func GetOpenAIChatClient(ctx context.Context, modelName string, apikey string, baseURL string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		newChatClient(ctx, modelName, apikey, baseURL)
	})

	if chatClient == nil {
		return nil
	}
	return &llmClient{client: chatClient.client, modelName: chatClient.modelName}
}

func newChatClient(ctx context.Context, modelName string, apikey string, baseURL string) {
	if apikey == "" {
		logger.Error("Error creating OpenAI chat client:", "error", "missing api key")
		return
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apikey),
		option.WithHTTPClient(customHttpClient.GetPooledClient()),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	chatClient = &llmClient{client: openai.NewClient(opts...), modelName: modelName}
	logger.Debug("OpenAI chat model name: " + modelName)
	logger.Info("OpenAI chat client created")
	go closeClient(ctx, chatClient)
}

func (c *llmClient) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(config.ClassifyTemperature),
	})
	if err != nil {
		log.Error("Error from chat completion", "error", err.Error())
		return "", err
	}
	if len(resp.Choices) == 0 {
		log.Error("Chat completion returned no choices")
		return "", errors.New("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing OpenAI chat client")
	llm.modelName = ""
}
