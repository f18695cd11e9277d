package llm

import "context"

// Provider answers one prompt pair with raw model output. The classifier is
// the only caller and does its own JSON extraction downstream.
type Provider interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
