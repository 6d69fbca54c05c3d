package factory

import (
	"context"
	"fmt"

	"ai-interview-coach-be/pkg/llm"
	"ai-interview-coach-be/pkg/llm/gemini"
	"ai-interview-coach-be/pkg/llm/huggingface"
	"ai-interview-coach-be/pkg/llm/ollama"
)

func NewLLMProvider(ctx context.Context, providerType, modelName, baseURL, huggingFaceKey, geminiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(huggingFaceKey, "", modelName), nil
	case "gemini":
		return gemini.NewGeminiProvider(ctx, geminiKey, modelName)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
