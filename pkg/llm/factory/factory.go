package factory

import (
	"fmt"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/llm"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/llm/huggingface"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, hfApiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(hfApiKey, "", modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
