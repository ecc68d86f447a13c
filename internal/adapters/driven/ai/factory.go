package ai

import (
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Supported AI providers
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// ChatTemperature is the sampling temperature for answer generation
const ChatTemperature = 0.7

// EmbeddingSettings configures the embedding backend
type EmbeddingSettings struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// LLMSettings configures the chat generation backend
type LLMSettings struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// Factory creates AI services based on configuration
type Factory struct{}

// NewFactory creates a new AI service factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateEmbeddingService creates an embedding service from settings
func (f *Factory) CreateEmbeddingService(settings EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case ProviderOpenAI:
		return NewOpenAIEmbedding(settings.APIKey, settings.Model, settings.BaseURL)
	case ProviderOllama:
		return NewOllamaEmbedding(settings.BaseURL, settings.Model)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}

// CreateLLMService creates an LLM service from settings
func (f *Factory) CreateLLMService(settings LLMSettings) (driven.LLMService, error) {
	switch settings.Provider {
	case ProviderOpenAI:
		return NewOpenAILLM(settings.APIKey, settings.Model, settings.BaseURL)
	case ProviderOllama:
		return NewOllamaLLM(settings.BaseURL, settings.Model)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}
